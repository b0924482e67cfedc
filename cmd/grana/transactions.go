package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/cli"
	"github.com/grana-app/grana/internal/installment"
	"github.com/grana-app/grana/internal/model"
	"github.com/grana-app/grana/internal/service"
)

func txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	cmd.AddCommand(txAddCmd())
	cmd.AddCommand(txEditCmd())
	cmd.AddCommand(txDeleteCmd())
	cmd.AddCommand(txListCmd())
	return cmd
}

func txAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Long: `Add a transaction to an account or card.

With --installments N the amount is treated as one installment and N monthly
transactions are created, the first completed and the rest pending.`,
		RunE: runTxAdd,
	}

	cmd.Flags().String("account", "", "destination account or card id (required)")
	cmd.Flags().String("date", "", "date as DD/MM/YYYY (default: today)")
	cmd.Flags().StringP("description", "d", "", "description (required)")
	cmd.Flags().Float64P("amount", "a", 0, "amount, always positive (required)")
	cmd.Flags().StringP("type", "t", "expense", "income or expense")
	cmd.Flags().StringP("category", "c", "", "category (default: inferred from description)")
	cmd.Flags().String("status", "completed", "completed or pending")
	cmd.Flags().IntP("installments", "i", 0, "split into N monthly installments")
	cmd.Flags().Bool("fixed", false, "mark as a fixed expense")
	cmd.Flags().Bool("recurring", false, "mark as recurring")

	_ = cmd.MarkFlagRequired("account")
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func runTxAdd(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	accountID, _ := cmd.Flags().GetString("account")
	description, _ := cmd.Flags().GetString("description")
	amount, _ := cmd.Flags().GetFloat64("amount")
	typeFlag, _ := cmd.Flags().GetString("type")
	categoryFlag, _ := cmd.Flags().GetString("category")
	statusFlag, _ := cmd.Flags().GetString("status")
	installments, _ := cmd.Flags().GetInt("installments")
	isFixed, _ := cmd.Flags().GetBool("fixed")
	isRecurring, _ := cmd.Flags().GetBool("recurring")

	date := time.Now()
	if dateFlag, _ := cmd.Flags().GetString("date"); dateFlag != "" {
		date, err = time.Parse("02/01/2006", dateFlag)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected DD/MM/YYYY: %w", dateFlag, err)
		}
	}

	txType := model.TypeExpense
	if typeFlag == "income" {
		txType = model.TypeIncome
	}
	status := model.StatusCompleted
	if statusFlag == "pending" {
		status = model.StatusPending
	}
	if categoryFlag == "" {
		categoryFlag = category.Categorize(description)
	}

	base := model.Transaction{
		AccountID:   accountID,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
		Category:    categoryFlag,
		Status:      status,
		IsFixed:     isFixed,
		IsRecurring: isRecurring,
	}

	if installments > 1 {
		if err := addInstallmentPlan(ctx, store, base, installments); err != nil {
			return err
		}
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %d installments of %s", installments, cli.FormatMoney(amount))))
		return nil
	}

	base.ID = uuid.NewString()
	if err := store.AddTransaction(ctx, &base); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Added %s %s", description, cli.FormatMoney(amount))))
	return nil
}

// addInstallmentPlan expands a purchase into its monthly occurrences and
// commits them as one atomic batch, so a failure never leaves a partial plan
// behind. Only the first occurrence lands completed; the tail stays pending
// until each month comes due.
func addInstallmentPlan(ctx context.Context, store service.Storage, base model.Transaction, count int) error {
	batch := &service.ImportBatch{BalanceDeltas: make(map[string]float64)}

	for _, occ := range installment.Expand(base.Date, model.FrequencyMonthly, count) {
		txn := base
		txn.ID = uuid.NewString()
		txn.Date = occ.Date
		txn.InstallmentNumber = occ.Index + 1
		txn.TotalInstallments = count
		txn.Description = installment.Renumber(base.Description, occ.Index+1, count)
		if occ.Index > 0 {
			txn.Status = model.StatusPending
		}
		batch.Transactions = append(batch.Transactions, txn)
		batch.BalanceDeltas[txn.AccountID] += txn.BalanceEffect()
	}

	return store.ApplyImportBatch(ctx, batch)
}

func txEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		RunE:  runTxEdit,
	}

	cmd.Flags().String("date", "", "date as DD/MM/YYYY")
	cmd.Flags().StringP("description", "d", "", "description")
	cmd.Flags().Float64P("amount", "a", 0, "amount")
	cmd.Flags().StringP("type", "t", "", "income or expense")
	cmd.Flags().StringP("category", "c", "", "category")
	cmd.Flags().String("status", "", "completed or pending")

	return cmd
}

func runTxEdit(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txn, err := store.GetTransactionByID(ctx, args[0])
	if err != nil {
		return err
	}

	if v, _ := cmd.Flags().GetString("date"); v != "" {
		date, err := time.Parse("02/01/2006", v)
		if err != nil {
			return fmt.Errorf("invalid date %q, expected DD/MM/YYYY: %w", v, err)
		}
		txn.Date = date
	}
	if v, _ := cmd.Flags().GetString("description"); v != "" {
		txn.Description = v
	}
	if cmd.Flags().Changed("amount") {
		txn.Amount, _ = cmd.Flags().GetFloat64("amount")
	}
	if v, _ := cmd.Flags().GetString("type"); v != "" {
		txn.Type = model.TypeExpense
		if v == "income" {
			txn.Type = model.TypeIncome
		}
	}
	if v, _ := cmd.Flags().GetString("category"); v != "" {
		txn.Category = v
	}
	if v, _ := cmd.Flags().GetString("status"); v != "" {
		txn.Status = model.StatusCompleted
		if v == "pending" {
			txn.Status = model.StatusPending
		}
	}

	if err := store.UpdateTransaction(ctx, txn); err != nil {
		return err
	}
	fmt.Println(cli.FormatSuccess("Transaction updated"))
	return nil
}

func txDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteTransaction(ctx, args[0]); err != nil {
				return err
			}
			fmt.Println(cli.FormatSuccess("Transaction deleted"))
			return nil
		},
	}
}

func txListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		RunE:  runTxList,
	}

	cmd.Flags().String("from", "", "start date as DD/MM/YYYY (default: first of this month)")
	cmd.Flags().String("to", "", "end date as DD/MM/YYYY (default: today)")
	cmd.Flags().String("account", "", "only this account or card id")

	return cmd
}

func runTxList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := now
	if v, _ := cmd.Flags().GetString("from"); v != "" {
		if start, err = time.Parse("02/01/2006", v); err != nil {
			return fmt.Errorf("invalid --from date %q: %w", v, err)
		}
	}
	if v, _ := cmd.Flags().GetString("to"); v != "" {
		if end, err = time.Parse("02/01/2006", v); err != nil {
			return fmt.Errorf("invalid --to date %q: %w", v, err)
		}
	}

	var transactions []model.Transaction
	if accountID, _ := cmd.Flags().GetString("account"); accountID != "" {
		transactions, err = store.ListTransactionsByAccount(ctx, accountID, start, end)
	} else {
		transactions, err = store.ListTransactions(ctx, start, end)
	}
	if err != nil {
		return err
	}

	if len(transactions) == 0 {
		fmt.Println(cli.FormatInfo("No transactions in this period"))
		return nil
	}

	var income, expense float64
	for _, txn := range transactions {
		status := ""
		if txn.Status == model.StatusPending {
			status = cli.SubtleStyle.Render(" (pending)")
		}
		fmt.Printf("%s  %-40s %-14s %s%s  %s\n",
			txn.Date.Format("02/01/2006"),
			txn.Description,
			txn.Category,
			cli.FormatSignedMoney(txn.Amount, txn.Type == model.TypeIncome),
			status,
			cli.SubtleStyle.Render(txn.ID))

		if txn.Status == model.StatusCompleted {
			if txn.Type == model.TypeIncome {
				income += txn.Amount
			} else {
				expense += txn.Amount
			}
		}
	}

	fmt.Println()
	fmt.Printf("Income:  %s\n", cli.FormatSignedMoney(income, true))
	fmt.Printf("Expense: %s\n", cli.FormatSignedMoney(expense, false))
	return nil
}
