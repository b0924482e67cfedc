package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/grana-app/grana/internal/cli"
	"github.com/grana-app/grana/internal/model"
)

func cardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage credit cards",
	}
	cmd.AddCommand(cardsAddCmd())
	cmd.AddCommand(cardsListCmd())
	cmd.AddCommand(cardsInvoiceCmd())
	return cmd
}

func cardsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a credit card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			limit, _ := cmd.Flags().GetFloat64("limit")
			closingDay, _ := cmd.Flags().GetInt("closing-day")
			dueDay, _ := cmd.Flags().GetInt("due-day")
			color, _ := cmd.Flags().GetString("color")

			card := &model.CreditCard{
				ID:         uuid.NewString(),
				Name:       args[0],
				Limit:      limit,
				ClosingDay: closingDay,
				DueDay:     dueDay,
				Color:      color,
			}
			if err := store.CreateCard(ctx, card); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created card %s (%s)", card.Name, card.ID)))
			return nil
		},
	}

	cmd.Flags().Float64P("limit", "l", 1000, "credit limit")
	cmd.Flags().Int("closing-day", 1, "invoice closing day (1-31)")
	cmd.Flags().Int("due-day", 10, "invoice due day (1-31)")
	cmd.Flags().String("color", "", "display color")

	return cmd
}

func cardsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List credit cards",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cards, err := store.ListCards(ctx)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Println(cli.FormatInfo("No cards yet. Create one with: grana cards add"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Credit cards"))
			for _, card := range cards {
				fmt.Printf("%s %-25s limit %12s  closes day %2d, due day %2d  %s\n",
					cli.CardIcon,
					card.Name,
					cli.FormatMoney(card.Limit),
					card.ClosingDay,
					card.DueDay,
					cli.SubtleStyle.Render(card.ID))
			}
			return nil
		},
	}
}

func cardsInvoiceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice <card-id>",
		Short: "Show a card's invoice",
		Long: `Show one invoice cycle of a card: the transactions dated inside the cycle
window and the cycle's total, status, and due date. --cycle 0 is the current
open invoice, 1 the previous one, and so on.`,
		Args: cobra.ExactArgs(1),
		RunE: runCardsInvoice,
	}

	cmd.Flags().Int("cycle", 0, "invoice cycle index (0 = current)")

	return cmd
}

func runCardsInvoice(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	card, err := store.GetCard(ctx, args[0])
	if err != nil {
		return err
	}

	index, _ := cmd.Flags().GetInt("cycle")
	cycle := card.Cycle(index, time.Now())

	// The cycle window is half-open; the listing query is inclusive, so the
	// closing day itself is excluded by filtering below.
	transactions, err := store.ListTransactionsByAccount(ctx, card.ID, cycle.Start, cycle.End)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatTitle(fmt.Sprintf("%s %s invoice", cli.CardIcon, card.Name)))
	fmt.Printf("Cycle:  %s to %s (%s)\n",
		cycle.Start.Format("02/01/2006"),
		cycle.End.AddDate(0, 0, -1).Format("02/01/2006"),
		string(cycle.Status))
	fmt.Printf("Due:    %s\n\n", cycle.DueDate.Format("02/01/2006"))

	var total float64
	for _, txn := range transactions {
		if !cycle.Contains(txn.Date) {
			continue
		}
		fmt.Printf("%s  %-40s %-14s %s\n",
			txn.Date.Format("02/01/2006"),
			txn.Description,
			txn.Category,
			cli.FormatSignedMoney(txn.Amount, txn.Type == model.TypeIncome))
		if txn.Type == model.TypeIncome {
			total -= txn.Amount
		} else {
			total += txn.Amount
		}
	}

	fmt.Printf("\nTotal: %s\n", cli.FormatMoney(total))
	return nil
}
