package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/grana-app/grana/internal/cli"
	"github.com/grana-app/grana/internal/model"
)

func accountsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage bank accounts",
	}
	cmd.AddCommand(accountsAddCmd())
	cmd.AddCommand(accountsListCmd())
	return cmd
}

func accountsAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a bank account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accountType, _ := cmd.Flags().GetString("type")
			balance, _ := cmd.Flags().GetFloat64("balance")
			color, _ := cmd.Flags().GetString("color")

			account := &model.Account{
				ID:             uuid.NewString(),
				Name:           args[0],
				Type:           accountType,
				Balance:        balance,
				InitialBalance: balance,
				Color:          color,
			}
			if err := store.CreateAccount(ctx, account); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Created account %s (%s)", account.Name, account.ID)))
			return nil
		},
	}

	cmd.Flags().StringP("type", "t", "checking", "account type (checking, savings, wallet)")
	cmd.Flags().Float64P("balance", "b", 0, "initial balance")
	cmd.Flags().String("color", "", "display color, e.g. #4D96FF")

	return cmd
}

func accountsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts and balances",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			accounts, err := store.ListAccounts(ctx)
			if err != nil {
				return err
			}
			if len(accounts) == 0 {
				fmt.Println(cli.FormatInfo("No accounts yet. Create one with: grana accounts add"))
				return nil
			}

			fmt.Println(cli.FormatTitle("Accounts"))
			var total float64
			for _, account := range accounts {
				fmt.Printf("%s %-25s %-10s %14s  %s\n",
					cli.BankIcon,
					account.Name,
					account.Type,
					cli.FormatMoney(account.Balance),
					cli.SubtleStyle.Render(account.ID))
				total += account.Balance
			}
			fmt.Printf("\nTotal: %s\n", cli.FormatMoney(total))
			return nil
		},
	}
}
