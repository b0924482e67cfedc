package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/grana-app/grana/internal/cli"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export transactions to CSV",
		RunE:  runExport,
	}

	cmd.Flags().String("from", "", "start date as DD/MM/YYYY (default: first of this year)")
	cmd.Flags().String("to", "", "end date as DD/MM/YYYY (default: today)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	now := time.Now()
	start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
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

	transactions, err := store.ListTransactions(ctx, start, end)
	if err != nil {
		return err
	}

	out := os.Stdout
	if path, _ := cmd.Flags().GetString("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	w := csv.NewWriter(out)
	header := []string{"date", "description", "category", "type", "status", "amount", "account_id", "installment", "total_installments"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, txn := range transactions {
		record := []string{
			txn.Date.Format("2006-01-02"),
			txn.Description,
			txn.Category,
			string(txn.Type),
			string(txn.Status),
			strconv.FormatFloat(txn.Amount, 'f', 2, 64),
			txn.AccountID,
			strconv.Itoa(txn.InstallmentNumber),
			strconv.Itoa(txn.TotalInstallments),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if out != os.Stdout {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("Exported %d transactions", len(transactions))))
	}
	return nil
}
