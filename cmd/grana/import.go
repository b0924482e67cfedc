package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/grana-app/grana/internal/ai"
	"github.com/grana-app/grana/internal/category"
	"github.com/grana-app/grana/internal/cli"
	"github.com/grana-app/grana/internal/extract"
	"github.com/grana-app/grana/internal/importer"
	"github.com/grana-app/grana/internal/parser"
	"github.com/grana-app/grana/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <files...>",
		Short: "Import bank statements and credit-card invoices",
		Long: `Import transactions from one or more statement files.

Supported formats: PDF (credit-card invoices), CSV (bank exports), OFX/QFX,
and plain text. Parsed transactions are shown for review before anything is
saved; re-importing the same file is safe, duplicates are skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("ai", false, "extract with Gemini instead of the built-in parsers")
	cmd.Flags().String("model", "", "Gemini model to use with --ai")
	cmd.Flags().Bool("dry-run", false, "parse and report, save nothing")
	cmd.Flags().BoolP("yes", "y", false, "skip the review prompt and import everything")
	cmd.Flags().String("account", "", "force all bank transactions into this account id")
	cmd.Flags().String("card", "", "force all invoice transactions onto this card id")
	cmd.Flags().String("bank", "", "bank name for CSV files that do not carry one")

	_ = viper.BindPFlag("ai.model", cmd.Flags().Lookup("model"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	useAI, _ := cmd.Flags().GetBool("ai")
	bankName, _ := cmd.Flags().GetString("bank")
	skipReview, _ := cmd.Flags().GetBool("yes")

	opts := importer.Options{}
	opts.AccountID, _ = cmd.Flags().GetString("account")
	opts.CardID, _ = cmd.Flags().GetString("card")
	opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

	// Progress across the file set. The bar and the interactive review both
	// want the terminal, so it only appears for unattended runs.
	var bar *progressbar.ProgressBar
	if len(args) > 1 && skipReview {
		bar = progressbar.NewOptions(len(args),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Importing statements..."),
		)
	}

	reconciler := importer.NewReconciler(store, nil)
	total := &importer.Summary{}

	for _, path := range args {
		summary, err := importFile(ctx, store, reconciler, path, bankName, useAI, skipReview, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		total.Add(summary)
		if bar != nil {
			_ = bar.Add(1)
		}
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}

	printSummary(total, opts.DryRun)
	return nil
}

// importFile parses, reviews, and reconciles one statement file. An aborted
// review skips just this file; the rest of the set still imports.
func importFile(ctx context.Context, store service.Storage, reconciler *importer.Reconciler, path, bankName string, useAI, skipReview bool, opts importer.Options) (*importer.Summary, error) {
	stmt, err := parseFile(ctx, store, path, bankName, useAI)
	if err != nil {
		return nil, err
	}
	if len(stmt.Candidates) == 0 {
		fmt.Println(cli.FormatInfo("No transactions found in " + filepath.Base(path)))
		return nil, nil
	}

	if !skipReview {
		fmt.Println(cli.FormatTitle(filepath.Base(path)))
		reviewer := cli.NewReviewer(os.Stdin, os.Stdout)
		reviewed, err := reviewer.Review(ctx, stmt.Candidates)
		if err != nil {
			if errors.Is(err, cli.ErrReviewAborted) {
				fmt.Println(cli.FormatWarning("Skipped " + filepath.Base(path) + ", nothing saved from it"))
				return nil, nil
			}
			return nil, err
		}
		stmt.Candidates = reviewed
	}

	return reconciler.Reconcile(ctx, stmt, opts)
}

// parseFile routes the statement to the right parser by extension. With
// useAI, the document goes to Gemini instead of the deterministic parsers.
func parseFile(ctx context.Context, store service.Storage, path, bankName string, useAI bool) (*parser.Statement, error) {
	hint := parser.Hint{Filename: filepath.Base(path)}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		if useAI {
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", path, err)
			}
			return extractWithAI(ctx, store, service.ExtractionInput{MIMEType: "application/pdf", Data: data})
		}
		text, err := extract.PDFText(path)
		if err != nil {
			return nil, err
		}
		return parser.ParseText(text, hint)

	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()

		rows, err := extract.ReadRows(f)
		if err != nil {
			return nil, err
		}
		return parser.ParseRows(rows, bankName)

	case ".ofx", ".qfx":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer func() { _ = f.Close() }()
		return parser.ParseOFX(f)

	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if useAI {
			return extractWithAI(ctx, store, service.ExtractionInput{Text: string(data)})
		}
		return parser.ParseText(string(data), hint)
	}
}

// extractWithAI runs the Gemini extractor with the merged category taxonomy
// and wraps the result in a Statement. A spinner covers the wait.
func extractWithAI(ctx context.Context, store service.Storage, input service.ExtractionInput) (*parser.Statement, error) {
	custom, err := store.ListCustomCategories(ctx)
	if err != nil {
		return nil, err
	}
	names := category.Names(category.Merge(category.Taxonomy(), custom))

	extractor, err := ai.NewGeminiExtractor(ctx, viper.GetString("ai.model"), names, nil)
	if err != nil {
		return nil, err
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting transactions with AI..."),
		progressbar.OptionSpinnerType(14),
	)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				_ = bar.Add(1)
			}
		}
	}()

	candidates, err := extractor.Extract(ctx, input)
	close(done)
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, err
	}

	return &parser.Statement{Candidates: candidates}, nil
}

func printSummary(summary *importer.Summary, dryRun bool) {
	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: %d transactions would be saved, %d duplicates skipped",
			summary.Saved, summary.DuplicatesSkipped)))
		return
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Saved %d transactions", summary.Saved)))
	if summary.DuplicatesSkipped > 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Skipped %d duplicates", summary.DuplicatesSkipped)))
	}
	if summary.Invalid > 0 {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("Skipped %d unparseable entries", summary.Invalid)))
	}
	if summary.FutureInstallments > 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Scheduled %d future installments", summary.FutureInstallments)))
	}
	if summary.NewAccounts > 0 || summary.NewCards > 0 {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Created %d accounts and %d cards", summary.NewAccounts, summary.NewCards)))
	}
}
