package cmd

import (
	"fmt"
	"os"

	"github.com/oleksii-sytar/fincast/internal/cli"
	"github.com/oleksii-sytar/fincast/internal/model"
	"github.com/oleksii-sytar/fincast/internal/obs"
	"github.com/oleksii-sytar/fincast/internal/source"

	"github.com/spf13/cobra"
)

var flagImportPlanned bool

var importCmd = &cobra.Command{
	Use:   "import <file.csv>",
	Short: "Import a bank CSV export into the ledger",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	importCmd.Flags().BoolVar(&flagImportPlanned, "planned", false,
		"Store rows as planned future transactions instead of history")
	rootCmd.AddCommand(importCmd)
}

func runImport(_ *cobra.Command, args []string) error {
	log := newLogger()
	tracker := obs.NewErrorTracker(log)
	cfg := loadSetup()

	path := args[0]
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Parsing %s...\n", path)
	}

	result, err := obs.Tracked(tracker, "import", "parse_csv", func() (source.ParseResult, error) {
		return obs.Timed(log, "parse csv", func() (source.ParseResult, error) {
			return source.ParseFile(path)
		})
	})
	if err != nil {
		return err
	}

	if len(result.Transactions) == 0 {
		fmt.Println("  No usable rows found in the file.")
		reportRowErrors(result.RowErrors)
		return nil
	}

	ledger, err := openLedger(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = ledger.Close() }()

	var inserted int
	if flagImportPlanned {
		inserted, err = obs.Tracked(tracker, "import", "insert_planned", func() (int, error) {
			return ledger.InsertPlanned(toPlanned(result.Transactions))
		})
	} else {
		inserted, err = obs.Tracked(tracker, "import", "insert_transactions", func() (int, error) {
			return ledger.InsertTransactions(result.Transactions)
		})
	}
	if err != nil {
		return err
	}

	kind := "transactions"
	if flagImportPlanned {
		kind = "planned transactions"
	}
	fmt.Printf("  Imported %s %s into %s\n", cli.FormatNumber(int64(inserted)), kind, ledger.Path())
	reportRowErrors(result.RowErrors)

	return nil
}

func toPlanned(txns []model.Transaction) []model.PlannedTransaction {
	planned := make([]model.PlannedTransaction, 0, len(txns))
	for _, tx := range txns {
		planned = append(planned, model.PlannedTransaction{
			Amount: tx.Amount,
			Date:   tx.Date,
			Type:   tx.Type,
			Note:   tx.Note,
		})
	}
	return planned
}

func reportRowErrors(rowErrs []source.RowError) {
	if len(rowErrs) == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "  %d rows skipped:\n", len(rowErrs))
	limit := len(rowErrs)
	if limit > 5 {
		limit = 5
	}
	for _, re := range rowErrs[:limit] {
		fmt.Fprintf(os.Stderr, "    line %d: %v\n", re.Line, re.Err)
	}
	if len(rowErrs) > limit {
		fmt.Fprintf(os.Stderr, "    ... and %d more\n", len(rowErrs)-limit)
	}
}
