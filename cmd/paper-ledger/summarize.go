// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ledger/internal/ledger"
	"github.com/pdiddy/paper-ledger/internal/summarize"
	"github.com/pdiddy/paper-ledger/pkg/types"
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate AI summaries for pending ledger records",
	Long: `Summarize processes every pending record in ledger order: it fetches the
paper's rendered HTML, asks the inference endpoint for a structured
Chinese-language summary, and writes the result back into the ledger.

One record's failure never blocks the rest; failed records stay pending and
are revisited on the next run. The ledger is written back every
BATCH_WRITE_SIZE successes so progress survives interruption.`,
	RunE: runSummarize,
}

func runSummarize(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	if cfg.Summary.AccessToken == "" {
		return fmt.Errorf("missing inference credential: set MODELSCOPE_ACCESS_TOKEN or .secrets/modelscope-access-token")
	}

	records, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}
	if _, err := ledger.Index(records); err != nil {
		return err
	}

	pending := 0
	for _, r := range records {
		if r.State() == types.SummaryPending {
			pending++
		}
	}
	if pending == 0 {
		fmt.Println("No pending records.")
		return nil
	}
	fmt.Printf("Summarizing %d pending records\n", pending)

	s := summarize.New(cfg.Summary)
	flush := func(rs []types.Record) error {
		return ledger.Save(cfg.LedgerPath, rs)
	}

	// Per-record failures are reported in the batch summary, not escalated:
	// the next run retries whatever is still pending.
	_, err = s.Run(context.Background(), records, flush, os.Stdout)
	return err
}

func init() {
	rootCmd.AddCommand(summarizeCmd)
}
