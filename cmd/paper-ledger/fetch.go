// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ledger/internal/arxiv"
	"github.com/pdiddy/paper-ledger/internal/ledger"
	"github.com/pdiddy/paper-ledger/internal/reconcile"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch new papers from arXiv into the ledger",
	Long: `Fetch queries arXiv for papers matching the configured keyword, drops
candidates already present in the ledger, and appends the rest as pending
records. Against an empty ledger it scans the larger init window
(ARXIV_INIT_RESULTS); otherwise the daily window (ARXIV_DAILY_RESULTS).

If a page request fails after retries, papers collected from earlier pages
are still merged and saved before the command exits non-zero.`,
	RunE: runFetch,
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	records, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}
	idx, err := ledger.Index(records)
	if err != nil {
		return err
	}

	initMode, _ := cmd.Flags().GetBool("init")
	maxResults := cfg.Search.DailyResults
	if initMode || len(records) == 0 {
		maxResults = cfg.Search.InitResults
	}
	if override, _ := cmd.Flags().GetInt("max-results"); override > 0 {
		maxResults = override
	}

	client := arxiv.NewClient(cfg.Search)
	fresh, fetchErr := client.Fetch(context.Background(), maxResults, idx)

	var fe *arxiv.FetchError
	if fetchErr != nil && !errors.As(fetchErr, &fe) {
		return fetchErr
	}
	if fe != nil {
		fmt.Fprintf(os.Stderr, "warning: %v; keeping %d papers collected before the failure\n", fe, len(fresh))
	}

	merged, err := reconcile.Merge(records, fresh)
	if err != nil {
		return err
	}
	if err := ledger.Save(cfg.LedgerPath, merged); err != nil {
		return err
	}

	fmt.Printf("Added %d new papers (%d total) to %s\n", len(fresh), len(merged), cfg.LedgerPath)
	return fetchErr
}

func init() {
	fetchCmd.Flags().Bool("init", false, "force the init-sized candidate window")
	fetchCmd.Flags().Int("max-results", 0, "override the candidate window size")

	rootCmd.AddCommand(fetchCmd)
}
