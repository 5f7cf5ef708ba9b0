// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ledger/internal/ledger"
	"github.com/pdiddy/paper-ledger/pkg/types"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Reset malformed summaries back to pending",
	Long: `Clear scans generated summaries and resets any that do not follow the
expected markdown structure (at least one section heading) back to pending,
so the next summarize run regenerates them.`,
	RunE: runClear,
}

// sectionHeadingRe matches the section headings a well-formed summary contains.
var sectionHeadingRe = regexp.MustCompile(`##\s`)

func runClear(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	records, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}

	cleared := 0
	for i := range records {
		if records[i].State() != types.SummaryGenerated {
			continue
		}
		if sectionHeadingRe.MatchString(records[i].Summary) {
			continue
		}
		fmt.Printf("clearing %s\n", records[i].Link)
		records[i].Summary = ""
		cleared++
	}

	if cleared > 0 {
		if err := ledger.Save(cfg.LedgerPath, records); err != nil {
			return err
		}
	}

	fmt.Printf("Cleared %d malformed summaries\n", cleared)
	return nil
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
