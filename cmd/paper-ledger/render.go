// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-ledger/internal/ledger"
	"github.com/pdiddy/paper-ledger/internal/site"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the ledger into a static site",
	Long: `Render reads the finalized ledger and writes a self-contained static
bundle to the site directory: index.html plus assets/{style.css, app.js,
data.json}. Summaries are rendered from markdown to escaped HTML.`,
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()

	records, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}

	if err := site.Render(records, cfg.Site.OutputDir); err != nil {
		return err
	}

	fmt.Printf("Rendered %d papers to %s\n", len(records), cfg.Site.OutputDir)
	return nil
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
