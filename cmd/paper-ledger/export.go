// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-ledger/internal/ledger"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger as YAML or JSON",
	Long: `Export writes the ledger records to stdout (or --out) as YAML or JSON
for downstream tooling. The ledger file itself is untouched.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	records, err := ledger.Load(cfg.LedgerPath)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "yaml", "":
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("marshaling records: %w", err)
		}
		_, err = out.Write(data)
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
