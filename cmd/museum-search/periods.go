// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the historical periods themes are matched against",
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog, err := loadCatalog(cfg, log)
		if err != nil {
			return err
		}
		entries := catalog.Entries()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"Period", "Years", "Aliases"})
		t.SetColumnConfigs([]table.ColumnConfig{{Number: 3, WidthMax: 60}})
		for _, p := range entries {
			t.AppendRow(table.Row{p.CanonicalName, fmt.Sprintf("%d–%d", p.StartYear, p.EndYear), strings.Join(p.Aliases, ", ")})
		}
		t.AppendFooter(table.Row{"Total", len(entries)})
		t.Render()
		return nil
	},
}

func init() {
	periodsCmd.Flags().Bool("json", false, "output the catalog as JSON")
	rootCmd.AddCommand(periodsCmd)
}
