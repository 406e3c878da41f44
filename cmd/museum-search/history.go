// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-search/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent searches",
	Long: `History lists searches recorded in the SQLite log at history.path. Only
the theme, detected period, counts, failed sources, and timing are stored;
artworks are never cached.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.History.Path == "" {
			return errors.New("search history is disabled; set history.path in the config file")
		}
		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		theme, _ := cmd.Flags().GetString("theme")
		entries, err := store.Recent(cmd.Context(), history.Query{Theme: theme, Limit: limit})
		if err != nil {
			return err
		}

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			if entries == nil {
				entries = []history.Entry{}
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(entries)
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleRounded)
		t.AppendHeader(table.Row{"When", "Theme", "Period", "Results", "Candidates", "Failed", "Took"})
		for _, e := range entries {
			t.AppendRow(table.Row{
				e.At.Local().Format("2006-01-02 15:04"),
				e.Theme,
				e.Period,
				e.Total,
				e.Candidates,
				strings.Join(e.FailedSources, ", "),
				(time.Duration(e.DurationMS) * time.Millisecond).String(),
			})
		}
		t.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "number of searches to show")
	historyCmd.Flags().String("theme", "", "only searches whose theme contains this text")
	historyCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(historyCmd)
}
