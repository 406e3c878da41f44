// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/pdiddy/museum-search/pkg/types"
)

// Table column widths.
const (
	titleWidth   = 48
	artistWidth  = 24
	dateWidth    = 14
	reasonsWidth = 40
)

// FormatTable writes a search result as a human-readable table to w.
func FormatTable(res types.SearchResult, w io.Writer) {
	if res.Total == 0 {
		fmt.Fprintf(w, "No results found for %q.\n", res.Theme)
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, WidthMax: titleWidth},
		{Number: 3, WidthMax: artistWidth},
		{Number: 4, WidthMax: dateWidth},
		{Number: 7, WidthMax: reasonsWidth},
	})
	t.AppendHeader(table.Row{"#", "Title", "Artist", "Date", "Score", "Source", "Reasons"})

	for i, r := range res.Results {
		t.AppendRow(table.Row{
			i + 1,
			orDash(r.Title),
			orDash(r.Artist),
			orDash(r.Date),
			fmt.Sprintf("%.3f", r.Score),
			r.Source,
			strings.Join(r.Reasons, ", "),
		})
	}

	t.AppendFooter(table.Row{"Total", res.Total})
	t.Render()

	fmt.Fprintf(w, "Theme: %s", res.Theme)
	if res.Period != "" {
		fmt.Fprintf(w, " (period: %s)", res.Period)
	}
	fmt.Fprintln(w)
}

// FormatJSON writes a search result as indented JSON to w.
func FormatJSON(res types.SearchResult, w io.Writer) error {
	if res.Results == nil {
		res.Results = []types.ResultEntry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
