// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Output formats.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatCSL   = "csl"
)

var searchCmd = &cobra.Command{
	Use:   "search [theme]",
	Short: "Search museum collections for artworks matching a theme",
	Long: `Search queries every enabled collection for artworks matching a free-text
theme and prints the ranked results. When the theme names a historical period
the search is restricted to the period's dates and period keywords widen the
query.

Use --save to write the results to a YAML query file and --load to re-render
a saved file without calling any collection API.`,
	Example: `  museum-search search "cold war posters"
  museum-search search women in the city --format json
  museum-search search "renaissance portraits" --sources met,aic --save portraits.yaml
  museum-search search --load portraits.yaml --format csl`,
	RunE: runSearch,
}

func init() {
	f := searchCmd.Flags()
	f.StringP("format", "f", formatTable, "output format: table, json, csl")
	f.String("save", "", "write the query and results to a YAML file")
	f.String("load", "", "render results from a saved query file instead of searching")
	f.StringSlice("sources", nil, "only query these sources (comma-separated)")
	f.Int("top-k", 0, "maximum number of results")
	f.Int("per-source-limit", 0, "records requested from each source")
	f.Int("max-religious", 0, "cap on religious works in the results (0 disables)")
	f.Bool("require-image", false, "drop records without an image")
	annotate(f, "top-k", "search.top_k")
	annotate(f, "per-source-limit", "search.per_source_limit")
	annotate(f, "max-religious", "search.max_religious")
	annotate(f, "require-image", "search.require_image")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	savePath, _ := cmd.Flags().GetString("save")
	loadPath, _ := cmd.Flags().GetString("load")
	only, _ := cmd.Flags().GetStringSlice("sources")

	switch format {
	case formatTable, formatJSON, formatCSL:
	default:
		return fmt.Errorf("unknown --format %q (want table, json, or csl)", format)
	}

	out := cmd.OutOrStdout()

	if loadPath != "" {
		if len(args) > 0 {
			return errors.New("--load replays a saved search; do not pass a theme")
		}
		qf, err := search.ReadQueryFile(loadPath)
		if err != nil {
			return err
		}
		return render(out, qf.Result(), format)
	}

	theme := strings.TrimSpace(strings.Join(args, " "))
	if theme == "" {
		return errors.New("a theme is required, for example: museum-search search \"cold war posters\"")
	}

	a, err := newApp(cfg, log, appOptions{only: only, withHistory: true})
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	res, sum, err := a.engine.SearchWithSummary(ctx, theme)
	if err != nil {
		return err
	}
	if len(sum.Failed) > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: no results from %s\n", strings.Join(sum.Failed, ", "))
	}

	if savePath != "" {
		qc := search.QueryFileConfig{TopK: cfg.Search.TopK, Sources: a.engine.Sources()}
		if err := search.WriteQueryFile(savePath, res, sum, qc); err != nil {
			return err
		}
		log.Info("Saved query file", logger.String("path", savePath))
	}

	return render(out, res, format)
}

func render(w io.Writer, res types.SearchResult, format string) error {
	switch format {
	case formatJSON:
		return search.FormatJSON(res, w)
	case formatCSL:
		return search.FormatCSL(res, w)
	}
	search.FormatTable(res, w)
	return nil
}
