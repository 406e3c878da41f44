// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/museum-search/internal/config"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/internal/sources"
	"github.com/pdiddy/museum-search/pkg/types"
)

type namedSource string

func (n namedSource) Name() string { return string(n) }
func (n namedSource) Fetch(context.Context, types.QuerySpec) ([]types.ArtworkRecord, error) {
	return nil, nil
}

func TestBindFlagsOverridesConfig(t *testing.T) {
	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	cmd.Flags().Int("top-k", 0, "")
	cmd.Flags().Int("per-source-limit", 0, "")
	annotate(cmd.Flags(), "top-k", "search.top_k")
	annotate(cmd.Flags(), "per-source-limit", "search.per_source_limit")
	require.NoError(t, cmd.Flags().Parse([]string{"--top-k", "7"}))

	v := config.New("")
	v.SetConfigName("no-such-config-name")
	require.NoError(t, bindFlags(v, cmd))

	dir := t.TempDir()
	c, err := config.Load(v, config.Options{EnvFile: filepath.Join(dir, ".env"), SecretsDir: dir}, nil)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Search.TopK)
	// An unset flag leaves the default in place.
	assert.Equal(t, 40, c.Search.PerSourceLimit)
}

func TestRestrict(t *testing.T) {
	srcs := []search.Source{namedSource("met"), namedSource("aic"), namedSource("cleveland")}

	got, err := restrict(srcs, []string{"cleveland", " MET "})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "met", got[0].Name())
	assert.Equal(t, "cleveland", got[1].Name())

	_, err = restrict(srcs, []string{"louvre"})
	assert.True(t, errors.Is(err, sources.ErrUnknownSource))

	// A known but unconfigured source just yields nothing.
	got, err = restrict(srcs, []string{"harvard"})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRender(t *testing.T) {
	res := types.SearchResult{Theme: "sea", Total: 1, Results: []types.ResultEntry{{Title: "Wave", Source: "met", Score: 0.5}}}

	var buf bytes.Buffer
	require.NoError(t, render(&buf, res, formatJSON))
	assert.Contains(t, buf.String(), `"title": "Wave"`)

	buf.Reset()
	require.NoError(t, render(&buf, res, formatCSL))
	assert.Contains(t, buf.String(), "type: graphic")

	buf.Reset()
	require.NoError(t, render(&buf, res, formatTable))
	assert.Contains(t, buf.String(), "Wave")
}

func TestSearchCommandLoadsQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.yaml")
	res := types.SearchResult{Theme: "sea storms", Total: 1, Results: []types.ResultEntry{{Title: "The Storm", Source: "aic", Score: 0.8}}}
	require.NoError(t, search.WriteQueryFile(path, res, search.Summary{}, search.QueryFileConfig{TopK: 20}))

	cmd := &cobra.Command{RunE: runSearch}
	cmd.Flags().AddFlagSet(searchCmd.Flags())
	require.NoError(t, cmd.Flags().Set("load", path))
	require.NoError(t, cmd.Flags().Set("format", formatJSON))
	t.Cleanup(func() {
		searchCmd.Flags().Set("load", "")
		searchCmd.Flags().Set("format", formatTable)
	})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cfg, log = &types.Config{}, logger.NewNop()
	require.NoError(t, runSearch(cmd, nil))
	assert.Contains(t, out.String(), `"theme": "sea storms"`)
	assert.Contains(t, out.String(), "The Storm")
}

func TestSearchCommandRejectsBadInput(t *testing.T) {
	cmd := &cobra.Command{RunE: runSearch}
	cmd.Flags().AddFlagSet(searchCmd.Flags())
	cfg, log = &types.Config{}, logger.NewNop()

	err := runSearch(cmd, []string{"  "})
	assert.ErrorContains(t, err, "theme is required")

	require.NoError(t, cmd.Flags().Set("format", "xml"))
	t.Cleanup(func() { searchCmd.Flags().Set("format", formatTable) })
	err = runSearch(cmd, []string{"sea"})
	assert.ErrorContains(t, err, "unknown --format")
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(os.Stdout) })
	versionCmd.Run(versionCmd, nil)
	assert.Equal(t, "museum-search dev\n", out.String())
}
