// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sources implements the museum collection API adapters. Each
// adapter maps its provider's JSON into types.ArtworkRecord; nothing
// provider-specific leaves this package.
package sources

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/pdiddy/museum-search/internal/httputil"
	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/internal/search"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Source names.
const (
	NameMet       = "met"
	NameAIC       = "aic"
	NameCleveland = "cleveland"
	NameHarvard   = "harvard"
)

// Names lists every known source in the order searches query them.
var Names = []string{NameMet, NameAIC, NameCleveland, NameHarvard}

var (
	// ErrMissingCredentials is returned for a source that needs an API key
	// when none is configured.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrDisabled is returned for a source turned off in configuration.
	ErrDisabled = errors.New("disabled in configuration")

	// ErrUnknownSource is returned for a configuration entry that names no
	// known adapter.
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidBaseURL is returned when a configured base URL is not an
	// absolute http(s) URL.
	ErrInvalidBaseURL = errors.New("invalid base_url")
)

// New builds the adapter called name from its configuration.
func New(name string, sc types.SourceConfig, client *httputil.Client, log logger.Logger) (search.Source, error) {
	if !sc.Enabled {
		return nil, ErrDisabled
	}
	base, err := baseURL(sc.BaseURL)
	if err != nil {
		return nil, err
	}
	switch name {
	case NameMet:
		return NewMet(client, base, log), nil
	case NameAIC:
		return NewAIC(client, base), nil
	case NameCleveland:
		return NewCleveland(client, base), nil
	case NameHarvard:
		if strings.TrimSpace(sc.APIKey) == "" {
			return nil, fmt.Errorf("%s requires api_key: %w", name, ErrMissingCredentials)
		}
		return NewHarvard(client, base, strings.TrimSpace(sc.APIKey)), nil
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownSource)
}

// Enabled builds every usable source from cfg. Sources absent from cfg are
// enabled with their defaults. A source that is disabled, misconfigured, or
// missing credentials is logged once and left out; it never fails startup.
func Enabled(cfg map[string]types.SourceConfig, client *httputil.Client, log logger.Logger) []search.Source {
	if log == nil {
		log = logger.NewNop()
	}
	var out []search.Source
	for _, name := range Names {
		sc, ok := cfg[name]
		if !ok {
			sc = types.SourceConfig{Enabled: true}
		}
		src, err := New(name, sc, client, log)
		switch {
		case errors.Is(err, ErrDisabled):
			log.Info("Source disabled", logger.String("source", name), logger.String("reason", err.Error()))
			continue
		case err != nil:
			log.Warn("Source disabled", logger.String("source", name), logger.Error(err))
			continue
		}
		out = append(out, src)
	}

	var unknown []string
	for name := range cfg {
		if !known(name) {
			unknown = append(unknown, name)
		}
	}
	sort.Strings(unknown)
	for _, name := range unknown {
		log.Warn("Ignoring unknown source in configuration", logger.String("source", name))
	}
	return out
}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// baseURL validates a configured base URL. Empty selects the adapter's
// default.
func baseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidBaseURL, raw)
	}
	return strings.TrimRight(raw, "/"), nil
}

func orDefault(base, def string) string {
	if base == "" {
		return def
	}
	return base
}

// placeholders are provider values that mean "no value".
var placeholders = map[string]bool{
	"unknown": true, "n.d.": true, "nd": true, "n/a": true, "none": true, "null": true, "-": true,
}

// clean trims s and maps provider placeholders to the empty string.
func clean(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if placeholders[strings.ToLower(s)] {
		return ""
	}
	return s
}

// joinTags joins non-empty cleaned values with ", ", skipping repeats.
func joinTags(values ...string) string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		v = clean(v)
		key := strings.ToLower(v)
		if v == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return strings.Join(out, ", ")
}

// httpURL returns s when it is an absolute http(s) URL.
func httpURL(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return s
	}
	return ""
}

// allKeywords joins every planned keyword, for providers with ranked,
// disjunctive full-text search.
func allKeywords(q types.QuerySpec) string {
	return strings.Join(q.Keywords, " ")
}

// themeKeywords joins only the keywords taken from the theme, for providers
// whose search requires every word to match.
func themeKeywords(q types.QuerySpec) string {
	n := q.ThemeKeywords
	if n <= 0 || n > len(q.Keywords) {
		n = min(len(q.Keywords), 3)
	}
	return strings.Join(q.Keywords[:n], " ")
}
