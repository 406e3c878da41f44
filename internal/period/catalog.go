// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package period recognizes named historical periods in a theme. The catalog
// is table-driven YAML: a built-in file embedded at compile time plus an
// optional operator file appended after it. Entries can be added without
// touching any scoring code.
package period

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/museum-search/internal/logger"
	"github.com/pdiddy/museum-search/pkg/types"
)

//go:embed periods.yaml
var builtinCatalog []byte

// ErrInvalidEntry marks a catalog entry that failed validation.
var ErrInvalidEntry = errors.New("invalid period entry")

// Catalog is an ordered, read-only list of periods. Declaration order is
// significant: it breaks ties between equally long alias matches.
type Catalog struct {
	entries []types.PeriodMatch
}

type catalogFile struct {
	Periods []types.PeriodMatch `yaml:"periods"`
}

// Builtin returns the catalog compiled into the binary.
func Builtin(log logger.Logger) (*Catalog, error) {
	return Parse(builtinCatalog, log)
}

// Parse decodes a YAML catalog. Entries that fail validation are logged and
// skipped; only an unreadable document is an error.
func Parse(data []byte, log logger.Logger) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing period catalog: %w", err)
	}

	c := &Catalog{}
	for i, p := range f.Periods {
		if err := validate(p); err != nil {
			log.Warn("Skipping period catalog entry",
				logger.Int("index", i),
				logger.String("name", p.CanonicalName),
				logger.Error(err),
			)
			continue
		}
		c.entries = append(c.entries, clean(p))
	}
	return c, nil
}

// LoadFile parses the catalog at path.
func LoadFile(path string, log logger.Logger) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading period catalog: %w", err)
	}
	return Parse(data, log)
}

// Append returns a new catalog with other's entries after c's.
func (c *Catalog) Append(other *Catalog) *Catalog {
	merged := make([]types.PeriodMatch, 0, len(c.entries)+len(other.entries))
	merged = append(merged, c.entries...)
	merged = append(merged, other.entries...)
	return &Catalog{entries: merged}
}

// Len returns the number of valid entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Entries returns a copy of the catalog entries in declaration order.
func (c *Catalog) Entries() []types.PeriodMatch {
	out := make([]types.PeriodMatch, len(c.entries))
	for i, e := range c.entries {
		out[i] = clone(e)
	}
	return out
}

func validate(p types.PeriodMatch) error {
	if strings.TrimSpace(p.CanonicalName) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidEntry)
	}
	if p.StartYear > p.EndYear {
		return fmt.Errorf("%w: start_year %d after end_year %d", ErrInvalidEntry, p.StartYear, p.EndYear)
	}
	for _, a := range p.Aliases {
		if strings.TrimSpace(a) != "" {
			return nil
		}
	}
	return fmt.Errorf("%w: no aliases", ErrInvalidEntry)
}

// clean trims names and drops blank aliases and keywords.
func clean(p types.PeriodMatch) types.PeriodMatch {
	p.CanonicalName = strings.TrimSpace(p.CanonicalName)
	p.Aliases = nonBlank(p.Aliases)
	p.ExtraKeywords = nonBlank(p.ExtraKeywords)
	return p
}

func nonBlank(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func clone(p types.PeriodMatch) types.PeriodMatch {
	p.Aliases = append([]string(nil), p.Aliases...)
	p.ExtraKeywords = append([]string(nil), p.ExtraKeywords...)
	return p
}
