// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package period

import (
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"

	"github.com/pdiddy/museum-search/internal/textnorm"
	"github.com/pdiddy/museum-search/pkg/types"
)

// Detector classifies themes against a catalog. It is built once and safe for
// concurrent use.
type Detector struct {
	catalog *Catalog
	matcher *ahocorasick.Matcher

	// aliases holds the folded, de-duplicated dictionary the matcher was
	// built from; owners maps each alias to the catalog entries using it.
	aliases []string
	owners  map[string][]int
}

// NewDetector builds an Aho-Corasick automaton over every alias in c.
func NewDetector(c *Catalog) *Detector {
	d := &Detector{
		catalog: c,
		owners:  make(map[string][]int),
	}
	for i, e := range c.entries {
		for _, a := range e.Aliases {
			folded := textnorm.Fold(a)
			if folded == "" {
				continue
			}
			if _, ok := d.owners[folded]; !ok {
				d.aliases = append(d.aliases, folded)
			}
			d.owners[folded] = appendUnique(d.owners[folded], i)
		}
	}
	if len(d.aliases) > 0 {
		d.matcher = ahocorasick.NewStringMatcher(d.aliases)
	}
	return d
}

// Detect returns the period whose alias occurs in theme. Aliases match as
// substrings without word boundaries, since period names are often
// multi-word phrases. When several entries match, the longest alias wins and
// ties go to the entry declared first. A theme with no match returns false;
// that only means no temporal bias applies.
func (d *Detector) Detect(theme string) (*types.PeriodMatch, bool) {
	if d.matcher == nil {
		return nil, false
	}
	folded := textnorm.Fold(theme)
	if folded == "" {
		return nil, false
	}

	best, bestLen := -1, 0
	for _, hit := range d.matcher.MatchThreadSafe([]byte(folded)) {
		if hit < 0 || hit >= len(d.aliases) {
			continue
		}
		alias := d.aliases[hit]
		if !strings.Contains(folded, alias) {
			continue
		}
		for _, idx := range d.owners[alias] {
			if len(alias) > bestLen || (len(alias) == bestLen && idx < best) {
				best, bestLen = idx, len(alias)
			}
		}
	}
	if best < 0 {
		return nil, false
	}
	m := clone(d.catalog.entries[best])
	return &m, true
}

// Catalog returns the catalog the detector was built from.
func (d *Detector) Catalog() *Catalog { return d.catalog }

func appendUnique(s []int, v int) []int {
	for _, x := range s {
		if x == v {
			return s
		}
	}
	return append(s, v)
}
