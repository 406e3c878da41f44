// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	_ "embed"
	"fmt"
	"math"
	"sort"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/museum-search/internal/textnorm"
)

//go:embed lexicon.yaml
var builtinLexicon []byte

// Lexicon maps stemmed words to the concepts they belong to. Texts are
// projected into a sparse space with one dimension per concept, so two texts
// that share no words are still similar when their words share concepts
// ("industrial" and "factories" both load on industry). Exact word overlap
// is scored separately by the keyword signals.
type Lexicon struct {
	concepts map[string][]string
}

type lexiconFile struct {
	Concepts map[string][]string `yaml:"concepts"`
}

// BuiltinLexicon returns the lexicon compiled into the binary.
func BuiltinLexicon() (*Lexicon, error) {
	return ParseLexicon(builtinLexicon)
}

// ParseLexicon decodes a YAML lexicon document.
func ParseLexicon(data []byte) (*Lexicon, error) {
	var f lexiconFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing lexicon: %w", err)
	}

	names := make([]string, 0, len(f.Concepts))
	for name := range f.Concepts {
		names = append(names, name)
	}
	sort.Strings(names)

	lx := &Lexicon{concepts: make(map[string][]string)}
	for _, name := range names {
		dim := textnorm.Fold(name)
		for _, member := range f.Concepts[name] {
			for _, term := range textnorm.Terms(member) {
				lx.concepts[term] = appendDim(lx.concepts[term], dim)
			}
		}
	}
	return lx, nil
}

// Concepts returns the concept dimensions a stemmed term loads on.
func (lx *Lexicon) Concepts(term string) []string {
	if lx == nil {
		return nil
	}
	return lx.concepts[term]
}

// Vector is a sparse concept vector.
type Vector map[string]float64

// Add accumulates the concept loadings of terms, scaled by weight. Terms
// outside the lexicon contribute nothing.
func (lx *Lexicon) Add(v Vector, terms []string, weight float64) {
	for _, t := range terms {
		for _, c := range lx.Concepts(t) {
			v[c] += weight
		}
	}
}

// Cosine returns the cosine similarity of a and b in [0, 1]. Empty vectors
// have similarity 0.
func Cosine(a, b Vector) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for k, av := range a {
		dot += av * b[k]
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return math.Min(1, dot/(na*nb))
}

func norm(v Vector) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}

func appendDim(dims []string, d string) []string {
	for _, x := range dims {
		if x == d {
			return dims
		}
	}
	return append(dims, d)
}
