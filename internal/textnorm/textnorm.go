// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm normalizes free text for matching: case and accent
// folding, tokenization with stop-word removal, and a light English stemmer.
// Every matching stage (period detection, scoring, dedup) goes through these
// functions so both sides of a comparison are folded the same way.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lower-cases s, strips diacritics, replaces punctuation with spaces,
// and collapses whitespace. "Café  Terrace, Arles" becomes
// "cafe terrace arles".
func Fold(s string) string {
	stripped := stripAccents(s)

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range strings.ToLower(stripped) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '\'' || r == '’':
			// drop apostrophes so "artist's" folds to "artists"
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// FoldCase lower-cases s, strips diacritics, and collapses whitespace but
// keeps punctuation, so "Study No. 1" and "Study, No 1!" stay distinct.
func FoldCase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(stripAccents(s))), " ")
}

func stripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Words returns the folded words of s, including stop words.
func Words(s string) []string {
	return strings.Fields(Fold(s))
}

// Tokens returns the folded words of s with stop words removed, in order.
func Tokens(s string) []string {
	words := Words(s)
	out := words[:0]
	for _, w := range words {
		if !IsStopWord(w) {
			out = append(out, w)
		}
	}
	return out
}

// Terms returns stemmed, de-duplicated tokens of s in first-seen order.
func Terms(s string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tok := range Tokens(s) {
		st := Stem(tok)
		if seen[st] {
			continue
		}
		seen[st] = true
		out = append(out, st)
	}
	return out
}

// Stem strips common English inflections. It is intentionally light: both
// sides of every comparison are stemmed the same way, so it only needs to be
// consistent, not linguistically exact.
func Stem(w string) string {
	return stripVerb(stripPlural(w))
}

func stripPlural(w string) string {
	n := len(w)
	switch {
	case n > 4 && strings.HasSuffix(w, "ies"):
		return w[:n-3] + "y"
	case n > 4 && (strings.HasSuffix(w, "ches") || strings.HasSuffix(w, "shes") ||
		strings.HasSuffix(w, "sses") || strings.HasSuffix(w, "xes")):
		return w[:n-2]
	case n > 3 && strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") &&
		!strings.HasSuffix(w, "us") && !strings.HasSuffix(w, "is"):
		return w[:n-1]
	}
	return w
}

func stripVerb(w string) string {
	n := len(w)
	switch {
	case n > 5 && strings.HasSuffix(w, "ing"):
		return w[:n-3]
	case n > 4 && strings.HasSuffix(w, "ed") && !strings.HasSuffix(w, "eed"):
		return w[:n-2]
	}
	return w
}

var stopWords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true, "into": true,
	"is": true, "it": true, "its": true, "of": true, "on": true, "or": true,
	"the": true, "to": true, "with": true, "about": true, "during": true,
	"art": true, "artwork": true, "artworks": true,
	"this": true, "that": true, "these": true, "those": true, "was": true,
	"were": true, "what": true, "how": true, "why": true, "my": true, "our": true,
}

// IsStopWord reports whether w (already folded) carries no topical meaning.
// "art" counts as a stop word because every record in every source is art.
func IsStopWord(w string) bool {
	return stopWords[w]
}
