// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// plainText strips markup from a provider description and collapses
// whitespace. AIC and Harvard return HTML fragments; the rest return text.
func plainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return clean(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return clean(s)
	}
	return clean(doc.Text())
}
