// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	centuryRe = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)[\s-]+(?:century|c\b)`)
	decadeRe  = regexp.MustCompile(`\b(\d{3,4})s\b`)
	numberRe  = regexp.MustCompile(`\d+`)
	bceRe     = regexp.MustCompile(`\b(?:b\.?\s?c\.?(?:e\.?)?)(?:\s|$|[,;)])`)
	eraRe     = regexp.MustCompile(`\b(?:a\.?\s?d\.?|c\.?\s?e\.?)(?:\s|$|[,;)])`)
	groupRe   = regexp.MustCompile(`(\d),(\d{3})\b`)
)

// ParseYear extracts a representative year from a free-text museum date.
// Negative years are BCE. It understands plain years ("1889"), circa and
// ranges ("ca. 1962–65" gives 1962), decades ("1850s" gives 1855), centuries
// ("19th century" gives 1850), and era markers ("450 B.C.", "A.D. 200").
// Anything else, including numbers past four digits ("10,000 BC"), is
// reported as unknown rather than guessed.
func ParseYear(date string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(date))
	if s == "" {
		return 0, false
	}
	for {
		joined := groupRe.ReplaceAllString(s, "$1$2")
		if joined == s {
			break
		}
		s = joined
	}
	bce := bceRe.MatchString(s + " ")

	sign := func(y int) int {
		if bce {
			return -y
		}
		return y
	}

	if m := centuryRe.FindStringSubmatch(s); m != nil {
		c, _ := strconv.Atoi(m[1])
		if c < 1 {
			return 0, false
		}
		mid := (c-1)*100 + 50
		return sign(mid), true
	}

	if m := decadeRe.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		return sign(d + 5), true
	}

	nums := numberRe.FindAllString(s, -1)
	for _, n := range nums {
		if len(n) > 4 {
			return 0, false
		}
	}
	for _, n := range nums {
		if len(n) >= 3 && len(n) <= 4 {
			y, _ := strconv.Atoi(n)
			if y == 0 {
				continue
			}
			return sign(y), true
		}
	}

	// Short numbers are only years when an era marker says so or the
	// whole string is the number ("A.D. 79", "30 BC", "800").
	if len(nums) > 0 && len(nums[0]) <= 4 {
		if bce || eraRe.MatchString(s+" ") || s == nums[0] {
			y, _ := strconv.Atoi(nums[0])
			if y > 0 {
				return sign(y), true
			}
		}
	}
	return 0, false
}
