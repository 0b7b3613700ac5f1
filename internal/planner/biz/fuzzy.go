package biz

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// PartialRatio scores how well the shorter of a and b matches its best
// aligned substring of the longer one, on a 0..100 scale. Comparison is
// case-insensitive and rune based.
func PartialRatio(a, b string) int {
	s, l := []rune(strings.ToLower(a)), []rune(strings.ToLower(b))
	if len(s) > len(l) {
		s, l = l, s
	}
	if len(s) == 0 {
		if len(l) == 0 {
			return 100
		}
		return 0
	}

	short := string(s)
	if strings.Contains(string(l), short) {
		return 100
	}

	best := 0
	for i := 0; i+len(s) <= len(l); i++ {
		d := fuzzy.LevenshteinDistance(short, string(l[i:i+len(s)]))
		if r := ratio(d, len(s)); r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func ratio(distance, length int) int {
	if distance >= length {
		return 0
	}
	return int(100*(1-float64(distance)/float64(length)) + 0.5)
}

// BestTagRatio returns the highest PartialRatio of query against tags.
func BestTagRatio(query string, tags []string) int {
	best := 0
	for _, t := range tags {
		if r := PartialRatio(query, t); r > best {
			best = r
		}
	}
	return best
}
