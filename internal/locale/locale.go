// Package locale classifies free text into one of the supported display
// languages and carries the per-language string tables.
package locale

import "strings"

// Locale is a supported display/content language tag.
type Locale string

const (
	EN Locale = "en"
	BG Locale = "bg"

	// Default applies to short input, unknown tags and text without
	// Cyrillic script.
	Default = EN
)

// Supported lists the locales in display order.
var Supported = []Locale{EN, BG}

// Parse normalizes tag and reports whether it names a supported locale.
func Parse(tag string) (Locale, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	for _, l := range Supported {
		if string(l) == tag {
			return l, true
		}
	}
	return Default, false
}

// OrDefault returns tag as a Locale, or Default when it is not supported.
func OrDefault(tag string) Locale {
	l, _ := Parse(tag)
	return l
}

func (l Locale) String() string { return string(l) }

// Valid reports whether l is one of the supported locales.
func (l Locale) Valid() bool {
	for _, s := range Supported {
		if l == s {
			return true
		}
	}
	return false
}
