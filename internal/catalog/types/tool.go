package types

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lk2023060901/myai/internal/locale"
)

// Tool is a catalog entry as the planner and the catalog endpoints see it.
type Tool struct {
	ID            int64
	Name          string
	Description   string
	DescriptionEN string
	Type          string
	Pricing       string
	Tags          []string
	Links         map[string]string
	Rating        *float64
	IconURL       string
}

// Website returns links.website or "".
func (t *Tool) Website() string {
	if t.Links == nil {
		return ""
	}
	return t.Links["website"]
}

// Icon returns the stored icon or a favicon derived from the website.
func (t *Tool) Icon() string {
	if t.IconURL != "" {
		return t.IconURL
	}
	return FaviconURL(t.Website(), 64)
}

// HasTag reports whether the tool carries tag, ignoring case and spacing.
func (t *Tool) HasTag(tag string) bool {
	tag = normalizeTag(tag)
	for _, own := range t.Tags {
		if normalizeTag(own) == tag {
			return true
		}
	}
	return false
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

// NormalizeTag lowercases and trims tag for index lookups.
func NormalizeTag(tag string) string { return normalizeTag(tag) }

// FaviconURL builds the Google favicon URL for website, or "" when website
// is empty.
func FaviconURL(website string, size int) string {
	if website == "" {
		return ""
	}
	domain := website
	if u, err := url.Parse(website); err == nil && u.Host != "" {
		domain = u.Host
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=%d", domain, size)
}

// SortField orders ListQuery results.
type SortField string

const (
	SortRating SortField = "rating"
	SortName   SortField = "name"
)

// ListQuery filters GET /catalog/tools.
type ListQuery struct {
	Q        string
	Tag      string
	Cap      string
	Language locale.Locale
	Limit    int
	Offset   int
	Sort     SortField
}

// ToolOut is one item of the catalog listing.
type ToolOut struct {
	Name        string   `json:"name"`
	Link        *string  `json:"link"`
	Icon        *string  `json:"icon"`
	Rating      *float64 `json:"rating"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// ListResult is the body of GET /catalog/tools.
type ListResult struct {
	Total  int64     `json:"total"`
	Items  []ToolOut `json:"items"`
	Limit  int       `json:"limit"`
	Offset int       `json:"offset"`
}

// Category is one entry of GET /catalog/categories.
type Category struct {
	ID    Capability `json:"id"`
	Label string     `json:"label"`
	Count int64      `json:"count"`
}

// Translation field names.
const FieldDescription = "description"

// ErrToolNotFound is returned by lookups of a missing tool.
var ErrToolNotFound = errors.New("tool not found")

// SeedEntry is one tool of a seed catalog.
type SeedEntry struct {
	Name        string
	Description string
	Website     string
	Tags        []string
}
