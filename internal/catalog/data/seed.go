package data

import (
	"context"
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/lk2023060901/myai/internal/catalog/models"
	"github.com/lk2023060901/myai/internal/catalog/types"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seed/tools.yaml
var embeddedSeed []byte

type seedFile struct {
	Categories []struct {
		Name  string   `yaml:"name"`
		Caps  []string `yaml:"caps"`
		Tools []struct {
			Name        string `yaml:"name"`
			Description string `yaml:"description"`
			Website     string `yaml:"website"`
		} `yaml:"tools"`
	} `yaml:"categories"`
}

// defaultSeedCaps applies to categories that declare no caps.
var defaultSeedCaps = []string{string(types.CapTextExplain)}

// ParseSeed flattens a seed document into entries. A tool listed under
// several categories gets the union of their caps.
func ParseSeed(raw []byte) ([]types.SeedEntry, error) {
	var doc seedFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	index := make(map[string]int)
	var entries []types.SeedEntry
	for _, cat := range doc.Categories {
		caps := cat.Caps
		if len(caps) == 0 {
			caps = defaultSeedCaps
		}
		for _, t := range cat.Tools {
			name := strings.TrimSpace(t.Name)
			if name == "" {
				continue
			}
			if i, ok := index[name]; ok {
				e := &entries[i]
				e.Tags = mergeTags(e.Tags, caps)
				if e.Website == "" {
					e.Website = strings.TrimSpace(t.Website)
				}
				continue
			}
			index[name] = len(entries)
			entries = append(entries, types.SeedEntry{
				Name:        name,
				Description: strings.TrimSpace(t.Description),
				Website:     strings.TrimSpace(t.Website),
				Tags:        mergeTags(nil, caps),
			})
		}
	}
	return entries, nil
}

// EmbeddedSeed returns the starter catalog compiled into the binary.
func EmbeddedSeed() ([]types.SeedEntry, error) {
	return ParseSeed(embeddedSeed)
}

// mergeTags returns the sorted union of a and b.
func mergeTags(a, b []string) []string {
	set := make(map[string]struct{}, len(a)+len(b))
	for _, t := range a {
		set[t] = struct{}{}
	}
	for _, t := range b {
		set[t] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for t := range set {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// applySeed merges e into row and reports whether anything changed.
func applySeed(row *models.AITool, e types.SeedEntry) bool {
	changed := false
	if e.Description != "" && row.Description != e.Description {
		row.Description = e.Description
		changed = true
	}

	merged := mergeTags(row.Tags, e.Tags)
	if !equalStrings(merged, row.Tags) {
		row.Tags = merged
		changed = true
	}

	if e.Website != "" && row.Links["website"] != e.Website {
		links := make(models.JSONMap, len(row.Links)+1)
		for k, v := range row.Links {
			links[k] = v
		}
		links["website"] = e.Website
		row.Links = links
		changed = true
	}
	return changed
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Upsert inserts new tools and merges tags/description/website into
// existing ones, all in one transaction.
func (r *ToolRepo) Upsert(ctx context.Context, entries []types.SeedEntry) (inserted, updated int, err error) {
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, e := range entries {
			var row models.AITool
			res := tx.Where("name = ?", e.Name).Limit(1).Find(&row)
			if res.Error != nil {
				return fmt.Errorf("failed to look up %q: %w", e.Name, res.Error)
			}

			if res.RowsAffected == 0 {
				row = models.AITool{Name: e.Name, Links: models.JSONMap{}}
				applySeed(&row, e)
				if err := tx.Create(&row).Error; err != nil {
					return fmt.Errorf("failed to insert %q: %w", e.Name, err)
				}
				inserted++
				continue
			}

			if applySeed(&row, e) {
				if err := tx.Save(&row).Error; err != nil {
					return fmt.Errorf("failed to update %q: %w", e.Name, err)
				}
				updated++
			}
		}
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return inserted, updated, nil
}
