package plan

import "strings"

// NameSet answers favorites membership by tool name.
type NameSet interface {
	Has(name string) bool
}

// Names is a NameSet over a plain map.
type Names map[string]struct{}

func NewNames(names ...string) Names {
	n := make(Names, len(names))
	for _, s := range names {
		n[s] = struct{}{}
	}
	return n
}

func (n Names) Has(name string) bool {
	_, ok := n[name]
	return ok
}

// Filter keeps the tools whose group title or own name contains term
// (case-insensitive; an empty term matches all) and, when favoritesOnly is
// set, whose name is in favs. Groups left empty are dropped. Input order is
// preserved and the input is not modified.
func Filter(groups []Group, term string, favoritesOnly bool, favs NameSet) []Group {
	needle := strings.ToLower(strings.TrimSpace(term))
	out := make([]Group, 0, len(groups))

	for _, g := range groups {
		titleHit := needle == "" || strings.Contains(strings.ToLower(g.Title), needle)

		var kept []Tool
		for _, t := range g.Tools {
			if !titleHit && !strings.Contains(strings.ToLower(t.Name), needle) {
				continue
			}
			if favoritesOnly && (favs == nil || !favs.Has(t.Name)) {
				continue
			}
			kept = append(kept, t)
		}
		if len(kept) > 0 {
			out = append(out, Group{Title: g.Title, Tools: kept})
		}
	}
	return out
}

// ToolCount returns the number of tools across groups.
func ToolCount(groups []Group) int {
	n := 0
	for _, g := range groups {
		n += len(g.Tools)
	}
	return n
}
