package prefs

import (
	"context"
	"strings"
	"sync"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/plan"
)

// FavTool is the persisted form of a favorited tool.
type FavTool struct {
	Name string `json:"name"`
	Icon string `json:"icon,omitempty"`
	Link string `json:"link,omitempty"`
}

// FromTool keeps the persisted subset of t.
func FromTool(t plan.Tool) FavTool {
	return FavTool{Name: t.Name, Icon: t.Icon, Link: t.Link}
}

// Favorites is the set of favorited tools keyed by name, kept in insertion
// order for display.
type Favorites struct {
	mu     sync.Mutex
	p      persister
	order  []string
	byName map[string]FavTool
}

func NewFavorites(store kv.Store, log *logger.Logger) *Favorites {
	return &Favorites{p: newPersister(store, log), byName: make(map[string]FavTool)}
}

// Load replaces the in-memory set with the current-schema value. It never
// writes; run MigrateFavorites first to pick up legacy data.
func (f *Favorites) Load(ctx context.Context) []FavTool {
	var list []FavTool
	f.p.readJSON(ctx, KeyFavorites, &list)
	f.replace(list)
	return f.List()
}

// Replace installs list as the in-memory set without persisting it. Used
// to seed the store with the result of MigrateFavorites.
func (f *Favorites) Replace(list []FavTool) {
	f.replace(list)
}

func (f *Favorites) replace(list []FavTool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.order = nil
	f.byName = make(map[string]FavTool, len(list))
	for _, t := range list {
		t.Name = strings.TrimSpace(t.Name)
		if t.Name == "" {
			continue
		}
		if _, dup := f.byName[t.Name]; !dup {
			f.order = append(f.order, t.Name)
		}
		f.byName[t.Name] = t
	}
}

// Toggle removes t when favorited, otherwise adds it. It reports whether t
// is favorited afterwards. The name is trimmed once so that both branches
// use the key Add stores; an empty name changes nothing.
func (f *Favorites) Toggle(ctx context.Context, t plan.Tool) bool {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return false
	}
	if f.Has(t.Name) {
		f.Remove(ctx, t.Name)
		return false
	}
	f.Add(ctx, FromTool(t))
	return true
}

// Add inserts or updates t. Names that are empty after trimming are
// ignored.
func (f *Favorites) Add(ctx context.Context, t FavTool) {
	t.Name = strings.TrimSpace(t.Name)
	if t.Name == "" {
		return
	}
	f.mu.Lock()
	if _, ok := f.byName[t.Name]; !ok {
		f.order = append(f.order, t.Name)
	}
	f.byName[t.Name] = t
	snapshot := f.listLocked()
	f.mu.Unlock()

	f.p.writeJSON(ctx, KeyFavorites, snapshot)
}

// Remove deletes name. Removing an absent name still persists the set.
func (f *Favorites) Remove(ctx context.Context, name string) {
	name = strings.TrimSpace(name)
	f.mu.Lock()
	if _, ok := f.byName[name]; ok {
		delete(f.byName, name)
		for i, n := range f.order {
			if n == name {
				f.order = append(f.order[:i], f.order[i+1:]...)
				break
			}
		}
	}
	snapshot := f.listLocked()
	f.mu.Unlock()

	f.p.writeJSON(ctx, KeyFavorites, snapshot)
}

func (f *Favorites) Has(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byName[name]
	return ok
}

func (f *Favorites) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byName)
}

// List returns the favorites in insertion order.
func (f *Favorites) List() []FavTool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listLocked()
}

// Names returns a snapshot usable as a plan.NameSet.
func (f *Favorites) Names() plan.Names {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := make(plan.Names, len(f.byName))
	for name := range f.byName {
		n[name] = struct{}{}
	}
	return n
}

func (f *Favorites) listLocked() []FavTool {
	out := make([]FavTool, 0, len(f.order))
	for _, n := range f.order {
		out = append(out, f.byName[n])
	}
	return out
}
