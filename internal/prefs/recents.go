package prefs

import (
	"context"
	"strings"
	"sync"

	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
)

// MaxRecents bounds the recent prompt list.
const MaxRecents = 6

// Recents is the most-recent-first list of submitted prompts.
type Recents struct {
	mu    sync.Mutex
	p     persister
	items []string
}

func NewRecents(store kv.Store, log *logger.Logger) *Recents {
	return &Recents{p: newPersister(store, log)}
}

// Load replaces the in-memory list with the persisted one. Absent or
// malformed data yields an empty list.
func (r *Recents) Load(ctx context.Context) []string {
	var raw []any
	items := make([]string, 0, MaxRecents)
	if r.p.readJSON(ctx, KeyRecents, &raw) {
		for _, v := range raw {
			if s, ok := v.(string); ok && s != "" {
				items = append(items, s)
			}
			if len(items) == MaxRecents {
				break
			}
		}
	}

	r.mu.Lock()
	r.items = items
	r.mu.Unlock()
	return r.List()
}

// Push moves the trimmed prompt to the front. Empty prompts are ignored.
func (r *Recents) Push(ctx context.Context, prompt string) []string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return r.List()
	}

	r.mu.Lock()
	next := make([]string, 0, MaxRecents)
	next = append(next, prompt)
	for _, s := range r.items {
		if s != prompt && len(next) < MaxRecents {
			next = append(next, s)
		}
	}
	r.items = next
	snapshot := append([]string(nil), next...)
	r.mu.Unlock()

	r.p.writeJSON(ctx, KeyRecents, snapshot)
	return snapshot
}

// Remove drops every entry equal to prompt.
func (r *Recents) Remove(ctx context.Context, prompt string) []string {
	r.mu.Lock()
	next := make([]string, 0, len(r.items))
	for _, s := range r.items {
		if s != prompt {
			next = append(next, s)
		}
	}
	r.items = next
	snapshot := append([]string(nil), next...)
	r.mu.Unlock()

	r.p.writeJSON(ctx, KeyRecents, snapshot)
	return snapshot
}

// Clear empties the list and deletes the persisted key.
func (r *Recents) Clear(ctx context.Context) {
	r.mu.Lock()
	r.items = []string{}
	r.mu.Unlock()
	r.p.delete(ctx, KeyRecents)
}

// List returns a copy of the current list.
func (r *Recents) List() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append(make([]string, 0, len(r.items)), r.items...)
}
