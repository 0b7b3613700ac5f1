package data

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/planner/biz"
	"go.uber.org/zap"
)

const embedBatchSize = 64

// ToolIndex holds the inventory in memory: a tag index for capability
// lookups and unit vectors for semantic search. Without an embedder
// semantic search degrades to fuzzy text similarity.
type ToolIndex struct {
	embedder Embedder
	logger   *logger.Logger

	mu      sync.RWMutex
	ready   bool
	tools   []*ctypes.Tool
	texts   []string
	byName  map[string]*ctypes.Tool
	byTag   map[string][]*ctypes.Tool
	vectors [][]float32
}

func NewToolIndex(embedder Embedder, log *logger.Logger) *ToolIndex {
	if log == nil {
		log = logger.L()
	}
	return &ToolIndex{embedder: embedder, logger: log.Named("tool_index")}
}

func (x *ToolIndex) Ready() bool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.ready
}

// Load replaces the indexed inventory. An embedding failure keeps the tag
// index and falls back to lexical semantic search.
func (x *ToolIndex) Load(ctx context.Context, tools []*ctypes.Tool) error {
	byName := make(map[string]*ctypes.Tool, len(tools))
	byTag := make(map[string][]*ctypes.Tool)
	texts := make([]string, len(tools))
	for i, t := range tools {
		byName[t.Name] = t
		for _, tag := range t.Tags {
			k := ctypes.NormalizeTag(tag)
			if k == "" {
				continue
			}
			byTag[k] = append(byTag[k], t)
		}
		texts[i] = toolText(t)
	}

	var vectors [][]float32
	if x.embedder != nil && len(texts) > 0 {
		var err error
		vectors, err = x.embedAll(ctx, texts)
		if err != nil {
			x.logger.Warn("semantic index unavailable, using lexical similarity", zap.Error(err))
			vectors = nil
		}
	}

	x.mu.Lock()
	x.tools, x.texts, x.byName, x.byTag, x.vectors = tools, texts, byName, byTag, vectors
	x.ready = true
	x.mu.Unlock()

	x.logger.Info("tool index built",
		zap.Int("tools", len(tools)),
		zap.Int("tags", len(byTag)),
		zap.Bool("semantic", vectors != nil))
	return nil
}

func (x *ToolIndex) embedAll(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += embedBatchSize {
		end := min(start+embedBatchSize, len(texts))
		vecs, err := x.embedder.BatchEmbed(ctx, texts[start:end])
		if err != nil {
			return nil, fmt.Errorf("embed tools %d-%d: %w", start, end, err)
		}
		for _, v := range vecs {
			out = append(out, unit(v))
		}
	}
	return out, nil
}

func (x *ToolIndex) ByTag(tag string) []*ctypes.Tool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byTag[ctypes.NormalizeTag(tag)]
}

func (x *ToolIndex) All() []*ctypes.Tool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.tools
}

func (x *ToolIndex) Find(name string) *ctypes.Tool {
	x.mu.RLock()
	defer x.mu.RUnlock()
	return x.byName[name]
}

// Semantic returns the k tools closest to query.
func (x *ToolIndex) Semantic(ctx context.Context, query string, k int) ([]*ctypes.Tool, error) {
	x.mu.RLock()
	tools, texts, vectors := x.tools, x.texts, x.vectors
	x.mu.RUnlock()
	if len(tools) == 0 || k <= 0 {
		return nil, nil
	}

	sims := make([]float64, len(tools))
	if vectors != nil {
		q, err := x.embedder.Embed(ctx, query)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		q = unit(q)
		for i, v := range vectors {
			sims[i] = dot(q, v)
		}
	} else {
		for i, text := range texts {
			sims[i] = float64(biz.PartialRatio(query, text)) / 100
		}
	}

	order := make([]int, len(tools))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return sims[order[a]] > sims[order[b]] })
	if len(order) > k {
		order = order[:k]
	}

	out := make([]*ctypes.Tool, len(order))
	for i, idx := range order {
		out[i] = tools[idx]
	}
	return out, nil
}

func toolText(t *ctypes.Tool) string {
	return t.Name + ". Tags: " + strings.Join(t.Tags, ", ")
}

func unit(v []float32) []float32 {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	norm := math.Sqrt(sum) + 1e-12
	out := make([]float32, len(v))
	for i, f := range v {
		out[i] = float32(float64(f) / norm)
	}
	return out
}

func dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var s float64
	for i := 0; i < n; i++ {
		s += float64(a[i]) * float64(b[i])
	}
	return s
}
