package biz

import (
	"sort"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
)

// DefaultRRFK is the rank constant of reciprocal rank fusion.
const DefaultRRFK = 60

// FuseRRF merges ranked tool lists by reciprocal rank fusion:
// score = Σ 1/(k + rank), rank starting at 1. Tools are identified by name.
// Ties keep the order in which tools were first seen.
func FuseRRF(lists [][]*ctypes.Tool, k int) []*ctypes.Tool {
	if k <= 0 {
		k = DefaultRRFK
	}

	type fused struct {
		tool  *ctypes.Tool
		score float64
	}
	byName := make(map[string]*fused)
	var order []*fused

	for _, list := range lists {
		for rank, t := range list {
			if t == nil || t.Name == "" {
				continue
			}
			f, ok := byName[t.Name]
			if !ok {
				f = &fused{tool: t}
				byName[t.Name] = f
				order = append(order, f)
			}
			f.score += 1.0 / float64(k+rank+1)
		}
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].score > order[j].score
	})

	out := make([]*ctypes.Tool, len(order))
	for i, f := range order {
		out[i] = f.tool
	}
	return out
}
