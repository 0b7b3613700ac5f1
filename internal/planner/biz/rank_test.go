package biz

import (
	"testing"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/plan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tool(name string, tags ...string) *ctypes.Tool {
	return &ctypes.Tool{
		Name:  name,
		Tags:  tags,
		Links: map[string]string{"website": "https://" + name + ".example"},
	}
}

func names(tools []plan.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.Name
	}
	return out
}

func TestPartialRatio(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"video", "cap:video-edit", 100},
		{"VIDEO", "cap:video-edit", 100},
		{"cap:video-edit", "video", 100},
		{"vidoe", "cap:video-edit", 60},
		{"abc", "xyz", 0},
		{"", "", 100},
		{"", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.Equal(t, tt.want, PartialRatio(tt.a, tt.b))
		})
	}
}

func TestFuseRRF(t *testing.T) {
	a := []*ctypes.Tool{tool("doc1"), tool("doc2"), tool("doc3")}
	b := []*ctypes.Tool{tool("doc2"), tool("doc4"), tool("doc1")}

	fused := FuseRRF([][]*ctypes.Tool{a, b}, 0)
	got := make([]string, len(fused))
	for i, f := range fused {
		got[i] = f.Name
	}
	assert.Equal(t, []string{"doc2", "doc1", "doc4", "doc3"}, got)

	assert.Empty(t, FuseRRF(nil, DefaultRRFK))
}

func TestScore(t *testing.T) {
	nb := tool("NotebookLM", "cap:text-explain")

	base := RankInput{Goal: "learn go", Query: "read docs", Cap: ctypes.CapTextExplain}
	withoutCap := base
	withoutCap.Cap = ""
	assert.InDelta(t, weightTag*tagBonus, Score(nb, base)-Score(nb, withoutCap), 1e-9)

	learning := base
	learning.Learning = true
	assert.InDelta(t, learningPenalty, Score(nb, base)-Score(nb, learning), 1e-9)

	live := base
	live.Ratings = map[string]float64{"NotebookLM": 0.9}
	assert.InDelta(t, weightPopularity*(0.9-defaultPrior), Score(nb, live)-Score(nb, base), 1e-9)

	// A live rating below the prior does not lower the score.
	low := base
	low.Ratings = map[string]float64{"NotebookLM": 0.1}
	assert.InDelta(t, Score(nb, base), Score(nb, low), 1e-9)
}

func TestReRank(t *testing.T) {
	// Empty query and goal make the textual similarity equal for every
	// tool, so ordering follows popularity.
	ratings := map[string]float64{"A": 0.9, "B": 0.8, "C": 0.7, "D": 0.6}
	in := RankInput{Ratings: ratings}

	t.Run("empty falls back", func(t *testing.T) {
		assert.Equal(t, []plan.Tool{FallbackTool}, ReRank(nil, in, nil))
	})

	t.Run("sorted, unique and trimmed", func(t *testing.T) {
		got := ReRank([]*ctypes.Tool{tool("D"), tool("B"), tool("A"), tool("B"), tool("C")}, in, nil)
		assert.Equal(t, []string{"A", "B", "C"}, names(got))
		assert.Equal(t, "https://A.example", got[0].Link)
		assert.Equal(t, "https://www.google.com/s2/favicons?domain=A.example&sz=64", got[0].Icon)
	})

	t.Run("universal guaranteed for learning", func(t *testing.T) {
		lookup := func(name string) *ctypes.Tool {
			if name == "Claude" {
				return tool("Claude")
			}
			return nil
		}
		got := ReRank([]*ctypes.Tool{tool("A"), tool("B"), tool("C"), tool("D")}, in, lookup)
		require.Len(t, got, ToolsPerStep)
		assert.Equal(t, []string{"Claude", "A", "B"}, names(got))
	})

	t.Run("universal already present", func(t *testing.T) {
		lookup := func(name string) *ctypes.Tool { return tool(name) }
		got := ReRank([]*ctypes.Tool{tool("ChatGPT"), tool("E"), tool("F")}, RankInput{}, lookup)
		assert.Equal(t, "ChatGPT", got[0].Name)
		assert.Len(t, got, 3)
	})

	t.Run("universal not duplicated", func(t *testing.T) {
		r := map[string]float64{"A": 1, "B": 1, "C": 1}
		lookup := func(name string) *ctypes.Tool { return tool(name) }
		cands := []*ctypes.Tool{tool("A"), tool("B"), tool("C"), tool("D"), tool("E"), tool("F"), tool("ChatGPT")}
		got := ReRank(cands, RankInput{Ratings: r}, lookup)
		assert.Equal(t, []string{"ChatGPT", "A", "B"}, names(got))
	})
}
