package biz

import (
	"sort"
	"strings"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/plan"
)

const (
	weightPopularity = 0.58
	weightSemantic   = 0.27
	weightTag        = 0.15

	tagBonus        = 0.06
	learningPenalty = 0.15
	defaultPrior    = 0.5

	// RerankTopN is how many scored tools survive before the universal
	// and diversity adjustments.
	RerankTopN = 6
	// ToolsPerStep is how many tools a step finally shows.
	ToolsPerStep = 3
)

// universalOrder is the preference order used when a learning step needs a
// general-purpose assistant in its top three.
var universalOrder = []string{"ChatGPT", "Claude", "Microsoft Copilot", "Perplexity", "Gemini", "Groq"}

var coreUniversal = func() map[string]struct{} {
	m := make(map[string]struct{}, len(universalOrder))
	for _, n := range universalOrder {
		m[n] = struct{}{}
	}
	return m
}()

// IsUniversal reports whether name is one of the general-purpose assistants.
func IsUniversal(name string) bool {
	_, ok := coreUniversal[name]
	return ok
}

var popularityPrior = map[string]float64{
	"ChatGPT": 1.00, "Claude": 0.98, "Microsoft Copilot": 0.95, "Gemini": 0.93, "Perplexity": 0.94, "Groq": 0.92,
	"Midjourney": 0.90, "DALL·E 3": 0.88, "Stable Diffusion": 0.86, "Runway": 0.87, "Descript": 0.83, "CapCut": 0.84,
	"Zapier Agents": 0.86, "n8n": 0.84, "Make.com": 0.83, "Canva AI": 0.86, "Gamma": 0.84, "Tome": 0.83,
}

// Prior returns the static popularity of name.
func Prior(name string) float64 {
	if p, ok := popularityPrior[name]; ok {
		return p
	}
	return defaultPrior
}

var learningPenalized = map[string]struct{}{"NotebookLM": {}, "Chatbase": {}, "Botsonic": {}}

// FallbackTool is shown when a step ends up without any tool.
var FallbackTool = plan.Tool{Name: "ChatGPT", Link: "https://chat.openai.com/"}

// RankInput is the context a step's candidates are scored in.
type RankInput struct {
	Goal     string
	Query    string
	Cap      ctypes.Capability
	Learning bool
	// Ratings maps tool names to live popularity in 0..1.
	Ratings map[string]float64
}

// Score combines popularity, textual similarity and tag match for t.
func Score(t *ctypes.Tool, in RankInput) float64 {
	popularity := Prior(t.Name)
	if live := in.Ratings[t.Name]; live > popularity {
		popularity = live
	}

	bonus := 0.0
	if in.Cap != "" && t.HasTag(string(in.Cap)) {
		bonus = tagBonus
	}

	sem := float64(PartialRatio(in.Query+" "+in.Goal, t.Name+" "+strings.Join(t.Tags, " "))) / 100

	score := weightPopularity*popularity + weightSemantic*sem + weightTag*bonus
	if in.Learning {
		if _, ok := learningPenalized[t.Name]; ok {
			score -= learningPenalty
		}
	}
	return score
}

// ToPlanTool converts a catalog tool to its plan representation.
func ToPlanTool(t *ctypes.Tool) plan.Tool {
	return plan.Tool{Name: t.Name, Link: t.Website(), Icon: t.Icon()}
}

// ReRank scores candidates and returns at most ToolsPerStep tools. When
// universal is non-nil a general-purpose assistant is guaranteed a place
// in the top three; universal resolves assistant names to catalog tools.
func ReRank(candidates []*ctypes.Tool, in RankInput, universal func(name string) *ctypes.Tool) []plan.Tool {
	type scored struct {
		tool  *ctypes.Tool
		score float64
	}

	seen := make(map[string]int)
	var uniq []scored
	for _, t := range candidates {
		if t == nil || t.Name == "" {
			continue
		}
		if i, ok := seen[t.Name]; ok {
			uniq[i].tool = t
			continue
		}
		seen[t.Name] = len(uniq)
		uniq = append(uniq, scored{tool: t})
	}
	for i := range uniq {
		uniq[i].score = Score(uniq[i].tool, in)
	}
	sort.SliceStable(uniq, func(i, j int) bool { return uniq[i].score > uniq[j].score })

	out := make([]plan.Tool, 0, RerankTopN)
	for i := 0; i < len(uniq) && i < RerankTopN; i++ {
		out = append(out, ToPlanTool(uniq[i].tool))
	}

	if universal != nil && countUniversal(head(out, 3)) == 0 {
		for _, name := range universalOrder {
			if t := universal(name); t != nil {
				out = append([]plan.Tool{ToPlanTool(t)}, dropName(out, t.Name)...)
				out = head(out, RerankTopN)
				break
			}
		}
	}

	if countUniversal(head(out, 3)) >= 2 {
		var extras []plan.Tool
		if len(out) > 3 {
			for _, t := range out[3:] {
				if !IsUniversal(t.Name) {
					extras = append(extras, t)
					if len(extras) == 2 {
						break
					}
				}
			}
		}
		mixed := append([]plan.Tool{}, head(out, 4)...)
		mixed = append(mixed, extras...)
		if 4+len(extras) < len(out) {
			mixed = append(mixed, out[4+len(extras):]...)
		}
		out = head(uniqueByName(mixed), RerankTopN)
	}

	out = head(out, ToolsPerStep)
	if len(out) == 0 {
		out = []plan.Tool{FallbackTool}
	}
	return out
}

func countUniversal(tools []plan.Tool) int {
	n := 0
	for _, t := range tools {
		if IsUniversal(t.Name) {
			n++
		}
	}
	return n
}

func head(tools []plan.Tool, n int) []plan.Tool {
	if len(tools) > n {
		return tools[:n]
	}
	return tools
}

func dropName(tools []plan.Tool, name string) []plan.Tool {
	out := make([]plan.Tool, 0, len(tools))
	for _, t := range tools {
		if t.Name != name {
			out = append(out, t)
		}
	}
	return out
}

func uniqueByName(tools []plan.Tool) []plan.Tool {
	seen := make(map[string]struct{}, len(tools))
	out := make([]plan.Tool, 0, len(tools))
	for _, t := range tools {
		if _, ok := seen[t.Name]; ok {
			continue
		}
		seen[t.Name] = struct{}{}
		out = append(out, t)
	}
	return out
}
