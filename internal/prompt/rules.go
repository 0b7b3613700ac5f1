// Package prompt renders copy-paste-ready instructions for one plan step.
// A step title is classified by an ordered list of keyword rules (first
// match wins) and the selected template is rendered in the requested
// locale.
package prompt

import "strings"

// Category is the intent class of a step.
type Category string

const (
	CategoryResearch   Category = "research"
	CategoryCreative   Category = "creative"
	CategoryStrategy   Category = "strategy"
	CategoryExecution  Category = "execution"
	CategoryTesting    Category = "testing"
	CategoryLaunch     Category = "launch"
	CategoryMonitoring Category = "monitoring"
	CategoryGeneric    Category = "generic"
)

// Variant selects one template within a category.
type Variant string

const (
	VariantResearchAudience Variant = "research.audience"
	VariantResearchMarket   Variant = "research.market"
	VariantResearch         Variant = "research"
	VariantCreativeLogo     Variant = "creative.logo"
	VariantCreativeContent  Variant = "creative.content"
	VariantCreative         Variant = "creative"
	VariantStrategy         Variant = "strategy"
	VariantExecution        Variant = "execution"
	VariantTesting          Variant = "testing"
	VariantLaunch           Variant = "launch"
	VariantMonitoring       Variant = "monitoring"
	VariantGeneric          Variant = "generic"
)

// Branch picks a variant when its keywords match.
type Branch struct {
	Keywords []string
	Variant  Variant
}

// Rule matches a lowercased step title. Branches are tried in order and
// Fallback applies when none matches.
type Rule struct {
	Category Category
	Keywords []string
	Branches []Branch
	Fallback Variant
	// Focus appends the step title as a focus sentence.
	Focus bool
}

func (r Rule) matches(title string) bool {
	return containsAny(title, r.Keywords)
}

func (r Rule) variant(title string) Variant {
	for _, b := range r.Branches {
		if containsAny(title, b.Keywords) {
			return b.Variant
		}
	}
	return r.Fallback
}

// DefaultRules is the priority order used by Default. Keywords are
// lowercase stems in both supported languages.
var DefaultRules = []Rule{
	{
		Category: CategoryResearch,
		Keywords: []string{"изследв", "проуч", "research", "анализ", "analyze", "аудитория"},
		Branches: []Branch{
			{Keywords: []string{"аудитория", "audience", "конкурент", "competitor"}, Variant: VariantResearchAudience},
			{Keywords: []string{"пазар", "market", "тенденци", "trend"}, Variant: VariantResearchMarket},
		},
		Fallback: VariantResearch,
		Focus:    true,
	},
	{
		Category: CategoryCreative,
		Keywords: []string{"създа", "генерир", "create", "дизайн", "design", "концепци", "concept"},
		Branches: []Branch{
			{Keywords: []string{"лого", "logo", "бранд", "brand"}, Variant: VariantCreativeLogo},
			{Keywords: []string{"контент", "content", "материал", "кампан", "campaign"}, Variant: VariantCreativeContent},
		},
		Fallback: VariantCreative,
		Focus:    true,
	},
	{
		Category: CategoryStrategy,
		Keywords: []string{"план", "стратег", "plan", "strategy", "органи", "organize"},
		Fallback: VariantStrategy,
	},
	{
		Category: CategoryExecution,
		Keywords: []string{"изпълн", "реализ", "implement", "execute", "build", "develop"},
		Fallback: VariantExecution,
	},
	{
		Category: CategoryTesting,
		Keywords: []string{"тест", "провер", "test", "validate", "оценк", "evaluate"},
		Fallback: VariantTesting,
	},
	{
		Category: CategoryLaunch,
		Keywords: []string{"пуска", "лансир", "launch", "финализир", "завърш", "complete", "публик", "publish"},
		Fallback: VariantLaunch,
	},
	{
		Category: CategoryMonitoring,
		Keywords: []string{"мониторинг", "следен", "monitor", "анализ", "подобр", "optimize", "резултат", "result"},
		Fallback: VariantMonitoring,
	},
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
