package prompt

import (
	"strings"

	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/plan"
)

// Builder renders step prompts from a rule list and a template table.
type Builder struct {
	rules     []Rule
	templates locale.Table[Templates]
}

// NewBuilder copies rules; the template table is immutable already.
func NewBuilder(rules []Rule, templates locale.Table[Templates]) *Builder {
	return &Builder{rules: append([]Rule(nil), rules...), templates: templates}
}

var defaultBuilder = NewBuilder(DefaultRules, DefaultTemplates)

// Default returns the builder with DefaultRules and DefaultTemplates.
func Default() *Builder { return defaultBuilder }

// Build is Default().Build.
func Build(goal, stepTitle string, tools []plan.Tool, loc locale.Locale) string {
	return defaultBuilder.Build(goal, stepTitle, tools, loc)
}

// Classify returns the first matching rule's category and variant, or the
// generic fallback.
func (b *Builder) Classify(stepTitle string) (Category, Variant, bool) {
	title := strings.ToLower(stepTitle)
	for _, r := range b.rules {
		if r.matches(title) {
			return r.Category, r.variant(title), r.Focus
		}
	}
	return CategoryGeneric, VariantGeneric, false
}

// Build renders the prompt for one step. An empty goal is replaced by the
// locale placeholder and a non-empty tool list appends the tool trailer.
func (b *Builder) Build(goal, stepTitle string, tools []plan.Tool, loc locale.Locale) string {
	t := b.templates.Lookup(loc)

	g := strings.TrimSpace(goal)
	if g == "" {
		g = t.Placeholder
	}
	_, variant, focus := b.Classify(stepTitle)

	body, ok := t.Bodies[variant]
	if !ok {
		body = t.Bodies[VariantGeneric]
	}

	var sb strings.Builder
	r := strings.NewReplacer("{goal}", g, "{step}", stepTitle)
	sb.WriteString(r.Replace(body))
	if focus && strings.TrimSpace(stepTitle) != "" {
		sb.WriteString(r.Replace(t.Focus))
	}

	if names := toolNames(tools); len(names) > 0 {
		sb.WriteString(strings.ReplaceAll(t.Trailer, "{tools}", strings.Join(names, ", ")))
	}
	return sb.String()
}

func toolNames(tools []plan.Tool) []string {
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}
