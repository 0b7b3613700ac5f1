package biz

import (
	"regexp"
	"strings"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/locale"
)

// Source names where the steps of a plan came from.
type Source string

const (
	SourceLearning Source = "learning"
	SourceTemplate Source = "template"
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// Step is one plan step with the capabilities used to find its tools.
// Caps is empty for free-form steps, which are mapped per step.
type Step struct {
	Title string
	Caps  []ctypes.Capability
}

// stepDef is a bilingual step title.
type stepDef struct {
	bg, en string
	caps   []ctypes.Capability
}

func (d stepDef) title(l locale.Locale) string {
	if l == locale.EN && d.en != "" {
		return d.en
	}
	return d.bg
}

func (d stepDef) step(l locale.Locale) Step {
	return Step{Title: d.title(l), Caps: d.caps}
}

// wordPattern compiles a case-insensitive alternation bounded by non-letters.
// RE2's \b only knows ASCII, which would never fire next to Cyrillic.
func wordPattern(alternation string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:` + alternation + `)(?:[^\p{L}\p{N}_]|$)`)
}

var learningPattern = wordPattern(`учи|научи|науча|обясни|какво е|what is|learn|course|курс|scrum|agile`)

// IsLearning reports whether goal asks to learn or understand a topic.
func IsLearning(goal string) bool {
	return learningPattern.MatchString(goal)
}

var learningSteps = []stepDef{
	{
		bg:   "Открий какво представлява темата и защо е важна",
		en:   "Discover what the topic is and why it matters",
		caps: []ctypes.Capability{ctypes.CapResearchWeb, ctypes.CapTextExplain},
	},
	{
		bg:   "Намери и организирай качествени материали за обучение",
		en:   "Find and organize quality learning materials",
		caps: []ctypes.Capability{ctypes.CapResearchWeb, ctypes.CapTextSummarize, ctypes.CapDocReadPDF},
	},
	{
		bg:   "Практикувай, обобщи и питай за обратна връзка",
		en:   "Practice, summarize and ask for feedback",
		caps: []ctypes.Capability{ctypes.CapTextExplain, ctypes.CapSlideGenerate},
	},
}

// LearningSteps returns the canonical three-step learning path.
func LearningSteps(l locale.Locale) []Step {
	return buildSteps(learningSteps, l)
}

// Template is a fixed plan for a recognizable kind of goal.
type Template struct {
	Name  string
	match *regexp.Regexp
	steps []stepDef
}

// Steps returns the template steps in l.
func (t *Template) Steps(l locale.Locale) []Step {
	return buildSteps(t.steps, l)
}

func buildSteps(defs []stepDef, l locale.Locale) []Step {
	out := make([]Step, 0, len(defs))
	for _, d := range defs {
		out = append(out, d.step(l))
	}
	return out
}

var templates = []*Template{
	{
		Name:  "music_video",
		match: wordPattern(`музикален\s+клип|music\s+video|видеоклип|клип`),
		steps: []stepDef{
			{"Разработи концепция и напиши сценарий", "Develop the concept and write the script", []ctypes.Capability{ctypes.CapTextExplain, ctypes.CapImageGenerate}},
			{"Организирай снимачен екип и локации", "Organize the film crew and locations", []ctypes.Capability{ctypes.CapResearchWeb, ctypes.CapAutomateWorkflow}},
			{"Заснеми видео материала", "Shoot the video footage", []ctypes.Capability{ctypes.CapVideoGenerate}},
			{"Монтирай клипа и добави ефекти", "Edit the clip and add effects", []ctypes.Capability{ctypes.CapVideoEdit, ctypes.CapImageEdit}},
			{"Публикувай и промотирай", "Publish and promote", []ctypes.Capability{ctypes.CapIntegrations, ctypes.CapAutomateWorkflow}},
		},
	},
	{
		Name:  "logo",
		match: wordPattern(`лого|logo|brand`),
		steps: []stepDef{
			{"Изясни нуждите и стиловете", "Clarify needs and styles", []ctypes.Capability{ctypes.CapTextExplain}},
			{"Генерирай концепции и визии", "Generate concepts and visuals", []ctypes.Capability{ctypes.CapImageGenerate}},
			{"Подготви финален пакет", "Prepare the final package", []ctypes.Capability{ctypes.CapImageEdit, ctypes.CapSlideGenerate}},
		},
	},
	{
		Name:  "pitch_deck",
		match: wordPattern(`deck|pitch|презентац|инвеститор`),
		steps: []stepDef{
			{"Събери данни и примери", "Gather data and examples", []ctypes.Capability{ctypes.CapResearchWeb, ctypes.CapTextSummarize}},
			{"Създай структура и копирайтинг", "Create the structure and copy", []ctypes.Capability{ctypes.CapTextExplain}},
			{"Визуализирай слайдовете", "Design the slides", []ctypes.Capability{ctypes.CapSlideGenerate, ctypes.CapImageGenerate}},
		},
	},
	{
		Name:  "social_marketing",
		match: wordPattern(`маркетинг|instagram|facebook|linkedin|tiktok|reels|ugc`),
		steps: []stepDef{
			{"Изследване на аудитория и конкуренти", "Research audience and competitors", []ctypes.Capability{ctypes.CapResearchWeb, ctypes.CapTextSummarize}},
			{"Създай content план", "Create a content plan", []ctypes.Capability{ctypes.CapTextExplain}},
			{"Генерирай креативи (визии/видео)", "Generate creatives (visuals/video)", []ctypes.Capability{ctypes.CapImageGenerate, ctypes.CapVideoGenerate}},
			{"Планирай и автоматизирай публикуване", "Schedule and automate publishing", []ctypes.Capability{ctypes.CapAutomateWorkflow, ctypes.CapIntegrations}},
		},
	},
	{
		Name:  "website_lp",
		match: wordPattern(`уебсайт|сайт|landing|ленд(?:инг)?`),
		steps: []stepDef{
			{"Определи структура и съдържание", "Define structure and content", []ctypes.Capability{ctypes.CapResearchWeb, ctypes.CapTextExplain}},
			{"Генерирай копирайтинг и изображения", "Generate copy and images", []ctypes.Capability{ctypes.CapTextExplain, ctypes.CapImageGenerate}},
			{"Сглоби сайта с no‑code/интеграции", "Assemble the site with no-code/integrations", []ctypes.Capability{ctypes.CapAutomateWorkflow, ctypes.CapIntegrations}},
			{"Презентация/handoff", "Presentation/handoff", []ctypes.Capability{ctypes.CapSlideGenerate}},
		},
	},
}

// MatchTemplate returns the first template whose pattern matches goal.
func MatchTemplate(goal string) *Template {
	for _, t := range templates {
		if t.match.MatchString(goal) {
			return t
		}
	}
	return nil
}

// fallbackSet is a context-specific set of free-form steps. Keys are
// matched as substrings of the lowercased goal.
type fallbackSet struct {
	keys  []string
	steps []stepDef
}

var fallbackSets = []fallbackSet{
	{
		keys: []string{"музикален клип", "music video"},
		steps: []stepDef{
			{bg: "Разработи концепция и напиши сценарий", en: "Develop the concept and write the script"},
			{bg: "Организирай снимачен екип и локации", en: "Organize the film crew and locations"},
			{bg: "Заснеми видео материала", en: "Shoot the video footage"},
			{bg: "Монтирай клипа и добави визуални ефекти", en: "Edit the clip and add visual effects"},
			{bg: "Публикувай и промотирай в социални медии", en: "Publish and promote on social media"},
		},
	},
	{
		keys: []string{"уебсайт", "сайт", "website"},
		steps: []stepDef{
			{bg: "Проектирай структура и потребителски поток", en: "Design the structure and user flow"},
			{bg: "Създай визуален дизайн и мокъпи", en: "Create the visual design and mockups"},
			{bg: "Разработи функционалности и съдържание", en: "Develop features and content"},
			{bg: "Тествай и оптимизирай производителността", en: "Test and optimize performance"},
			{bg: "Публикувай и настрой SEO", en: "Publish and set up SEO"},
		},
	},
	{
		keys: []string{"маркетинг", "реклама", "marketing", "advertising"},
		steps: []stepDef{
			{bg: "Изследвай и дефинирай целева аудитория", en: "Research and define the target audience"},
			{bg: "Разработи контент стратегия и послания", en: "Develop the content strategy and messaging"},
			{bg: "Създай визуални и текстови материали", en: "Create visual and written materials"},
			{bg: "Настрой и стартирай рекламни кампании", en: "Set up and launch ad campaigns"},
			{bg: "Анализирай резултати и оптимизирай", en: "Analyze results and optimize"},
		},
	},
	{
		keys: []string{"лого", "logo"},
		steps: []stepDef{
			{bg: "Проучи бранда и конкуренцията", en: "Research the brand and competitors"},
			{bg: "Създай концепции и скици", en: "Create concepts and sketches"},
			{bg: "Разработи финални варианти", en: "Develop final variants"},
			{bg: "Тествай и усъвършенствай дизайна", en: "Test and refine the design"},
			{bg: "Подготви файлове за различни приложения", en: "Prepare files for different uses"},
		},
	},
	{
		keys: []string{"презентация", "pitch", "presentation"},
		steps: []stepDef{
			{bg: "Дефинирай ключови послания и структура", en: "Define key messages and structure"},
			{bg: "Събери данни и подкрепящи доказателства", en: "Gather data and supporting evidence"},
			{bg: "Създай визуално съдържание и графики", en: "Create visual content and charts"},
			{bg: "Оформи слайдове с професионален дизайн", en: "Lay out slides with a professional design"},
			{bg: "Подготви говорни бележки и репетирай", en: "Prepare speaker notes and rehearse"},
		},
	},
}

var genericFallback = []stepDef{
	{bg: "Анализирай целта и дефинирай резултатите", en: "Analyze the goal and define the outcomes"},
	{bg: "Планирай подхода и необходимите ресурси", en: "Plan the approach and required resources"},
	{bg: "Създай основното съдържание или продукт", en: "Create the core content or product"},
	{bg: "Прегледай и подобри качеството", en: "Review and improve the quality"},
	{bg: "Финализирай и достави резултата", en: "Finalize and deliver the result"},
}

// FallbackSteps returns context-specific steps for goal. Capabilities are
// mapped from the Bulgarian wording so that both languages rank alike.
func FallbackSteps(goal string, l locale.Locale) []Step {
	defs := genericFallback
	g := strings.ToLower(goal)
	for _, set := range fallbackSets {
		if containsAny(g, set.keys) {
			defs = set.steps
			break
		}
	}

	out := make([]Step, 0, len(defs))
	for _, d := range defs {
		s := Step{Title: d.title(l)}
		if c := MapToCapability(d.bg); c != "" {
			s.Caps = []ctypes.Capability{c}
		}
		out = append(out, s)
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

var genericPatterns = []string{
	"изясни", "намери", "подготви резултат", "финализирай",
	"определи изисквания", "събери информация", "подготви материали",
	"проучи", "анализирай нужди", "дефинирай цели",
	"clarify requirements", "find tools", "prepare result", "gather information",
}

// TooGeneric reports whether more than half of steps are boilerplate.
func TooGeneric(steps []string) bool {
	if len(steps) == 0 {
		return false
	}
	n := 0
	for _, s := range steps {
		if containsAny(strings.ToLower(s), genericPatterns) {
			n++
		}
	}
	return float64(n) > float64(len(steps))/2
}

var listMarker = regexp.MustCompile(`^[\s\-•\d.)]+`)

// ExtractStepsFromText pulls steps out of a free-text reply: one per line,
// list markers stripped, JSON-looking lines skipped.
func ExtractStepsFromText(content string) []string {
	var steps []string
	for _, line := range strings.Split(content, "\n") {
		line = listMarker.ReplaceAllString(strings.TrimSpace(line), "")
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "{") || strings.HasPrefix(line, "[") {
			continue
		}
		steps = append(steps, line)
	}
	return steps
}

// CleanSteps trims, drops empties and keeps at most MaxSteps.
func CleanSteps(steps []string) []string {
	out := make([]string, 0, len(steps))
	for _, s := range steps {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == MaxSteps {
			break
		}
	}
	return out
}

// MaxSteps caps free-form plans.
const MaxSteps = 5
