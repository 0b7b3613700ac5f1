package biz

import (
	"fmt"
	"strings"

	"github.com/lk2023060901/myai/internal/locale"
)

type goalContext struct {
	keys   []string
	bg, en string
}

var goalContexts = []goalContext{
	{
		keys: []string{"клип", "видео", "музикал", "music video", "video"},
		bg:   "Контекст: Създаване на музикален/видео клип\nФокусирай се върху: концепция, снимки, монтаж, постпродукция, публикуване",
		en:   "Context: Producing a music/video clip\nFocus on: concept, shooting, editing, post-production, publishing",
	},
	{
		keys: []string{"сайт", "уеб", "website", "landing"},
		bg:   "Контекст: Разработка на уебсайт\nФокусирай се върху: дизайн, разработка, съдържание, оптимизация, публикуване",
		en:   "Context: Building a website\nFocus on: design, development, content, optimization, publishing",
	},
	{
		keys: []string{"маркетинг", "реклама", "кампания", "промоция", "marketing", "campaign", "promotion"},
		bg:   "Контекст: Маркетинг и реклама\nФокусирай се върху: аудитория, стратегия, съдържание, канали, анализ",
		en:   "Context: Marketing and advertising\nFocus on: audience, strategy, content, channels, analysis",
	},
	{
		keys: []string{"лого", "брандинг", "визия", "дизайн", "logo", "branding", "design"},
		bg:   "Контекст: Визуална идентичност и брандинг\nФокусирай се върху: концепция, дизайн, вариации, приложения, доставка",
		en:   "Context: Visual identity and branding\nFocus on: concept, design, variations, applications, delivery",
	},
	{
		keys: []string{"презентация", "pitch", "deck", "presentation"},
		bg:   "Контекст: Бизнес презентация\nФокусирай се върху: съдържание, структура, визуализация, подготовка, представяне",
		en:   "Context: Business presentation\nFocus on: content, structure, visualization, preparation, delivery",
	},
}

var genericContext = locale.NewTable(map[locale.Locale]string{
	locale.BG: "Контекст: Обща задача/проект\nФокусирай се върху конкретните дейности, необходими за тази специфична цел.",
	locale.EN: "Context: General task/project\nFocus on the concrete activities this specific goal needs.",
})

// GoalContext returns the domain hint block added to the step prompt.
func GoalContext(goal string, l locale.Locale) string {
	g := strings.ToLower(goal)
	for _, c := range goalContexts {
		if containsAny(g, c.keys) {
			if l == locale.EN {
				return c.en
			}
			return c.bg
		}
	}
	return genericContext.Lookup(l)
}

var systemPrompts = locale.NewTable(map[locale.Locale]string{
	locale.BG: "Ти си експерт в планирането на проекти. Даваш конкретни, практически стъпки.",
	locale.EN: "You are a project planning expert. You give concrete, practical steps.",
})

// SystemPrompt returns the system message for step generation.
func SystemPrompt(l locale.Locale) string {
	return systemPrompts.Lookup(l)
}

const stepPromptBG = `Отговори на български език.

Потребителят иска да: "%s"

Генерирай списък от 3-5 ОСНОВНИ ПРАКТИЧЕСКИ стъпки за постигане на тази цел.

ВАЖНИ ПРАВИЛА:
1. Стъпките трябва да са КОНКРЕТНИ за целта, НЕ генерични
2. Всяка стъпка да описва реална дейност или фаза от процеса
3. Подреди стъпките в логична последователност - от начало до край
4. Използвай професионална терминология, подходяща за областта
5. Стъпките да са действия, които могат да се изпълнят с AI инструменти

%s

Върни САМО JSON в следния формат:
{"steps":[{"task":"конкретна стъпка 1"}, {"task":"конкретна стъпка 2"}, ...]}

Примери за добри стъпки:
- За музикален клип: "Разработи концепция и сценарий", "Организирай снимачен екип и локации", "Заснеми видео материал", "Монтирай и добави ефекти", "Публикувай и промотирай"
- За уебсайт: "Проектирай структура и UX", "Създай визуален дизайн", "Разработи функционалности", "Тествай и оптимизирай", "Публикувай и настрой SEO"
- За маркетинг кампания: "Анализирай целева аудитория", "Създай контент стратегия", "Произведи визуални материали", "Настрой рекламни канали", "Измери и оптимизирай резултатите"

НЕ давай общи стъпки като "Изясни изискванията", "Намери инструменти", "Подготви резултат".
`

const stepPromptEN = `Answer in English.

The user wants to: "%s"

Generate a list of 3-5 KEY PRACTICAL steps to reach this goal.

IMPORTANT RULES:
1. Steps must be SPECIFIC to the goal, NOT generic
2. Each step describes a real activity or phase of the process
3. Order the steps logically, from start to finish
4. Use professional terminology suited to the field
5. Steps should be actions that can be carried out with AI tools

%s

Return ONLY JSON in this format:
{"steps":[{"task":"specific step 1"}, {"task":"specific step 2"}, ...]}

Examples of good steps:
- Music video: "Develop the concept and script", "Organize the crew and locations", "Shoot the footage", "Edit and add effects", "Publish and promote"
- Website: "Design the structure and UX", "Create the visual design", "Develop the features", "Test and optimize", "Publish and set up SEO"
- Marketing campaign: "Analyze the target audience", "Create a content strategy", "Produce visual materials", "Set up ad channels", "Measure and optimize results"

Do NOT give generic steps such as "Clarify the requirements", "Find tools", "Prepare the result".
`

var stepPrompts = locale.NewTable(map[locale.Locale]string{
	locale.BG: stepPromptBG,
	locale.EN: stepPromptEN,
})

// StepPrompt builds the user message asking the model for plan steps.
func StepPrompt(goal string, l locale.Locale) string {
	return fmt.Sprintf(stepPrompts.Lookup(l), goal, GoalContext(goal, l))
}
