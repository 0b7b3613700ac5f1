package prompt

import "github.com/lk2023060901/myai/internal/locale"

// Templates is the string table of one locale. Bodies use {goal} and
// {step} placeholders; Focus uses {step}; Trailer uses {tools}.
type Templates struct {
	Placeholder string
	Focus       string
	Trailer     string
	Bodies      map[Variant]string
}

// DefaultTemplates covers every variant in English and Bulgarian.
var DefaultTemplates = locale.NewTable(map[locale.Locale]Templates{
	locale.EN: english,
	locale.BG: bulgarian,
})

var english = Templates{
	Placeholder: "[your goal/product/service]",
	Focus:       ` Focus specifically on: "{step}".`,
	Trailer:     "\n\nUse these tools in your work: {tools}. For each tool, explain exactly how to use it for this task, which features are most useful, and how to achieve the best results.",
	Bodies: map[Variant]string{
		VariantResearchAudience: "Conduct detailed research on the target audience for {goal}, including demographic data, psychographic characteristics, behavioral patterns, and main pain points/desires. Then analyze competitors (local and international), describe their strengths and weaknesses, pricing policy, communication channels, and unique value proposition. End with recommendations on how my business can differentiate itself.",
		VariantResearchMarket:   "Analyze market trends and opportunities for {goal}. Research market size, growth rates, key players, regulatory requirements, and technological changes. Identify niche segments, unmet needs, and future opportunities. Provide specific data, statistics, and sources, and conclude with market positioning recommendations.",
		VariantResearch:         "Conduct in-depth research on {goal}. Gather current information from reliable sources, analyze industry best practices, identify key success factors and potential risks. Create a structured report with key findings, statistics, and recommendations for next steps.",
		VariantCreativeLogo:     "Create a logo and visual identity concept for {goal}. Describe 3-5 different design directions, including color palette, typography, style, and mood. For each concept, explain the symbolism, psychological impact, and how it reflects the brand values. Add recommendations for application across different media (web, print, social media) and file formats for execution.",
		VariantCreativeContent:  "Create a set of marketing materials for {goal}, including: slogan, key messages, social media copy, email campaigns, and a short video script. Materials should be tailored to the target audience, highlight the unique value proposition, and evoke emotion and engagement. Also provide advertising campaign suggestions with specific channels (Facebook, Instagram, Google Ads, TikTok, etc.), budgets, and expected results.",
		VariantCreative:         "Develop a creative concept for {goal}. Create 3 different variants with detailed description of visual elements, color scheme, style, and mood. For each variant, explain the target audience, key messages, and expected impact. Include specific implementation recommendations, required resources, and timeline for execution.",
		VariantStrategy:         "Create a detailed strategic plan for {goal}. Include: specific goals with timelines, required resources and budget, key activities and milestones, responsible persons/roles, potential risks and mitigation measures. Add KPI metrics for measuring progress and a plan for regular review and strategy updates.",
		VariantExecution:        "Create a detailed execution plan for {goal}. Break down the process into specific tasks with deadlines, define required resources and tools, create a timeline with critical moments. Include quality checkpoints, possible obstacles, and alternative solutions. Add recommendations for team, budget, and progress tracking methods.",
		VariantTesting:          "Create a testing and validation plan for {goal}. Define specific success criteria, testing methods (A/B tests, user interviews, pilot programs), required tools and metrics. Describe how to collect and analyze feedback, how to iterate based on results, and what corrections to make before final launch.",
		VariantLaunch:           "Create a launch plan for {goal}, including timeline, preparation steps, social media content calendar, PR strategy, and potential partnerships/influencers. Describe how to synchronize online and offline activities, how to build anticipation before launch, and how to achieve maximum visibility in the first 30 days.",
		VariantMonitoring:       "Suggest a system for monitoring results from {goal}. Describe which KPIs to track (traffic, conversions, CAC, ROI, engagement, reviews), what tools to use (Google Analytics, Meta Ads Manager, CRM, etc.), how to analyze data, and what optimization steps I can take. Also add specific A/B test ideas to improve effectiveness.",
		VariantGeneric:          `Create a detailed plan for "{step}" in the context of {goal}. Include specific execution steps, required resources and tools, timelines, potential challenges and how to overcome them. Add measurable goals, success criteria, and a progress tracking plan.`,
	},
}

var bulgarian = Templates{
	Placeholder: "[вашата цел/продукт/услуга]",
	Focus:       ` Фокусирай се конкретно върху: "{step}".`,
	Trailer:     "\n\nПри работата използвай следните инструменти: {tools}. За всеки инструмент обясни как точно да го използвам за тази задача, какви функции са най-полезни и как да постигна най-добри резултати.",
	Bodies: map[Variant]string{
		VariantResearchAudience: "Направи подробно проучване на целевата аудитория за {goal}, като включиш демографски данни, психографски характеристики, поведенчески модели и основни болки/желания. След това анализирай конкурентите (местни и международни), опиши техните силни и слаби страни, ценова политика, канали за комуникация и уникално предложение. Завърши с препоръки как моят бизнес може да се отличи.",
		VariantResearchMarket:   "Анализирай пазарните тенденции и възможности за {goal}. Проучи размера на пазара, темповете на растеж, ключовите играчи, регулаторните изисквания и технологичните промени. Идентифицирай нишови сегменти, неудовлетворени нужди и бъдещи възможности. Предостави конкретни данни, статистики и източници, и завърши с препоръки за пазарно позициониране.",
		VariantResearch:         "Проведи задълбочено изследване за {goal}. Събери актуална информация от надеждни източници, анализирай най-добрите практики в индустрията, идентифицирай ключовите успешни фактори и потенциалните рискове. Създай структуриран доклад с основни находки, статистики и препоръки за следващи стъпки.",
		VariantCreativeLogo:     "Създай концепция за лого и визуална идентичност за {goal}. Опиши 3-5 различни дизайнерски посоки, включително цветова палитра, типография, стил и настроение. За всяка концепция обясни символиката, психологическото въздействие и как отразява стойностите на бранда. Добави препоръки за приложение на различни носители (уеб, печат, социални мрежи) и файлови формати за изпълнение.",
		VariantCreativeContent:  "Създай набор от маркетингови материали за {goal}, включително: слоган, ключови послания, текстове за социални мрежи, имейл кампании и кратко видео-сценарий. Материалите трябва да са съобразени с целевата аудитория, да подчертават уникалното предложение и да предизвикват емоция и ангажираност. Дай ми и предложение за рекламни кампании с конкретни канали (Facebook, Instagram, Google Ads, TikTok и др.), бюджети и очаквани резултати.",
		VariantCreative:         "Разработи креативна концепция за {goal}. Създай 3 различни варианта с подробно описание на визуалните елементи, цветова схема, стил и настроение. За всеки вариант обясни целевата аудитория, ключовите съобщения и очакваното въздействие. Включи конкретни препоръки за изпълнение, необходими ресурси и време за реализация.",
		VariantStrategy:         "Създай детайлен стратегически план за {goal}. Включи: конкретни цели с времеви рамки, необходими ресурси и бюджет, ключови дейности и милестъни, отговорни лица/роли, потенциални рискове и мерки за тяхното минимизиране. Добави KPI метрики за измерване на прогреса и план за редовно ревю и актуализация на стратегията.",
		VariantExecution:        "Създай подробен план за изпълнение на {goal}. Разбий процеса на конкретни задачи със срокове, дефинирай необходимите ресурси и инструменти, създай времева линия с критични моменти. Включи контролни точки за качество, възможни препятствия и алтернативни решения. Добави препоръки за екип, бюджет и методи за проследяване на напредъка.",
		VariantTesting:          "Създай план за тестване и валидация на {goal}. Дефинирай конкретни критерии за успех, методи за тестване (A/B тестове, потребителски интервюта, пилотни програми), необходими инструменти и метрики. Опиши как да събираш и анализираш обратната връзка, как да итерираш базирано на резултатите и какви корекции да правиш преди финалното пускане.",
		VariantLaunch:           "Направи план за лансиране на {goal}, включително времева линия, стъпки по подготовка, съдържателен календар за социалните мрежи, PR стратегия и възможни партньорства/инфлуенсъри. Опиши как да синхронизирам онлайн и офлайн дейностите, как да изградя очакване преди лансирането и как да постигна максимална видимост в първите 30 дни.",
		VariantMonitoring:       "Предложи система за мониторинг на резултатите от {goal}. Опиши кои KPI да следя (трафик, конверсии, CAC, ROI, ангажираност, отзиви), какви инструменти да използвам (Google Analytics, Meta Ads Manager, CRM и др.), как да анализирам данните и какви стъпки за оптимизация мога да предприема. Добави и конкретни идеи за A/B тестове, за да подобря ефективността.",
		VariantGeneric:          `Създай детайлен план за "{step}" в контекста на {goal}. Включи конкретни стъпки за изпълнение, необходими ресурси и инструменти, времеви рамки, потенциални предизвикателства и как да ги преодолеем. Добави измерими цели, критерии за успех и план за проследяване на прогреса.`,
	},
}
