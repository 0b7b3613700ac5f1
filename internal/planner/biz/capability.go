package biz

import (
	"strings"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
)

// capabilityRule maps a step to cap when its lowercased text contains any
// keyword. Rules are evaluated in order; the first hit wins.
type capabilityRule struct {
	cap      ctypes.Capability
	keywords []string
}

var capabilityRules = []capabilityRule{
	// video
	{ctypes.CapVideoGenerate, []string{"снимки", "заснем", "видео", "клип", "камера", "shoot", "record", "film", "video"}},
	{ctypes.CapVideoEdit, []string{"монтаж", "монтир", "edit", "cutting", "постпродукц", "post-production"}},

	// design
	{ctypes.CapImageGenerate, []string{"дизайн", "визуал", "мокъп", "wireframe", "ui", "ux", "макет", "design", "visual", "mockup"}},
	{ctypes.CapImageGenerate, []string{"лого", "брандинг", "визия", "identity", "графичен", "logo", "branding"}},
	{ctypes.CapTextExplain, []string{"концепция", "сценарий", "storyboard", "скици", "concept", "script", "sketch"}},

	// text
	{ctypes.CapTextExplain, []string{"напиши", "създай съдържание", "копирайт", "текст", "content", "write", "copy"}},
	{ctypes.CapTextExplain, []string{"обясни", "опиши", "explain", "review", "анализирай", "дефинирай", "describe", "define"}},
	{ctypes.CapTextSummarize, []string{"summary", "summarize", "резюме", "обобщи"}},

	// research
	{ctypes.CapResearchWeb, []string{"research", "изследвай", "търсене", "проучи", "анализ на пазара", "конкурент", "competitor", "market analysis"}},
	{ctypes.CapResearchWeb, []string{"аудитория", "таргет", "целева група", "демография", "audience", "target group", "demographic"}},

	// documents and slides
	{ctypes.CapDocReadPDF, []string{"pdf", "документ", "прочети", "файл", "document", "read"}},
	{ctypes.CapSlideGenerate, []string{"slide", "deck", "презентация", "powerpoint", "слайдове", "presentation"}},

	// development
	{ctypes.CapAutomateWorkflow, []string{"разработ", "програмир", "код", "develop", "функционал", "api", "code", "program"}},
	{ctypes.CapAutomateWorkflow, []string{"тествай", "оптимизир", "debug", "performance", "seo", "test", "optimiz"}},

	// publishing and marketing
	{ctypes.CapIntegrations, []string{"публикувай", "publish", "deploy", "пусни", "качи", "upload", "launch"}},
	{ctypes.CapIntegrations, []string{"промотирай", "реклам", "маркетинг", "кампания", "social", "promot", "advertis", "marketing", "campaign"}},
	{ctypes.CapAutomateWorkflow, []string{"автоматизир", "настрой", "integrate", "свърж", "automat", "set up", "connect"}},

	// planning
	{ctypes.CapAutomateWorkflow, []string{"организирай", "планирай", "график", "schedule", "екип", "ресурси", "organiz", "plan", "team", "resources"}},
	{ctypes.CapResearchWeb, []string{"локации", "място", "venue", "студио", "location", "studio"}},

	// measurement
	{ctypes.CapTextSummarize, []string{"измери", "анализирай резултати", "метрики", "roi", "статистика", "measure", "metrics", "statistics"}},

	// generic creation
	{ctypes.CapTextExplain, []string{"създай", "генерирай", "направи", "произведи", "create", "generate", "make", "produce"}},
}

// MapToCapability returns the capability a step most likely needs, or ""
// when no rule matches.
func MapToCapability(step string) ctypes.Capability {
	s := strings.ToLower(step)
	if strings.TrimSpace(s) == "" {
		return ""
	}
	for _, rule := range capabilityRules {
		for _, kw := range rule.keywords {
			if strings.Contains(s, kw) {
				return rule.cap
			}
		}
	}
	return ""
}
