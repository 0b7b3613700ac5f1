package data

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/planner/biz"
	"github.com/sashabaranov/go-openai"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GroqStepGenerator asks an OpenAI-compatible chat endpoint for plan steps.
type GroqStepGenerator struct {
	client *openai.Client
	cfg    conf.LLMConfig
	logger *logger.Logger
}

// NewGroqStepGenerator creates the generator. A config without API key
// yields a generator that always reports biz.ErrNotConfigured.
func NewGroqStepGenerator(cfg conf.LLMConfig, log *logger.Logger) *GroqStepGenerator {
	if log == nil {
		log = logger.L()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}

	g := &GroqStepGenerator{cfg: cfg, logger: log.Named("groq")}
	if cfg.APIKey != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
		}
		g.client = openai.NewClientWithConfig(clientCfg)
	}
	return g
}

// GenerateSteps implements biz.StepGenerator.
func (g *GroqStepGenerator) GenerateSteps(ctx context.Context, goal, model string, lang locale.Locale) ([]string, error) {
	if g.client == nil {
		return nil, biz.ErrNotConfigured
	}
	if model == "" {
		model = g.cfg.Model
	}

	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: biz.SystemPrompt(lang)},
			{Role: openai.ChatMessageRoleUser, Content: biz.StepPrompt(goal, lang)},
		},
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty choices")
	}

	content := resp.Choices[0].Message.Content
	steps := ParseStepsReply(content)
	g.logger.Debug("steps generated",
		zap.String("model", model),
		zap.Int("steps", len(steps)),
		zap.Int("total_tokens", resp.Usage.TotalTokens),
	)
	return steps, nil
}

// ParseStepsReply reads {"steps":[{"task":...}]} from a model reply. A
// reply that is not JSON is tried for an embedded object, then read as a
// plain list of lines.
func ParseStepsReply(content string) []string {
	content = strings.TrimSpace(content)
	doc := content
	if !gjson.Valid(doc) {
		start, end := strings.Index(content, "{"), strings.LastIndex(content, "}")
		if start < 0 || end <= start || !gjson.Valid(content[start:end+1]) {
			return biz.ExtractStepsFromText(content)
		}
		doc = content[start : end+1]
	}

	steps := []string{}
	gjson.Get(doc, "steps").ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			steps = append(steps, strings.TrimSpace(item.Get("task").String()))
		}
		return true
	})
	return steps
}
