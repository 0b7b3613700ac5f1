package biz

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/lk2023060901/myai/internal/locale"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/metrics"
	"github.com/lk2023060901/myai/internal/plan"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultModel is used when a request names no model.
	DefaultModel = "llama3-70b-8192"

	candidatesPerCap = 16
	fuzzyThreshold   = 75
)

// SupportedModels lists the chat models a request may pick.
var SupportedModels = []string{
	"llama3-70b-8192",
	"llama3-8b-8192",
	"llama-3.1-8b-instant",
	"llama-3.3-70b-versatile",
	"gemma2-9b-it",
}

var (
	ErrEmptyGoal        = errors.New("user_goal is required")
	ErrUnsupportedModel = errors.New("unsupported model")
	ErrNoInventory      = errors.New("tool inventory unavailable")
	ErrNotConfigured    = errors.New("step generator not configured")
)

// StepGenerator asks a language model for free-form plan steps.
type StepGenerator interface {
	GenerateSteps(ctx context.Context, goal, model string, lang locale.Locale) ([]string, error)
}

// RatingsHealth describes the live ratings cache.
type RatingsHealth struct {
	OK          bool       `json:"ok"`
	Count       int        `json:"count"`
	LastRefresh *time.Time `json:"last_refresh"`
	AgeSeconds  *int64     `json:"age_seconds"`
	Source      string     `json:"source"`
	Enabled     bool       `json:"enabled"`
}

// RatingsSource provides live tool popularity in 0..1 keyed by tool name.
// Snapshot never blocks on the network.
type RatingsSource interface {
	Snapshot(ctx context.Context) map[string]float64
	Refresh(ctx context.Context) (int, error)
	Health(ctx context.Context) RatingsHealth
}

// ToolIndex answers candidate lookups over the loaded inventory.
type ToolIndex interface {
	Ready() bool
	Load(ctx context.Context, tools []*ctypes.Tool) error
	ByTag(tag string) []*ctypes.Tool
	All() []*ctypes.Tool
	Find(name string) *ctypes.Tool
	Semantic(ctx context.Context, query string, k int) ([]*ctypes.Tool, error)
}

// Inventory lists every catalog tool.
type Inventory interface {
	Inventory(ctx context.Context) ([]*ctypes.Tool, error)
}

// PlanInput is a validated planning request.
type PlanInput struct {
	Goal     string
	Language locale.Locale
	Model    string
}

// PlannerUseCase turns a goal into steps with recommended tools.
type PlannerUseCase struct {
	steps     StepGenerator
	ratings   RatingsSource
	index     ToolIndex
	inventory Inventory
	metrics   metrics.Recorder
	logger    *logger.Logger

	loadMu sync.Mutex
}

// NewPlannerUseCase creates a planner. steps may be nil, in which case
// free-form goals always get the contextual fallback steps.
func NewPlannerUseCase(steps StepGenerator, ratings RatingsSource, index ToolIndex, inventory Inventory, rec metrics.Recorder, log *logger.Logger) *PlannerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	return &PlannerUseCase{
		steps:     steps,
		ratings:   ratings,
		index:     index,
		inventory: inventory,
		metrics:   rec,
		logger:    log.Named("planner"),
	}
}

// ResolveModel returns the default for "" and rejects unknown models.
func ResolveModel(model string) (string, error) {
	model = strings.TrimSpace(model)
	if model == "" {
		return DefaultModel, nil
	}
	for _, m := range SupportedModels {
		if m == model {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedModel, model)
}

// Plan builds the step list for in.Goal and recommends tools per step.
func (uc *PlannerUseCase) Plan(ctx context.Context, in PlanInput) (resp *plan.Response, err error) {
	start := time.Now()
	source := SourceFallback
	defer func() { uc.metrics.ObservePlan(string(source), time.Since(start), err) }()

	goal := strings.TrimSpace(in.Goal)
	if goal == "" {
		return nil, ErrEmptyGoal
	}
	model, err := ResolveModel(in.Model)
	if err != nil {
		return nil, err
	}
	lang := in.Language
	if !lang.Valid() {
		lang = locale.BG
	}

	if err := uc.ensureIndex(ctx); err != nil {
		return nil, err
	}

	var ratings map[string]float64
	if uc.ratings != nil {
		ratings = uc.ratings.Snapshot(ctx)
	}

	learning := IsLearning(goal)
	var steps []Step
	steps, source = uc.planSteps(ctx, goal, model, lang, learning)

	items := make([]plan.Item, len(steps))
	g, gctx := errgroup.WithContext(ctx)
	for i, step := range steps {
		g.Go(func() error {
			cands, capForRank := uc.candidates(gctx, step)
			rin := RankInput{Goal: goal, Query: step.Title, Cap: capForRank, Learning: learning, Ratings: ratings}
			var universal func(string) *ctypes.Tool
			if learning {
				universal = uc.index.Find
			}
			items[i] = plan.Item{Task: step.Title, Tools: ReRank(cands, rin, universal)}
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	uc.logger.WithContext(ctx).Info("plan generated",
		zap.String("source", string(source)),
		zap.String("model", model),
		zap.String("language", lang.String()),
		zap.Int("steps", len(items)),
	)

	return &plan.Response{Goal: goal, Plan: items, Groups: plan.ToGroups(items)}, nil
}

func (uc *PlannerUseCase) planSteps(ctx context.Context, goal, model string, lang locale.Locale, learning bool) ([]Step, Source) {
	if learning {
		return LearningSteps(lang), SourceLearning
	}
	if tpl := MatchTemplate(goal); tpl != nil {
		return tpl.Steps(lang), SourceTemplate
	}

	titles, err := uc.generate(ctx, goal, model, lang)
	if err != nil {
		uc.logger.WithContext(ctx).Warn("step generation failed, using fallback steps", zap.Error(err))
		return FallbackSteps(goal, lang), SourceFallback
	}
	if TooGeneric(titles) {
		return FallbackSteps(goal, lang), SourceFallback
	}
	titles = CleanSteps(titles)
	if len(titles) == 0 {
		return FallbackSteps(goal, lang), SourceFallback
	}

	steps := make([]Step, 0, len(titles))
	for _, t := range titles {
		s := Step{Title: t}
		if c := MapToCapability(t); c != "" {
			s.Caps = []ctypes.Capability{c}
		}
		steps = append(steps, s)
	}
	return steps, SourceLLM
}

func (uc *PlannerUseCase) generate(ctx context.Context, goal, model string, lang locale.Locale) ([]string, error) {
	if uc.steps == nil {
		return nil, ErrNotConfigured
	}
	start := time.Now()
	titles, err := uc.steps.GenerateSteps(ctx, goal, model, lang)
	if !errors.Is(err, ErrNotConfigured) {
		uc.metrics.ObserveLLM(model, time.Since(start), err)
	}
	return titles, err
}

// candidates collects the tools for step and the capability used for the
// tag bonus. Lists of several capabilities are fused by rank.
func (uc *PlannerUseCase) candidates(ctx context.Context, step Step) ([]*ctypes.Tool, ctypes.Capability) {
	var capForRank ctypes.Capability
	if len(step.Caps) > 0 {
		capForRank = step.Caps[0]
	}

	var lists [][]*ctypes.Tool
	for _, c := range step.Caps {
		if l := uc.capCandidates(c); len(l) > 0 {
			lists = append(lists, l)
		}
	}
	if len(lists) > 0 {
		return FuseRRF(lists, DefaultRRFK), capForRank
	}

	sem, err := uc.index.Semantic(ctx, step.Title, candidatesPerCap)
	if err != nil {
		uc.logger.WithContext(ctx).Warn("semantic candidates failed", zap.String("step", step.Title), zap.Error(err))
		return nil, capForRank
	}
	uc.metrics.ObserveCandidates("semantic", len(sem))
	return sem, capForRank
}

func (uc *PlannerUseCase) capCandidates(c ctypes.Capability) []*ctypes.Tool {
	tag := ctypes.NormalizeTag(string(c))
	if bucket := uc.index.ByTag(tag); len(bucket) > 0 {
		if len(bucket) > candidatesPerCap {
			bucket = bucket[:candidatesPerCap]
		}
		uc.metrics.ObserveCandidates("tag", len(bucket))
		return bucket
	}

	type match struct {
		tool  *ctypes.Tool
		score int
	}
	var matches []match
	for _, t := range uc.index.All() {
		if s := BestTagRatio(tag, t.Tags); s >= fuzzyThreshold {
			matches = append(matches, match{t, s})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if len(matches) > candidatesPerCap {
		matches = matches[:candidatesPerCap]
	}

	out := make([]*ctypes.Tool, len(matches))
	for i, m := range matches {
		out[i] = m.tool
	}
	uc.metrics.ObserveCandidates("fuzzy", len(out))
	return out
}

func (uc *PlannerUseCase) ensureIndex(ctx context.Context) error {
	if uc.index.Ready() {
		return nil
	}
	uc.loadMu.Lock()
	defer uc.loadMu.Unlock()
	if uc.index.Ready() {
		return nil
	}
	return uc.reload(ctx)
}

// ReloadIndex rebuilds the index from the current inventory.
func (uc *PlannerUseCase) ReloadIndex(ctx context.Context) error {
	uc.loadMu.Lock()
	defer uc.loadMu.Unlock()
	return uc.reload(ctx)
}

func (uc *PlannerUseCase) reload(ctx context.Context) error {
	tools, err := uc.inventory.Inventory(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNoInventory, err)
	}
	if err := uc.index.Load(ctx, tools); err != nil {
		return fmt.Errorf("load tool index: %w", err)
	}
	uc.logger.Info("tool index loaded", zap.Int("tools", len(tools)))
	return nil
}

// RefreshRatings forces a live ratings fetch.
func (uc *PlannerUseCase) RefreshRatings(ctx context.Context) (int, error) {
	if uc.ratings == nil {
		return 0, nil
	}
	return uc.ratings.Refresh(ctx)
}

// RatingsHealth reports the state of the ratings cache.
func (uc *PlannerUseCase) RatingsHealth(ctx context.Context) RatingsHealth {
	if uc.ratings == nil {
		return RatingsHealth{Source: "fallback"}
	}
	return uc.ratings.Health(ctx)
}
