package data

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/metrics"
	"github.com/lk2023060901/myai/internal/planner/biz"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const ratingsSnapshotKey = "ratings:snapshot"

var (
	ErrRatingsDisabled = errors.New("live ratings disabled")
	ErrNoRatings       = errors.New("no ratings found in page")
)

// modelAliases maps leaderboard model names to catalog tool names.
var modelAliases = map[string]string{
	"GPT-4": "ChatGPT", "GPT-4o": "ChatGPT", "GPT-4.1": "ChatGPT", "GPT-3.5": "ChatGPT",
	"Claude 3": "Claude", "Claude 3.5": "Claude", "Claude 2": "Claude",
	"Gemini Advanced": "Gemini", "Gemini 1.5": "Gemini",
	"Llama": "Groq",
}

// ToolName resolves a leaderboard model name to a tool name.
func ToolName(model string) string {
	model = strings.TrimSpace(model)
	if alias, ok := modelAliases[model]; ok {
		return alias
	}
	return model
}

type ratingScores map[string]float64

func (s ratingScores) add(name string, v float64) {
	if v > 1 {
		v /= 100
	}
	v = min(max(v, 0), 1)
	n := ToolName(name)
	if cur, ok := s[n]; !ok || v > cur {
		s[n] = v
	}
}

var (
	scoreKeys  = []string{"score"}
	modelKeys  = []string{"overall", "rating", "avg"}
	htmlScores = regexp.MustCompile(`"(model|name)"\s*:\s*"([^"]+)"[^}]{0,200}?"(score|rating|overall)"\s*:\s*(\d+(?:\.\d+)?)`)
)

// ParseLeaderboard extracts per-tool popularity in 0..1 from the leaderboard
// page. It reads the embedded Next.js data first and scans the raw HTML
// when that yields nothing.
func ParseLeaderboard(html string) map[string]float64 {
	scores := ratingScores{}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		data := doc.Find(`script#__NEXT_DATA__`).First().Text()
		if gjson.Valid(data) {
			walkRatings(gjson.Parse(data), scores)
		}
	}

	if len(scores) == 0 {
		for _, m := range htmlScores.FindAllStringSubmatch(html, -1) {
			if v, err := strconv.ParseFloat(m[4], 64); err == nil {
				scores.add(m[2], v)
			}
		}
	}
	return scores
}

func walkRatings(v gjson.Result, scores ratingScores) {
	switch {
	case v.IsObject():
		collectPair(v, "name", scoreKeys, scores)
		collectPair(v, "model", modelKeys, scores)
		v.ForEach(func(_, child gjson.Result) bool {
			walkRatings(child, scores)
			return true
		})
	case v.IsArray():
		v.ForEach(func(_, child gjson.Result) bool {
			walkRatings(child, scores)
			return true
		})
	}
}

func collectPair(obj gjson.Result, nameKey string, valueKeys []string, scores ratingScores) {
	name := obj.Get(nameKey)
	if name.Type != gjson.String || name.Str == "" {
		return
	}
	for _, k := range valueKeys {
		if v := obj.Get(k); v.Type == gjson.Number {
			scores.add(name.Str, v.Num)
			return
		}
	}
}

type ratingsSnapshot struct {
	Scores    map[string]float64 `json:"scores"`
	FetchedAt time.Time          `json:"fetched_at"`
	OK        bool               `json:"ok"`
}

// RatingsClient keeps a cached copy of the live leaderboard. Reads never
// wait for the network; stale data triggers a background refresh.
type RatingsClient struct {
	cfg     conf.RatingsConfig
	http    *http.Client
	store   kv.Store
	metrics metrics.Recorder
	logger  *logger.Logger
	now     func() time.Time

	group    singleflight.Group
	loadOnce sync.Once

	mu        sync.RWMutex
	scores    map[string]float64
	attempted time.Time
	ok        bool
}

// NewRatingsClient creates the client. store persists the last snapshot
// across restarts and may be nil.
func NewRatingsClient(cfg conf.RatingsConfig, store kv.Store, rec metrics.Recorder, log *logger.Logger) *RatingsClient {
	if log == nil {
		log = logger.L()
	}
	if rec == nil {
		rec = metrics.Nop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	return &RatingsClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		store:   store,
		metrics: rec,
		logger:  log.Named("ratings"),
		now:     time.Now,
		scores:  map[string]float64{},
	}
}

// Snapshot implements biz.RatingsSource.
func (c *RatingsClient) Snapshot(ctx context.Context) map[string]float64 {
	c.restore(ctx)
	if c.due() {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.Timeout+time.Second)
			defer cancel()
			_, _ = c.fetch(ctx)
		}()
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]float64, len(c.scores))
	for k, v := range c.scores {
		out[k] = v
	}
	return out
}

// Refresh fetches the leaderboard now, even when the cache is fresh.
func (c *RatingsClient) Refresh(ctx context.Context) (int, error) {
	c.restore(ctx)
	return c.fetch(ctx)
}

// Health implements biz.RatingsSource.
func (c *RatingsClient) Health(ctx context.Context) biz.RatingsHealth {
	c.restore(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := biz.RatingsHealth{
		OK:      c.ok,
		Count:   len(c.scores),
		Source:  "fallback",
		Enabled: c.cfg.Enabled,
	}
	if c.ok && len(c.scores) > 0 {
		h.Source = "live"
	}
	if !c.attempted.IsZero() {
		last := c.attempted.UTC()
		age := int64(c.now().Sub(c.attempted).Seconds())
		h.LastRefresh, h.AgeSeconds = &last, &age
	}
	return h
}

// due reports whether a background fetch should start: never attempted,
// or older than the TTL after a success or the retry interval after a
// failure.
func (c *RatingsClient) due() bool {
	if !c.cfg.Enabled {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.attempted.IsZero() {
		return true
	}
	limit := c.cfg.RetryAfter
	if c.ok {
		limit = c.cfg.TTL
	}
	return c.now().Sub(c.attempted) >= limit
}

func (c *RatingsClient) fetch(ctx context.Context) (int, error) {
	v, err, _ := c.group.Do("fetch", func() (any, error) {
		return c.doFetch(ctx)
	})
	n, _ := v.(int)
	return n, err
}

func (c *RatingsClient) doFetch(ctx context.Context) (int, error) {
	if !c.cfg.Enabled {
		c.mu.Lock()
		c.attempted, c.ok = c.now(), false
		n := len(c.scores)
		c.mu.Unlock()
		return n, ErrRatingsDisabled
	}

	scores, err := c.download(ctx)
	if err == nil && len(scores) == 0 {
		err = ErrNoRatings
	}

	c.mu.Lock()
	c.attempted = c.now()
	if err != nil {
		c.scores, c.ok = map[string]float64{}, false
	} else {
		c.scores, c.ok = scores, true
	}
	snap := ratingsSnapshot{Scores: c.scores, FetchedAt: c.attempted, OK: c.ok}
	c.mu.Unlock()

	c.metrics.ObserveRatingsRefresh(sourceOf(err), len(scores), err)
	if err != nil {
		c.logger.Warn("live ratings unavailable, using popularity priors", zap.Error(err))
	} else {
		c.logger.Info("live ratings loaded", zap.Int("count", len(scores)))
	}
	c.persist(ctx, snap)
	return len(snap.Scores), err
}

func sourceOf(err error) string {
	if err != nil {
		return "fallback"
	}
	return "live"
}

func (c *RatingsClient) download(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "myai-ratings/1.0")
	req.Header.Set("Accept", "text/html")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return ParseLeaderboard(string(body)), nil
}

// restore loads the persisted snapshot once, before the first fetch.
func (c *RatingsClient) restore(ctx context.Context) {
	if c.store == nil {
		return
	}
	c.loadOnce.Do(func() {
		raw, err := c.store.Get(ctx, ratingsSnapshotKey)
		if err != nil {
			if !kv.IsNotFound(err) {
				c.logger.Warn("load ratings snapshot", zap.Error(err))
			}
			return
		}
		var snap ratingsSnapshot
		if err := json.Unmarshal(raw, &snap); err != nil {
			c.logger.Warn("decode ratings snapshot", zap.Error(err))
			return
		}

		c.mu.Lock()
		defer c.mu.Unlock()
		if !c.attempted.IsZero() {
			return
		}
		if snap.Scores == nil {
			snap.Scores = map[string]float64{}
		}
		c.scores, c.attempted, c.ok = snap.Scores, snap.FetchedAt, snap.OK
	})
}

func (c *RatingsClient) persist(ctx context.Context, snap ratingsSnapshot) {
	if c.store == nil {
		return
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return
	}
	if err := c.store.Set(ctx, ratingsSnapshotKey, raw); err != nil {
		c.logger.Warn("save ratings snapshot", zap.Error(err))
	}
}
