package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/logger"
	"github.com/lk2023060901/myai/internal/pkg/redis"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Embedder turns texts into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)
	Model() string
}

// OpenAIEmbedder calls an OpenAI-compatible embeddings endpoint.
type OpenAIEmbedder struct {
	client *openai.Client
	model  string
	logger *logger.Logger
}

// NewOpenAIEmbedder returns nil when no API key is configured; the tool
// index then ranks semantically by lexical similarity.
func NewOpenAIEmbedder(cfg conf.EmbeddingConfig, log *logger.Logger) *OpenAIEmbedder {
	if cfg.APIKey == "" {
		return nil
	}
	if log == nil {
		log = logger.L()
	}
	if cfg.Model == "" {
		cfg.Model = string(openai.SmallEmbedding3)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	log.Info("openai embedder created", zap.String("model", cfg.Model))
	return &OpenAIEmbedder{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: log.Named("embedder"),
	}
}

func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("no embedding generated")
	}
	return vecs[0], nil
}

func (e *OpenAIEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(resp.Data))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embeddings: index %d out of range", d.Index)
		}
		out[d.Index] = d.Embedding
	}

	e.logger.Debug("embeddings created",
		zap.Int("count", len(out)),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return out, nil
}

func (e *OpenAIEmbedder) Model() string { return e.model }

// CacheEmbedder memoizes vectors in redis keyed by model and text hash.
type CacheEmbedder struct {
	embedder Embedder
	cache    *redis.Client
	ttl      time.Duration
	prefix   string
	logger   *logger.Logger
}

func NewCacheEmbedder(embedder Embedder, cache *redis.Client, ttl time.Duration, log *logger.Logger) *CacheEmbedder {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if log == nil {
		log = logger.L()
	}
	return &CacheEmbedder{
		embedder: embedder,
		cache:    cache,
		ttl:      ttl,
		prefix:   "planner:embedding:",
		logger:   log.Named("embedder"),
	}
}

func (e *CacheEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (e *CacheEmbedder) BatchEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	results := make([][]float32, len(texts))
	var missing []int
	for i, text := range texts {
		if v, err := e.get(ctx, e.cacheKey(text)); err == nil {
			results[i] = v
			continue
		}
		missing = append(missing, i)
	}
	if len(missing) == 0 {
		return results, nil
	}

	missingTexts := make([]string, len(missing))
	for i, idx := range missing {
		missingTexts[i] = texts[idx]
	}
	vecs, err := e.embedder.BatchEmbed(ctx, missingTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, fmt.Errorf("embeddings: got %d vectors for %d texts", len(vecs), len(missing))
	}

	for i, idx := range missing {
		results[idx] = vecs[i]
		key := e.cacheKey(missingTexts[i])
		if err := e.set(ctx, key, vecs[i]); err != nil {
			e.logger.Warn("failed to cache embedding", zap.String("cache_key", key), zap.Error(err))
		}
	}

	e.logger.Debug("batch embedding cache stats",
		zap.Int("total", len(texts)),
		zap.Int("cache_misses", len(missing)))
	return results, nil
}

func (e *CacheEmbedder) Model() string { return e.embedder.Model() }

func (e *CacheEmbedder) cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%s%s:%s", e.prefix, e.Model(), hex.EncodeToString(sum[:]))
}

func (e *CacheEmbedder) get(ctx context.Context, key string) ([]float32, error) {
	raw, err := e.cache.GetBytes(ctx, key)
	if err != nil {
		return nil, err
	}
	var v []float32
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached embedding: %w", err)
	}
	return v, nil
}

func (e *CacheEmbedder) set(ctx context.Context, key string, v []float32) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal embedding: %w", err)
	}
	return e.cache.Set(ctx, key, raw, e.ttl)
}

// NewEmbedder builds the embedder stack from config: OpenAI, cached in
// redis when a client is given. It returns nil without an API key.
func NewEmbedder(cfg conf.EmbeddingConfig, cache *redis.Client, log *logger.Logger) Embedder {
	base := NewOpenAIEmbedder(cfg, log)
	if base == nil {
		return nil
	}
	if cache == nil {
		return base
	}
	return NewCacheEmbedder(base, cache, cfg.CacheTTL, log)
}
