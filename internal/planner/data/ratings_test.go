package data

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lk2023060901/myai/internal/conf"
	"github.com/lk2023060901/myai/internal/pkg/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const leaderboardHTML = `<html><head>
<script id="__NEXT_DATA__" type="application/json">
{"props":{"pageProps":{"models":[
  {"name":"GPT-4o","score":87.5},
  {"name":"GPT-4","score":70},
  {"name":"Claude 3.5","score":0.9},
  {"model":"Llama","overall":120},
  {"name":"Unscored"}
]}}}
</script></head><body></body></html>`

func TestParseLeaderboard(t *testing.T) {
	t.Run("next data", func(t *testing.T) {
		got := ParseLeaderboard(leaderboardHTML)
		assert.Len(t, got, 3)
		assert.InDelta(t, 0.875, got["ChatGPT"], 1e-9)
		assert.InDelta(t, 0.9, got["Claude"], 1e-9)
		assert.InDelta(t, 1.0, got["Groq"], 1e-9)
	})

	t.Run("html fallback", func(t *testing.T) {
		got := ParseLeaderboard(`<div data-x='{"model":"Gemini 1.5","rating":91}'></div>`)
		assert.InDelta(t, 0.91, got["Gemini"], 1e-9)
	})

	t.Run("nothing", func(t *testing.T) {
		assert.Empty(t, ParseLeaderboard("<html></html>"))
	})
}

func TestToolName(t *testing.T) {
	assert.Equal(t, "ChatGPT", ToolName(" GPT-4o "))
	assert.Equal(t, "Mistral", ToolName("Mistral"))
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newRatingsClient(t *testing.T, handler http.HandlerFunc, store kv.Store) (*RatingsClient, *clock) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewRatingsClient(conf.RatingsConfig{
		Enabled:    true,
		URL:        srv.URL,
		TTL:        6 * time.Hour,
		RetryAfter: 10 * time.Minute,
		Timeout:    time.Second,
	}, store, nil, nil)
	clk := &clock{t: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
	c.now = clk.now
	return c, clk
}

func TestRatingsClient_Refresh(t *testing.T) {
	c, clk := newRatingsClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(leaderboardHTML))
	}, nil)

	assert.True(t, c.due())

	n, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	h := c.Health(context.Background())
	assert.True(t, h.OK)
	assert.Equal(t, "live", h.Source)
	assert.Equal(t, 3, h.Count)
	assert.True(t, h.Enabled)
	require.NotNil(t, h.LastRefresh)
	assert.Equal(t, clk.t, *h.LastRefresh)
	require.NotNil(t, h.AgeSeconds)
	assert.Zero(t, *h.AgeSeconds)

	clk.t = clk.t.Add(time.Hour)
	assert.False(t, c.due())
	assert.InDelta(t, 0.9, c.Snapshot(context.Background())["Claude"], 1e-9)
	assert.Equal(t, int64(3600), *c.Health(context.Background()).AgeSeconds)

	clk.t = clk.t.Add(6 * time.Hour)
	assert.True(t, c.due())
}

func TestRatingsClient_Failure(t *testing.T) {
	c, clk := newRatingsClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}, nil)

	_, err := c.Refresh(context.Background())
	require.Error(t, err)

	h := c.Health(context.Background())
	assert.False(t, h.OK)
	assert.Equal(t, "fallback", h.Source)
	assert.Zero(t, h.Count)

	clk.t = clk.t.Add(5 * time.Minute)
	assert.False(t, c.due())
	clk.t = clk.t.Add(5 * time.Minute)
	assert.True(t, c.due())
}

func TestRatingsClient_EmptyPage(t *testing.T) {
	c, _ := newRatingsClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html></html>"))
	}, nil)

	_, err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrNoRatings)
}

func TestRatingsClient_Disabled(t *testing.T) {
	c := NewRatingsClient(conf.RatingsConfig{Enabled: false}, nil, nil, nil)

	assert.False(t, c.due())
	assert.Empty(t, c.Snapshot(context.Background()))

	_, err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrRatingsDisabled)

	h := c.Health(context.Background())
	assert.False(t, h.Enabled)
	assert.Equal(t, "fallback", h.Source)
}

func TestRatingsClient_SnapshotPersisted(t *testing.T) {
	store := kv.NewMemory()
	c, _ := newRatingsClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(leaderboardHTML))
	}, store)

	_, err := c.Refresh(context.Background())
	require.NoError(t, err)

	restored := NewRatingsClient(conf.RatingsConfig{Enabled: false}, store, nil, nil)
	snap := restored.Snapshot(context.Background())
	assert.InDelta(t, 0.875, snap["ChatGPT"], 1e-9)

	h := restored.Health(context.Background())
	assert.Equal(t, "live", h.Source)
	assert.Equal(t, 3, h.Count)
}
