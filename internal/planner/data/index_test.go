package data

import (
	"context"
	"errors"
	"strings"
	"testing"

	ctypes "github.com/lk2023060901/myai/internal/catalog/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// keywordEmbedder embeds texts on three axes: video, image, text.
type keywordEmbedder struct {
	err   error
	calls int
}

func (e *keywordEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	v, err := e.BatchEmbed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return v[0], nil
}

func (e *keywordEmbedder) BatchEmbed(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		text = strings.ToLower(text)
		v := []float32{0.01, 0.01, 0.01}
		if strings.Contains(text, "video") {
			v[0] = 1
		}
		if strings.Contains(text, "image") {
			v[1] = 1
		}
		if strings.Contains(text, "text") {
			v[2] = 1
		}
		out[i] = v
	}
	return out, nil
}

func (e *keywordEmbedder) Model() string { return "keyword" }

func indexTools() []*ctypes.Tool {
	return []*ctypes.Tool{
		{Name: "Runway", Tags: []string{"cap:video-generate", " CAP:Video-Edit "}},
		{Name: "Midjourney", Tags: []string{"cap:image-generate"}},
		{Name: "ChatGPT", Tags: []string{"cap:text-explain", ""}},
	}
}

func TestToolIndex_Lookups(t *testing.T) {
	x := NewToolIndex(nil, nil)
	assert.False(t, x.Ready())

	require.NoError(t, x.Load(context.Background(), indexTools()))
	assert.True(t, x.Ready())

	require.Len(t, x.ByTag("cap:video-edit"), 1)
	assert.Equal(t, "Runway", x.ByTag("CAP:VIDEO-EDIT")[0].Name)
	assert.Empty(t, x.ByTag("cap:unknown"))
	assert.Len(t, x.All(), 3)
	assert.Equal(t, "Midjourney", x.Find("Midjourney").Name)
	assert.Nil(t, x.Find("nope"))
}

func TestToolIndex_SemanticLexical(t *testing.T) {
	x := NewToolIndex(nil, nil)
	require.NoError(t, x.Load(context.Background(), indexTools()))

	got, err := x.Semantic(context.Background(), "image-generate", 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Midjourney", got[0].Name)
}

func TestToolIndex_SemanticEmbedded(t *testing.T) {
	emb := &keywordEmbedder{}
	x := NewToolIndex(emb, nil)
	require.NoError(t, x.Load(context.Background(), indexTools()))
	assert.Equal(t, 1, emb.calls)

	got, err := x.Semantic(context.Background(), "Edit the video", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Runway", got[0].Name)

	got, err = x.Semantic(context.Background(), "Explain the text", 3)
	require.NoError(t, err)
	assert.Equal(t, "ChatGPT", got[0].Name)
}

func TestToolIndex_EmbeddingFailureFallsBack(t *testing.T) {
	x := NewToolIndex(&keywordEmbedder{err: errors.New("quota")}, nil)
	require.NoError(t, x.Load(context.Background(), indexTools()))
	assert.True(t, x.Ready())

	got, err := x.Semantic(context.Background(), "video-generate", 1)
	require.NoError(t, err)
	assert.Equal(t, "Runway", got[0].Name)
}

func TestToolIndex_Empty(t *testing.T) {
	x := NewToolIndex(&keywordEmbedder{}, nil)
	require.NoError(t, x.Load(context.Background(), nil))
	got, err := x.Semantic(context.Background(), "anything", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
