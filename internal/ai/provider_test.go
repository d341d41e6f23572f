package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	appErr "ragchat/internal/pkg/errors"
)

type fakeEmbedProvider struct {
	err     error
	vectors func(texts []string) [][]float32
}

func (p *fakeEmbedProvider) Name() string { return "fake" }

func (p *fakeEmbedProvider) Embed(ctx context.Context, model string, texts []string) ([][]float32, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.vectors(texts), nil
}

type fakeChatProvider struct {
	err  error
	text string
}

func (p *fakeChatProvider) Name() string { return "fake" }

func (p *fakeChatProvider) Generate(ctx context.Context, model string, prompt string) (string, error) {
	if p.err != nil {
		return "", p.err
	}
	return p.text, nil
}

func TestNewProviderUnknownName(t *testing.T) {
	_, err := NewEmbedProvider("does-not-exist", nil)
	require.ErrorIs(t, err, appErr.ErrConfiguration)

	_, err = NewChatProvider("does-not-exist", nil)
	require.ErrorIs(t, err, appErr.ErrConfiguration)

	_, err = NewChatProvider("", nil)
	require.ErrorIs(t, err, appErr.ErrConfiguration)
}

func TestBuiltinProvidersRegistered(t *testing.T) {
	for _, name := range []string{"openai", "gemini"} {
		embed, err := NewEmbedProvider(name, map[string]string{"api_key": "k"})
		require.NoError(t, err)
		require.Equal(t, name, embed.Name())

		chat, err := NewChatProvider(name, map[string]string{"api_key": "k"})
		require.NoError(t, err)
		require.Equal(t, name, chat.Name())
	}
}

func TestEmbedderPreservesInputOrder(t *testing.T) {
	provider := &fakeEmbedProvider{vectors: func(texts []string) [][]float32 {
		out := make([][]float32, 0, len(texts))
		for _, text := range texts {
			out = append(out, []float32{float32(len(text))})
		}
		return out
	}}
	embedder := NewEmbedder(provider, "m", 0)

	vectors, err := embedder.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})
	require.NoError(t, err)
	require.Equal(t, [][]float32{{1}, {2}, {3}}, vectors)

	one, err := embedder.EmbedOne(context.Background(), "dddd")
	require.NoError(t, err)
	require.Equal(t, []float32{4}, one)
}

func TestEmbedderWrapsProviderFailure(t *testing.T) {
	embedder := NewEmbedder(&fakeEmbedProvider{err: errors.New("rate limited")}, "m", 0)

	_, err := embedder.EmbedBatch(context.Background(), []string{"texto"})
	require.ErrorIs(t, err, appErr.ErrEmbeddingProvider)
}

func TestEmbedderRejectsCountMismatch(t *testing.T) {
	provider := &fakeEmbedProvider{vectors: func(texts []string) [][]float32 {
		return [][]float32{{1}}
	}}
	embedder := NewEmbedder(provider, "m", 0)

	_, err := embedder.EmbedBatch(context.Background(), []string{"a", "b"})
	require.ErrorIs(t, err, appErr.ErrEmbeddingProvider)
}

func TestGeneratorWrapsFailureAndEmptyResponse(t *testing.T) {
	failing := NewGenerator(&fakeChatProvider{err: fmt.Errorf("auth failed")}, "m", 0)
	_, err := failing.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, appErr.ErrAnsweringProvider)

	empty := NewGenerator(&fakeChatProvider{text: "   "}, "m", 0)
	_, err = empty.Generate(context.Background(), "prompt")
	require.ErrorIs(t, err, appErr.ErrAnsweringProvider)
}

func TestGeneratorReturnsRawText(t *testing.T) {
	gen := NewGenerator(&fakeChatProvider{text: "resposta literal"}, "m", 0)
	text, err := gen.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	require.Equal(t, "resposta literal", text)
}
