package embedcache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type countingEmbedder struct {
	model      string
	oneCalls   int
	batchCalls int
}

func (c *countingEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	c.oneCalls++
	return []float32{float32(len(text)), 1}, nil
}

func (c *countingEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	c.batchCalls++
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, []float32{float32(len(text)), 1})
	}
	return out, nil
}

func (c *countingEmbedder) ModelName() string {
	return c.model
}

func TestEmbedOneHitsCacheOnRepeat(t *testing.T) {
	inner := &countingEmbedder{model: "text-embedding-3-small"}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	first, err := cached.EmbedOne(context.Background(), "qual o faturamento?")
	require.NoError(t, err)
	second, err := cached.EmbedOne(context.Background(), "qual o faturamento?")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.oneCalls)

	_, err = cached.EmbedOne(context.Background(), "outra pergunta")
	require.NoError(t, err)
	require.Equal(t, 2, inner.oneCalls)
}

func TestCachedVectorIsIsolatedFromCallerMutation(t *testing.T) {
	inner := &countingEmbedder{model: "m"}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	first, err := cached.EmbedOne(context.Background(), "pergunta")
	require.NoError(t, err)
	first[0] = -999

	second, err := cached.EmbedOne(context.Background(), "pergunta")
	require.NoError(t, err)
	require.NotEqual(t, float32(-999), second[0])
}

func TestEmbedBatchBypassesCache(t *testing.T) {
	inner := &countingEmbedder{model: "m"}
	cached := WrapLruCacheToEmbedder(inner, 16, time.Minute)

	for i := 0; i < 3; i++ {
		_, err := cached.EmbedBatch(context.Background(), []string{"a", "b"})
		require.NoError(t, err)
	}
	require.Equal(t, 3, inner.batchCalls)
	require.Zero(t, inner.oneCalls)
}

func TestWrapWithInvalidParamsReturnsInnerEmbedder(t *testing.T) {
	inner := &countingEmbedder{model: "m"}
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 0, time.Minute))
	require.Equal(t, inner, WrapLruCacheToEmbedder(inner, 16, 0))
	require.Nil(t, WrapLruCacheToEmbedder(nil, 16, time.Minute))
}
