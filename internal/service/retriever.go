package service

import (
	"context"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"ragchat/internal/ai"
	"ragchat/internal/model"
)

// Retriever embeds a query and fetches the k most similar chunks from the
// store. It holds no state of its own; results depend only on the inputs
// and on the store contents at call time.
type Retriever struct {
	embedder ai.IEmbedder
	store    VectorStore
}

func NewRetriever(embedder ai.IEmbedder, store VectorStore) *Retriever {
	return &Retriever{embedder: embedder, store: store}
}

// Retrieve returns the ranked context for one query. An empty collection
// yields an empty context, not an error.
func (r *Retriever) Retrieve(ctx context.Context, query model.Query, collection string, k int) (model.RetrievedContext, error) {
	vector, err := r.embedder.EmbedOne(ctx, query.Text)
	if err != nil {
		return model.RetrievedContext{}, err
	}
	hits, err := r.store.Search(ctx, collection, vector, k)
	if err != nil {
		return model.RetrievedContext{}, err
	}
	logutil.GetLogger(ctx).Debug("context retrieved",
		zap.String("collection", collection),
		zap.Int("k", k),
		zap.Int("hits", len(hits)),
	)
	return model.RetrievedContext{Chunks: hits, K: k}, nil
}
