package service

import (
	"context"

	"ragchat/internal/model"
)

// VectorStore is what the pipeline needs from the vector database:
// write embedded chunks and run top-k similarity search. Implemented by
// repo.VectorRepo; tests inject an in-memory double.
type VectorStore interface {
	Upsert(ctx context.Context, collection string, items []*model.EmbeddedChunk) error
	Search(ctx context.Context, collection string, vector []float32, k int) ([]model.ScoredChunk, error)
}
