package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"ragchat/internal/ai"
	"ragchat/internal/chunker"
	"ragchat/internal/model"
	appErr "ragchat/internal/pkg/errors"
)

// IngestService runs the linear ingestion pass: chunk the extracted text,
// embed in batches, write to the store. One writer, run to completion
// before any query.
type IngestService struct {
	embedder     ai.IEmbedder
	store        VectorStore
	collection   string
	chunkSize    int
	chunkOverlap int
	batchSize    int
}

func NewIngestService(embedder ai.IEmbedder, store VectorStore, collection string, chunkSize, chunkOverlap, batchSize int) *IngestService {
	return &IngestService{
		embedder:     embedder,
		store:        store,
		collection:   collection,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		batchSize:    batchSize,
	}
}

// IngestText chunks and stores the document text, returning the number of
// chunks written. Blank text fails with ErrNoExtractableText.
func (s *IngestService) IngestText(ctx context.Context, text string) (int, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("collection", s.collection))
	if strings.TrimSpace(text) == "" {
		return 0, appErr.ErrNoExtractableText
	}
	chunks, err := chunker.Split(text, s.chunkSize, s.chunkOverlap)
	if err != nil {
		return 0, err
	}
	if len(chunks) == 0 {
		return 0, appErr.ErrNoExtractableText
	}
	logger.Info("document chunked",
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", s.chunkSize),
		zap.Int("chunk_overlap", s.chunkOverlap),
	)

	batch := s.batchSize
	if batch <= 0 {
		batch = len(chunks)
	}
	written := 0
	for start := 0; start < len(chunks); start += batch {
		end := start + batch
		if end > len(chunks) {
			end = len(chunks)
		}
		part := chunks[start:end]
		texts := make([]string, 0, len(part))
		for _, chunk := range part {
			texts = append(texts, chunk.Text)
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return written, err
		}
		items := make([]*model.EmbeddedChunk, 0, len(part))
		for i, chunk := range part {
			items = append(items, &model.EmbeddedChunk{
				Chunk:      chunk,
				Vector:     vectors[i],
				Collection: s.collection,
			})
		}
		if err := s.store.Upsert(ctx, s.collection, items); err != nil {
			return written, fmt.Errorf("store chunks: %w", err)
		}
		written += len(items)
		logger.Debug("batch stored", zap.Int("batch", len(items)), zap.Int("written", written))
	}
	logger.Info("ingestion completed", zap.Int("chunks_written", written))
	return written, nil
}
