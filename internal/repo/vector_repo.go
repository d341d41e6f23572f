package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/didi/gendry/builder"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"ragchat/internal/model"
	"ragchat/internal/pkg/dbutil"
	appErr "ragchat/internal/pkg/errors"
)

const (
	collectionTable = "rag_collection"
	embeddingTable  = "rag_embedding"
)

// VectorRepo persists embedded chunks in Postgres/pgvector and serves
// cosine top-k search. Schema and collection rows are auto-created on the
// first upsert, using the dimensionality of the vectors being written.
// Re-ingesting the same document duplicates rows; there is no dedup.
type VectorRepo struct {
	db *sql.DB
}

func NewVectorRepo(db *sql.DB) *VectorRepo {
	return &VectorRepo{db: db}
}

func (r *VectorRepo) Upsert(ctx context.Context, collection string, items []*model.EmbeddedChunk) error {
	if len(items) == 0 {
		return nil
	}
	if err := r.ensureSchema(ctx, len(items[0].Vector)); err != nil {
		return fmt.Errorf("ensure vector schema: %w", err)
	}
	collectionID, err := r.ensureCollection(ctx, collection)
	if err != nil {
		return err
	}
	rows := make([]map[string]interface{}, 0, len(items))
	for _, item := range items {
		meta, err := json.Marshal(map[string]interface{}{
			"chunk_index":   item.Chunk.Index,
			"source_offset": item.Chunk.SourceOffset,
		})
		if err != nil {
			return fmt.Errorf("encode chunk metadata: %w", err)
		}
		rows = append(rows, map[string]interface{}{
			"id":            uuid.NewString(),
			"collection_id": collectionID,
			"embedding":     pgvector.NewVector(item.Vector),
			"document":      item.Chunk.Text,
			"cmetadata":     meta,
		})
	}
	sqlStr, args, err := builder.BuildInsert(embeddingTable, rows)
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("insert chunks: %w", err)
	}
	logutil.GetLogger(ctx).Debug("chunks stored",
		zap.String("collection", collection),
		zap.Int("count", len(items)),
	)
	return nil
}

func (r *VectorRepo) Search(ctx context.Context, collection string, vector []float32, k int) ([]model.ScoredChunk, error) {
	collectionID, err := r.lookupCollection(ctx, collection)
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT document, 1 - (embedding <=> $1) AS score
		FROM rag_embedding
		WHERE collection_id = $2
		ORDER BY embedding <=> $1
		LIMIT $3
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(vector), collectionID, k)
	if err != nil {
		if dbutil.IsUndefinedTable(err) {
			return nil, fmt.Errorf("%q: %w", collection, appErr.ErrCollectionNotFound)
		}
		return nil, fmt.Errorf("search chunks: %w", err)
	}
	defer rows.Close()
	var results []model.ScoredChunk
	for rows.Next() {
		var text string
		var score float64
		if err := rows.Scan(&text, &score); err != nil {
			return nil, err
		}
		results = append(results, model.ScoredChunk{Text: text, Score: float32(score)})
	}
	return results, rows.Err()
}

func (r *VectorRepo) ensureSchema(ctx context.Context, dimension int) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS rag_collection (
			id uuid PRIMARY KEY,
			name text NOT NULL UNIQUE
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS rag_embedding (
			id uuid PRIMARY KEY,
			collection_id uuid NOT NULL REFERENCES rag_collection (id),
			embedding vector(%d) NOT NULL,
			document text NOT NULL,
			cmetadata jsonb
		)`, dimension),
	}
	for _, stmt := range statements {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func (r *VectorRepo) ensureCollection(ctx context.Context, name string) (string, error) {
	id, err := r.lookupCollection(ctx, name)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, appErr.ErrCollectionNotFound) {
		return "", err
	}
	data := map[string]interface{}{
		"id":   uuid.NewString(),
		"name": name,
	}
	sqlStr, args, err := builder.BuildInsert(collectionTable, []map[string]interface{}{data})
	if err != nil {
		return "", fmt.Errorf("build collection insert: %w", err)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	if _, err := r.db.ExecContext(ctx, sqlStr, args...); err != nil {
		// Lost a create race; the winner's row is the one to use.
		if dbutil.IsConflict(err) {
			return r.lookupCollection(ctx, name)
		}
		return "", fmt.Errorf("create collection %q: %w", name, err)
	}
	logutil.GetLogger(ctx).Info("collection created", zap.String("collection", name))
	return data["id"].(string), nil
}

func (r *VectorRepo) lookupCollection(ctx context.Context, name string) (string, error) {
	where := map[string]interface{}{
		"name": name,
	}
	sqlStr, args, err := builder.BuildSelect(collectionTable, where, []string{"id"})
	if err != nil {
		return "", fmt.Errorf("build collection select: %w", err)
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	var id string
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&id); err != nil {
		if err == sql.ErrNoRows || dbutil.IsUndefinedTable(err) {
			return "", fmt.Errorf("%q: %w", name, appErr.ErrCollectionNotFound)
		}
		return "", fmt.Errorf("lookup collection %q: %w", name, err)
	}
	return id, nil
}
