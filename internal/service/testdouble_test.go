package service

import (
	"context"
	"hash/fnv"
	"math"
	"sort"
	"strings"

	"ragchat/internal/model"
)

const stubDimension = 32

// wordVector builds a deterministic bag-of-words vector so that texts
// sharing words get a higher cosine similarity.
func wordVector(text string) []float32 {
	vec := make([]float32, stubDimension)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,;:!?\"'()")
		if word == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%stubDimension]++
	}
	return vec
}

type stubEmbedder struct {
	batches [][]string
	err     error
}

func (s *stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.batches = append(s.batches, append([]string(nil), texts...))
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, wordVector(text))
	}
	return out, nil
}

func (s *stubEmbedder) EmbedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (s *stubEmbedder) ModelName() string {
	return "stub-embedder"
}

type memStore struct {
	items map[string][]*model.EmbeddedChunk
	err   error
}

func newMemStore() *memStore {
	return &memStore{items: map[string][]*model.EmbeddedChunk{}}
}

func (m *memStore) Upsert(ctx context.Context, collection string, items []*model.EmbeddedChunk) error {
	if m.err != nil {
		return m.err
	}
	m.items[collection] = append(m.items[collection], items...)
	return nil
}

func (m *memStore) Search(ctx context.Context, collection string, vector []float32, k int) ([]model.ScoredChunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	items := m.items[collection]
	results := make([]model.ScoredChunk, 0, len(items))
	for _, item := range items {
		results = append(results, model.ScoredChunk{
			Text:  item.Chunk.Text,
			Score: cosineSimilarity(vector, item.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if k > 0 && k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}

// scriptedGenerator delegates to fn and counts calls.
type scriptedGenerator struct {
	fn    func(prompt string) (string, error)
	calls int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	return g.fn(prompt)
}

// groundedStubGenerator mimics a model honoring the prompt rules: it
// answers with the context block only when the question shares a
// significant keyword with it, and abstains otherwise.
func groundedStubGenerator() *scriptedGenerator {
	return &scriptedGenerator{fn: func(prompt string) (string, error) {
		const questionMarker = "\n\nPERGUNTA:\n"
		const contextMarker = "\n\nCONTEXTO:\n"
		qAt := strings.LastIndex(prompt, questionMarker)
		cAt := strings.Index(prompt, contextMarker)
		if qAt < 0 || cAt < 0 {
			return AbstentionAnswer, nil
		}
		contextBlock := prompt[cAt+len(contextMarker) : qAt]
		question := strings.TrimSpace(prompt[qAt+len(questionMarker):])
		for _, word := range strings.Fields(strings.ToLower(question)) {
			word = strings.Trim(word, ".,;:!?\"'()")
			if len([]rune(word)) <= 4 {
				continue
			}
			if strings.Contains(strings.ToLower(contextBlock), word) {
				return strings.TrimSpace(contextBlock), nil
			}
		}
		return AbstentionAnswer, nil
	}}
}
