package model

// Chunk is a bounded contiguous slice of the source document used as the
// retrieval unit. SourceOffset and Index are rune-based and assigned once
// by the chunker.
type Chunk struct {
	Text         string `json:"text"`
	SourceOffset int    `json:"source_offset"`
	Index        int    `json:"index"`
}

// EmbeddedChunk is a chunk paired with its embedding vector, written once
// to the vector store during ingestion.
type EmbeddedChunk struct {
	Chunk      Chunk     `json:"chunk"`
	Vector     []float32 `json:"vector"`
	Collection string    `json:"collection"`
}

// ScoredChunk is a search hit: chunk text plus its similarity score.
type ScoredChunk struct {
	Text  string  `json:"text"`
	Score float32 `json:"score"`
}

// RetrievedContext holds the top-k hits for one query, ordered by
// descending similarity.
type RetrievedContext struct {
	Chunks []ScoredChunk `json:"chunks"`
	K      int           `json:"k"`
}

// Query is one user question, created per turn.
type Query struct {
	Text string `json:"text"`
}

// Answer is the raw text returned by the answering model, or the fixed
// abstention string.
type Answer struct {
	Text string `json:"text"`
}
