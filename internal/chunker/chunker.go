package chunker

import (
	"fmt"

	"ragchat/internal/model"
	appErr "ragchat/internal/pkg/errors"
)

// Split cuts text into chunks of at most size runes, each chunk repeating
// the last overlap runes of the previous one. Splitting is pure rune-offset
// slicing: no whitespace or sentence awareness, so the same input always
// yields the same chunk sequence.
func Split(text string, size int, overlap int) ([]model.Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", appErr.ErrConfiguration, size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("%w: chunk overlap must satisfy 0 <= overlap < size, got overlap=%d size=%d", appErr.ErrConfiguration, overlap, size)
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil, nil
	}
	step := size - overlap
	var chunks []model.Chunk
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, model.Chunk{
			Text:         string(runes[start:end]),
			SourceOffset: start,
			Index:        len(chunks),
		})
		// A chunk that reaches the end of the text is final; advancing
		// further would only re-emit part of its tail.
		if end == len(runes) {
			break
		}
	}
	return chunks, nil
}
