package errors

import "errors"

var (
	ErrConfiguration      = errors.New("invalid configuration")
	ErrNoExtractableText  = errors.New("no extractable text")
	ErrEmbeddingProvider  = errors.New("embedding provider failure")
	ErrAnsweringProvider  = errors.New("answering provider failure")
	ErrCollectionNotFound = errors.New("collection not found")
)

func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

func IsCollectionNotFound(err error) bool {
	return errors.Is(err, ErrCollectionNotFound)
}
