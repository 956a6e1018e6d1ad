package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidQuery signals a request without a usable query text.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreUnavailable signals a vector search failure that survived retries.
	ErrVectorStoreUnavailable = errors.New("vector store unavailable")
	// ErrEmbeddingRejected signals a provider response that a retry cannot change, such as a
	// 4xx other than 429. It matches ErrEmbeddingProviderError too.
	ErrEmbeddingRejected = fmt.Errorf("%w: request rejected", ErrEmbeddingProviderError)
	// ErrInvalidSearch signals a vector search request the store refuses to run.
	ErrInvalidSearch = errors.New("invalid search request")
	// ErrDirectoryUnavailable signals a failed directory fetch. It is logged and degraded, never returned to clients.
	ErrDirectoryUnavailable = errors.New("directory unavailable")
	// ErrInvalidDataset signals a malformed ingestion file.
	ErrInvalidDataset = errors.New("invalid dataset")
)
