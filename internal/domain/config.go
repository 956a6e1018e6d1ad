package domain

// Embedding defaults, matching OpenAI text-embedding-3-small.
const (
	DefaultEmbeddingModel = "text-embedding-3-small"
	DefaultVectorDim      = 1536
)
