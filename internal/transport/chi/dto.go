package chi

import (
	"github.com/kailas-cloud/profrag/internal/domain/fuzzy"
	domret "github.com/kailas-cloud/profrag/internal/domain/retrieval"
	healthuc "github.com/kailas-cloud/profrag/internal/usecase/health"
)

// ErrorCode is a machine-readable error classification.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeValidationFailed       ErrorCode = "validation_failed"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeVectorStoreUnavailable ErrorCode = "vector_store_unavailable"
	ErrorCodeRequestCancelled       ErrorCode = "request_cancelled"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the JSON body of every non-2xx API response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// RetrieveRequest is the body of POST /v1/retrieve.
type RetrieveRequest struct {
	Query string `json:"query"`
}

// CandidateResponse is one fuzzy-matched professor id.
type CandidateResponse struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// RetrieveResponse is the body of a successful POST /v1/retrieve.
type RetrieveResponse struct {
	Query         string              `json:"query"`
	Patterns      []string            `json:"patterns"`
	Candidates    []CandidateResponse `json:"candidates"`
	Suggestions   []string            `json:"suggestions"`
	Records       []domret.Record     `json:"records"`
	Empty         bool                `json:"empty"`
	Filtered      bool                `json:"filtered"`
	FellBack      bool                `json:"fell_back"`
	PromptContext string              `json:"prompt_context"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// NewRetrieveResponse converts a resolution into its JSON representation.
func NewRetrieveResponse(res domret.Resolution) RetrieveResponse {
	return RetrieveResponse{
		Query:         res.Query,
		Patterns:      nonNil(res.Patterns),
		Candidates:    candidatesResponse(res.Candidates),
		Suggestions:   nonNil(res.Suggestions),
		Records:       nonNil(res.Context.Records),
		Empty:         res.Context.Empty(),
		Filtered:      res.Context.Filtered,
		FellBack:      res.Context.FellBack,
		PromptContext: res.Context.Prompt(),
	}
}

func candidatesResponse(cc []fuzzy.Candidate) []CandidateResponse {
	out := make([]CandidateResponse, len(cc))
	for i, c := range cc {
		out[i] = CandidateResponse{ID: c.ID, Score: c.Score}
	}
	return out
}

// nonNil keeps empty lists as [] instead of null in JSON.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
