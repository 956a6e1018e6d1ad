// Package health aggregates readiness of the store, its indexes and the embedding provider.
package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a missing index or an unreachable embedding provider.
	Degraded Status = "degraded"
	// Unhealthy indicates the database is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckMissing indicates an index that has not been created yet.
	CheckMissing CheckResult = "missing"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

const checkTimeout = 3 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db        DBPinger
	indexes   IndexChecker
	names     []string
	embedding EmbeddingChecker
}

// New creates a Service. embedding can be nil.
func New(db DBPinger, embedding EmbeddingChecker) *Service {
	return &Service{db: db, embedding: embedding}
}

// WithIndexes adds existence checks for the named indexes.
func (s *Service) WithIndexes(checker IndexChecker, names ...string) *Service {
	s.indexes = checker
	s.names = names
	return s
}

// Check runs health checks against all components.
// Index checks are skipped while the database is down.
func (s *Service) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	checks := make(map[string]CheckResult)

	dbUp := s.db.Ping(ctx) == nil
	if dbUp {
		checks["database"] = CheckOK
	} else {
		checks["database"] = CheckError
	}

	if dbUp && s.indexes != nil {
		for _, name := range s.names {
			checks["index:"+name] = s.checkIndex(ctx, name)
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	if !dbUp {
		return Report{Status: Unhealthy, Checks: checks}
	}

	status := Healthy
	for _, v := range checks {
		if v != CheckOK {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) checkIndex(ctx context.Context, name string) CheckResult {
	ok, err := s.indexes.IndexExists(ctx, name)
	switch {
	case err != nil:
		return CheckError
	case !ok:
		return CheckMissing
	default:
		return CheckOK
	}
}
