package directory

import (
	"context"

	domdir "github.com/kailas-cloud/profrag/internal/domain/directory"
)

// Source pages through the raw professor directory.
type Source interface {
	FetchPage(ctx context.Context, token string) (domdir.Page, error)
}

// Cache holds the expanded directory. *cache.TTL[string, []domdir.Record] satisfies it.
type Cache interface {
	Get(key string) ([]domdir.Record, bool)
	Set(key string, value []domdir.Record)
}
