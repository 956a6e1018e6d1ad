package redis

import (
	"context"
	"fmt"
	"slices"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/profrag/internal/db"
)

// HSetMulti writes professor or review hashes in one pipelined round-trip. Fields are sent
// in sorted order. Every reply is inspected; the error names the first failed key and how
// many writes failed in total.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if len(items) == 0 {
		return nil
	}

	cmds := make([]rueidis.Completed, 0, len(items))
	for _, item := range items {
		if item.Key == "" || len(item.Fields) == 0 {
			return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("%w: hash needs a key and fields", db.ErrInvalidQuery)}
		}

		names := make([]string, 0, len(item.Fields))
		for k := range item.Fields {
			names = append(names, k)
		}
		slices.Sort(names)

		cmd := s.b().Hset().Key(item.Key).FieldValue()
		for _, k := range names {
			cmd = cmd.FieldValue(k, item.Fields[k])
		}
		cmds = append(cmds, cmd.Build())
	}

	var (
		failed   int
		firstKey string
		firstErr error
	)
	for i, res := range s.client.DoMulti(ctx, cmds...) {
		if err := res.Error(); err != nil {
			if failed == 0 {
				firstKey, firstErr = items[i].Key, err
			}
			failed++
		}
	}
	if failed > 0 {
		return &db.Error{Op: db.OpHSet, Err: fmt.Errorf("%d of %d writes failed, first key %s: %w",
			failed, len(items), firstKey, firstErr)}
	}
	return nil
}
