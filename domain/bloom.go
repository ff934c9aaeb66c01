package domain

import "context"

type BloomRepository interface {
	// Add puts id into the filter
	Add(ctx context.Context, id int64) error

	// Exists reports whether id may exist.
	// true: maybe present, check the store. Also returned when the filter
	// has not been built.
	// false: definitely absent
	Exists(ctx context.Context, id int64) (bool, error)

	// BulkAdd adds many ids in one round trip
	BulkAdd(ctx context.Context, ids []int64) error

	// Rebuild replaces the filter with the ids produced by paging fetch
	// until it returns an empty page, then adds ids stored during the swap.
	Rebuild(ctx context.Context, fetch func(ctx context.Context, cursor int64) ([]int64, error)) error
}
