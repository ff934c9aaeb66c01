package redis

import (
	"context"
	"fmt"
	"hash/crc32"
	"hash/fnv"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/redis/go-redis/v9"
)

const (
	KeyPostBloom        = "bloom:post:ids"
	keyPostBloomRebuild = "bloom:post:ids:rebuild"

	defaultHashCount = 3
)

type redisBloomRepo struct {
	client       *redis.Client
	BloomBitSize uint64
	HashCount    int
}

var _ domain.BloomRepository = (*redisBloomRepo)(nil)

func NewRedisBloomRepo(client *redis.Client, bitSize uint64) *redisBloomRepo {
	return &redisBloomRepo{
		client:       client,
		BloomBitSize: bitSize,
		HashCount:    defaultHashCount,
	}
}

func (r *redisBloomRepo) Add(ctx context.Context, id int64) error {
	pipe := r.client.Pipeline()
	r.setBits(ctx, pipe, KeyPostBloom, id)
	_, err := pipe.Exec(ctx)
	return err
}

// Exists reports false only when the filter key is present and one of the
// id's bits is clear. A missing key (never built, evicted, flushed) cannot
// rule anything out, so it reports true and the caller asks the database.
func (r *redisBloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	pipe := r.client.Pipeline()
	keyExists := pipe.Exists(ctx, KeyPostBloom)
	bits := make([]*redis.IntCmd, 0, r.HashCount)
	for _, offset := range r.getOffset(id) {
		bits = append(bits, pipe.GetBit(ctx, KeyPostBloom, int64(offset)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}

	if keyExists.Val() == 0 {
		return true, nil
	}
	for _, cmd := range bits {
		if cmd.Val() == 0 {
			return false, nil
		}
	}

	return true, nil
}

func (r *redisBloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	pipe := r.client.Pipeline()
	for _, id := range ids {
		r.setBits(ctx, pipe, KeyPostBloom, id)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Rebuild fills a fresh filter page by page and swaps it in with RENAME, so
// ids of deleted posts drop out. fetch returns ids after cursor in ascending
// order and an empty page at the end.
//
// Posts stored while the fresh filter was being filled may have added their
// ids to the old key only. After the swap, ids past the last cursor are
// fetched again and added to the live key.
func (r *redisBloomRepo) Rebuild(ctx context.Context, fetch func(ctx context.Context, cursor int64) ([]int64, error)) error {
	if err := r.client.Del(ctx, keyPostBloomRebuild).Err(); err != nil {
		return err
	}

	var cursor int64
	total := 0
	for {
		ids, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}

		pipe := r.client.Pipeline()
		for _, id := range ids {
			r.setBits(ctx, pipe, keyPostBloomRebuild, id)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}

		total += len(ids)
		cursor = ids[len(ids)-1]
	}

	var err error
	if total == 0 {
		err = r.client.Del(ctx, KeyPostBloom).Err()
	} else {
		err = r.client.Rename(ctx, keyPostBloomRebuild, KeyPostBloom).Err()
	}
	if err != nil {
		return err
	}

	for {
		ids, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		if err := r.BulkAdd(ctx, ids); err != nil {
			return err
		}
		cursor = ids[len(ids)-1]
	}
}

func (r *redisBloomRepo) setBits(ctx context.Context, pipe redis.Pipeliner, key string, id int64) {
	for _, offset := range r.getOffset(id) {
		pipe.SetBit(ctx, key, int64(offset), 1)
	}
}

// getOffset derives HashCount bit positions from two base hashes
// (CRC32 and FNV-64) by double hashing: h1 + i*h2 mod m.
func (r *redisBloomRepo) getOffset(id int64) []uint64 {
	data := fmt.Appendf(nil, "%d", id)

	h1 := uint64(crc32.ChecksumIEEE(data))
	h := fnv.New64()
	h.Write(data)
	h2 := h.Sum64() | 1

	offsets := make([]uint64, r.HashCount)
	for i := range offsets {
		offsets[i] = (h1 + uint64(i)*h2) % r.BloomBitSize
	}
	return offsets
}
