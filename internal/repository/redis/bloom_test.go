package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBitSize = 1 << 20

func TestGetOffset(t *testing.T) {
	client, _ := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	offsets := repo.getOffset(42)
	require.Len(t, offsets, defaultHashCount)
	for _, o := range offsets {
		assert.Less(t, o, uint64(testBitSize))
	}
	assert.Equal(t, offsets, repo.getOffset(42), "offsets must be deterministic")
	assert.NotEqual(t, offsets, repo.getOffset(43))
}

func TestRedisBloomRepo_Add(t *testing.T) {
	client, mock := redismock.NewClientMock()
	repo := NewRedisBloomRepo(client, testBitSize)

	for _, o := range repo.getOffset(7) {
		mock.ExpectSetBit(KeyPostBloom, int64(o), 1).SetVal(0)
	}

	require.NoError(t, repo.Add(context.Background(), 7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisBloomRepo_Exists(t *testing.T) {
	t.Run("all bits set", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)

		mock.ExpectExists(KeyPostBloom).SetVal(1)
		for _, o := range repo.getOffset(7) {
			mock.ExpectGetBit(KeyPostBloom, int64(o)).SetVal(1)
		}

		ok, err := repo.Exists(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one bit missing", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)

		mock.ExpectExists(KeyPostBloom).SetVal(1)
		for i, o := range repo.getOffset(7) {
			val := int64(1)
			if i == 1 {
				val = 0
			}
			mock.ExpectGetBit(KeyPostBloom, int64(o)).SetVal(val)
		}

		ok, err := repo.Exists(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("missing filter key cannot rule anything out", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)

		mock.ExpectExists(KeyPostBloom).SetVal(0)
		for _, o := range repo.getOffset(7) {
			mock.ExpectGetBit(KeyPostBloom, int64(o)).SetVal(0)
		}

		ok, err := repo.Exists(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("redis error", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)

		mock.ExpectExists(KeyPostBloom).SetVal(1)
		for _, o := range repo.getOffset(7) {
			mock.ExpectGetBit(KeyPostBloom, int64(o)).SetErr(errors.New("connection refused"))
		}

		_, err := repo.Exists(context.Background(), 7)
		assert.Error(t, err)
	})
}

// pagedFetch serves pages keyed by cursor. A cursor listed in later answers
// with its next page from the second call on, like a post committed while the
// rebuild was running.
func pagedFetch(pages, later map[int64][]int64) (func(context.Context, int64) ([]int64, error), *[]int64) {
	var cursors []int64
	seen := map[int64]int{}
	return func(ctx context.Context, cursor int64) ([]int64, error) {
		cursors = append(cursors, cursor)
		seen[cursor]++
		if ids, ok := later[cursor]; ok && seen[cursor] > 1 {
			return ids, nil
		}
		return pages[cursor], nil
	}, &cursors
}

func expectSetBits(mock redismock.ClientMock, repo *redisBloomRepo, key string, ids ...int64) {
	for _, id := range ids {
		for _, o := range repo.getOffset(id) {
			mock.ExpectSetBit(key, int64(o), 1).SetVal(0)
		}
	}
}

func TestRedisBloomRepo_Rebuild(t *testing.T) {
	t.Run("pages into a temp key and renames it", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)
		fetch, cursors := pagedFetch(map[int64][]int64{0: {1, 2}, 2: {5}}, nil)

		mock.ExpectDel(keyPostBloomRebuild).SetVal(0)
		expectSetBits(mock, repo, keyPostBloomRebuild, 1, 2)
		expectSetBits(mock, repo, keyPostBloomRebuild, 5)
		mock.ExpectRename(keyPostBloomRebuild, KeyPostBloom).SetVal("OK")

		require.NoError(t, repo.Rebuild(context.Background(), fetch))
		assert.Equal(t, []int64{0, 2, 5, 5}, *cursors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("post stored during the swap reaches the live key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)
		fetch, cursors := pagedFetch(
			map[int64][]int64{0: {1, 2}},
			map[int64][]int64{2: {9}},
		)

		mock.ExpectDel(keyPostBloomRebuild).SetVal(0)
		expectSetBits(mock, repo, keyPostBloomRebuild, 1, 2)
		mock.ExpectRename(keyPostBloomRebuild, KeyPostBloom).SetVal("OK")
		expectSetBits(mock, repo, KeyPostBloom, 9)

		require.NoError(t, repo.Rebuild(context.Background(), fetch))
		assert.Equal(t, []int64{0, 2, 2, 9}, *cursors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no posts clears the filter", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)
		fetch, cursors := pagedFetch(nil, nil)

		mock.ExpectDel(keyPostBloomRebuild).SetVal(0)
		mock.ExpectDel(KeyPostBloom).SetVal(1)

		require.NoError(t, repo.Rebuild(context.Background(), fetch))
		assert.Equal(t, []int64{0, 0}, *cursors)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fetch error aborts without touching the live key", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		repo := NewRedisBloomRepo(client, testBitSize)

		mock.ExpectDel(keyPostBloomRebuild).SetVal(0)

		err := repo.Rebuild(context.Background(), func(ctx context.Context, cursor int64) ([]int64, error) {
			return nil, errors.New("db down")
		})
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
