package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sqlmock "gopkg.in/DATA-DOG/go-sqlmock.v1"
)

func TestFollowRepository_Lists(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT `follower_id` FROM `follow` WHERE following_id = ?")).
		WithArgs(3, 10).
		WillReturnRows(sqlmock.NewRows([]string{"follower_id"}).AddRow(8).AddRow(9))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `following_id` FROM `follow` WHERE follower_id = ?")).
		WithArgs(3, 10).
		WillReturnRows(sqlmock.NewRows([]string{"following_id"}))

	followers, err := repo.FetchFollowerIDs(context.TODO(), 3, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{8, 9}, followers)

	followings, err := repo.FetchFollowingIDs(context.TODO(), 3, 0, 10)
	require.NoError(t, err)
	assert.Empty(t, followings)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFollowRepository_Counts(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `follow` WHERE following_id = ?")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM `follow` WHERE follower_id = ?")).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))

	n, err := repo.CountFollowers(context.TODO(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.CountFollowings(context.TODO(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestFollowRepository_Delete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewFollowRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `follow` WHERE follower_id = ? AND following_id = ?")).
		WithArgs(1, 2).
		WillReturnResult(sqlmock.NewResult(0, 1))

	removed, err := repo.Delete(context.TODO(), 1, 2)
	require.NoError(t, err)
	assert.True(t, removed)
}
