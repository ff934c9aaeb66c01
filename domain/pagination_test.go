package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Guyuepp/go-clean-social/domain"
)

func TestNewPagination(t *testing.T) {
	cases := []struct {
		name        string
		page, limit int64
		want        domain.Pagination
	}{
		{"defaults", 0, 0, domain.Pagination{Page: 1, Limit: 10}},
		{"negative", -3, -1, domain.Pagination{Page: 1, Limit: 10}},
		{"kept", 4, 20, domain.Pagination{Page: 4, Limit: 20}},
		{"capped", 1, 500, domain.Pagination{Page: 1, Limit: domain.MaxLimit}},
		{"page capped", math.MaxInt64, 10, domain.Pagination{Page: domain.MaxPage, Limit: 10}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.NewPagination(tc.page, tc.limit))
		})
	}
}

func TestPaginationMath(t *testing.T) {
	p := domain.NewPagination(3, 10)
	assert.Equal(t, int64(20), p.Offset())
	assert.Equal(t, int64(0), p.TotalPages(0))
	assert.Equal(t, int64(1), p.TotalPages(10))
	assert.Equal(t, int64(3), p.TotalPages(21))

	page := domain.PostPage{Page: 3, Limit: 10, TotalCount: 21}
	assert.False(t, page.HasNextPage())
	assert.True(t, page.HasPrevPage())
	page.TotalCount = 31
	assert.True(t, page.HasNextPage())
}

func TestNewLikeTarget(t *testing.T) {
	target, err := domain.NewLikeTarget(domain.TargetPost, 4)
	assert.NoError(t, err)
	assert.Equal(t, domain.PostTarget{PostID: 4}, target)
	assert.Equal(t, "post", target.Kind().String())

	target, err = domain.NewLikeTarget(domain.TargetComment, 5)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), target.TargetID())

	_, err = domain.NewLikeTarget(domain.TargetKind(99), 1)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)
}

func TestPaginationOffsetNeverOverflows(t *testing.T) {
	pages := []int64{math.MaxInt64/10 + 2, math.MaxInt64 / 2, math.MaxInt64, domain.MaxPage}
	for _, page := range pages {
		for _, limit := range []int64{1, 10, domain.MaxLimit, math.MaxInt64} {
			p := domain.NewPagination(page, limit)
			assert.GreaterOrEqual(t, p.Offset(), int64(0), "page=%d limit=%d", page, limit)
			assert.LessOrEqual(t, p.Page, int64(domain.MaxPage))

			res := domain.PostPage{Page: p.Page, Limit: p.Limit, TotalCount: 3}
			assert.False(t, res.HasNextPage(), "page=%d limit=%d", page, limit)
		}
	}
}
