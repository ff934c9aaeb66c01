package engagement

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/usecase/shared"
)

type service struct {
	likeRepo     domain.LikeRepository
	bookmarkRepo domain.BookmarkRepository
}

var _ domain.EngagementUsecase = (*service)(nil)

func NewService(l domain.LikeRepository, b domain.BookmarkRepository) *service {
	return &service{
		likeRepo:     l,
		bookmarkRepo: b,
	}
}

// Summarize issues one grouped like count for the whole id set. The viewer
// lookups only run for an authenticated viewer and run alongside the count,
// so the three results may reflect slightly different moments.
func (s *service) Summarize(ctx context.Context, kind domain.TargetKind, ids []int64, viewerID int64) (domain.Engagement, error) {
	res := domain.Engagement{
		Likes:              map[int64]int64{},
		LikedByViewer:      map[int64]bool{},
		BookmarkedByViewer: map[int64]bool{},
	}
	ids = shared.UniqueIDs(ids)
	if len(ids) == 0 {
		return res, nil
	}

	var (
		counts     map[int64]int64
		liked      []int64
		bookmarked []int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		counts, err = s.likeRepo.CountByTargets(gctx, kind, ids)
		return
	})
	if viewerID != 0 {
		g.Go(func() (err error) {
			liked, err = s.likeRepo.FetchLikedTargets(gctx, kind, ids, viewerID)
			return
		})
		if kind == domain.TargetPost {
			g.Go(func() (err error) {
				bookmarked, err = s.bookmarkRepo.FetchBookmarkedPosts(gctx, viewerID, ids)
				return
			})
		}
	}
	if err := g.Wait(); err != nil {
		return domain.Engagement{}, err
	}

	for id, n := range counts {
		res.Likes[id] = n
	}
	for _, id := range liked {
		res.LikedByViewer[id] = true
	}
	for _, id := range bookmarked {
		res.BookmarkedByViewer[id] = true
	}
	return res, nil
}
