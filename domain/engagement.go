package domain

import "context"

// Engagement holds per-target like counts and viewer flags for one id set.
type Engagement struct {
	Likes              map[int64]int64
	LikedByViewer      map[int64]bool
	BookmarkedByViewer map[int64]bool
}

// LikeCount returns the number of likes of id, 0 when it has none.
func (e Engagement) LikeCount(id int64) int64 {
	return e.Likes[id]
}

func (e Engagement) IsLiked(id int64) bool {
	return e.LikedByViewer[id]
}

func (e Engagement) IsBookmarked(id int64) bool {
	return e.BookmarkedByViewer[id]
}

// EngagementUsecase aggregates likes and bookmarks over a set of targets.
type EngagementUsecase interface {
	// Summarize counts likes for ids in one grouped query. Viewer flags are
	// only computed when viewerID is non-zero; bookmark flags only for posts.
	Summarize(ctx context.Context, kind TargetKind, ids []int64, viewerID int64) (Engagement, error)
}
