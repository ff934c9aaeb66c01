package bookmark

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type service struct {
	bookmarkRepo domain.BookmarkRepository
	postRepo     domain.PostRepository
}

var _ domain.BookmarkUsecase = (*service)(nil)

func NewService(b domain.BookmarkRepository, p domain.PostRepository) *service {
	return &service{
		bookmarkRepo: b,
		postRepo:     p,
	}
}

// Toggle flips the bookmark. A lost insert race surfaces as ErrConflict from
// the store and is answered with the winning state.
func (s *service) Toggle(ctx context.Context, authorID, postID int64) (bool, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("%w: post %d", domain.ErrNotFound, postID)
		}
		return false, err
	}

	bookmarked, err := s.bookmarkRepo.Exists(ctx, authorID, postID)
	if err != nil {
		return false, err
	}
	if bookmarked {
		if _, err := s.bookmarkRepo.Delete(ctx, authorID, postID); err != nil {
			return false, err
		}
		return false, nil
	}

	err = s.bookmarkRepo.Store(ctx, &domain.Bookmark{
		AuthorID:  authorID,
		PostID:    postID,
		CreatedAt: time.Now(),
	})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return false, err
	}
	return true, nil
}
