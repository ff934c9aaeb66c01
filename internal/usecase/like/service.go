package like

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-clean-social/domain"
)

type service struct {
	likeRepo    domain.LikeRepository
	postRepo    domain.PostRepository
	commentRepo domain.CommentRepository
}

var _ domain.LikeUsecase = (*service)(nil)

func NewService(l domain.LikeRepository, p domain.PostRepository, c domain.CommentRepository) *service {
	return &service{
		likeRepo:    l,
		postRepo:    p,
		commentRepo: c,
	}
}

// Toggle is a check-then-act on the like record. Two concurrent toggles by
// the same author can both see "not liked"; the unique index lets only one
// insert through and the loser reports the state that won.
func (s *service) Toggle(ctx context.Context, authorID int64, target domain.LikeTarget) (bool, error) {
	if err := s.targetExists(ctx, target); err != nil {
		return false, err
	}

	liked, err := s.likeRepo.Exists(ctx, authorID, target)
	if err != nil {
		return false, err
	}

	if liked {
		removed, err := s.likeRepo.Delete(ctx, authorID, target)
		if err != nil {
			return false, err
		}
		if !removed {
			logrus.Infof("like of %s %d by user %d was already removed", target.Kind(), target.TargetID(), authorID)
		}
		return false, nil
	}

	err = s.likeRepo.Store(ctx, &domain.Like{
		AuthorID:  authorID,
		Target:    target,
		CreatedAt: time.Now(),
	})
	if errors.Is(err, domain.ErrConflict) {
		logrus.Infof("concurrent like of %s %d by user %d resolved by unique index", target.Kind(), target.TargetID(), authorID)
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) targetExists(ctx context.Context, target domain.LikeTarget) error {
	var err error
	switch t := target.(type) {
	case domain.PostTarget:
		_, err = s.postRepo.GetByID(ctx, t.PostID)
	case domain.CommentTarget:
		_, err = s.commentRepo.GetByID(ctx, t.CommentID)
	default:
		return fmt.Errorf("%w: unsupported like target", domain.ErrBadParamInput)
	}
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: %s %d", domain.ErrNotFound, target.Kind(), target.TargetID())
	}
	return err
}
