package follow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

type service struct {
	followRepo domain.FollowRepository
	userRepo   domain.UserRepository
}

var _ domain.FollowUsecase = (*service)(nil)

func NewService(f domain.FollowRepository, u domain.UserRepository) *service {
	return &service{
		followRepo: f,
		userRepo:   u,
	}
}

func (s *service) Toggle(ctx context.Context, followerID, followingID int64) (bool, error) {
	if followerID == followingID {
		return false, fmt.Errorf("%w: you cannot follow yourself", domain.ErrBadParamInput)
	}
	if _, err := s.userRepo.GetByID(ctx, followingID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, fmt.Errorf("%w: user %d", domain.ErrNotFound, followingID)
		}
		return false, err
	}

	following, err := s.followRepo.Exists(ctx, followerID, followingID)
	if err != nil {
		return false, err
	}
	if following {
		if _, err := s.followRepo.Delete(ctx, followerID, followingID); err != nil {
			return false, err
		}
		return false, nil
	}

	err = s.followRepo.Store(ctx, &domain.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		CreatedAt:   time.Now(),
	})
	if err != nil && !errors.Is(err, domain.ErrConflict) {
		return false, err
	}
	return true, nil
}

func (s *service) Followers(ctx context.Context, username string, p domain.Pagination) (domain.FollowPage, error) {
	return s.list(ctx, username, p, s.followRepo.FetchFollowerIDs, s.followRepo.CountFollowers)
}

func (s *service) Followings(ctx context.Context, username string, p domain.Pagination) (domain.FollowPage, error) {
	return s.list(ctx, username, p, s.followRepo.FetchFollowingIDs, s.followRepo.CountFollowings)
}

func (s *service) list(
	ctx context.Context,
	username string,
	p domain.Pagination,
	fetch func(ctx context.Context, userID int64, offset, limit int64) ([]int64, error),
	count func(ctx context.Context, userID int64) (int64, error),
) (domain.FollowPage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.FollowPage{}, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
		}
		return domain.FollowPage{}, err
	}

	ids, err := fetch(ctx, user.ID, p.Offset(), p.Limit)
	if err != nil {
		return domain.FollowPage{}, err
	}
	total, err := count(ctx, user.ID)
	if err != nil {
		return domain.FollowPage{}, err
	}

	page := domain.FollowPage{
		Users:      []domain.User{},
		Page:       p.Page,
		TotalCount: total,
		TotalPages: p.TotalPages(total),
	}
	if len(ids) == 0 {
		return page, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return domain.FollowPage{}, err
	}
	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			page.Users = append(page.Users, u)
		}
	}
	return page, nil
}
