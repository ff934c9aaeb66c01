package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
)

type followRepository struct {
	DB *gorm.DB
}

var _ domain.FollowRepository = (*followRepository)(nil)

func NewFollowRepository(db *gorm.DB) *followRepository {
	return &followRepository{DB: db}
}

func (r *followRepository) Store(ctx context.Context, f *domain.Follow) error {
	m := model.NewFollowFromDomain(f)
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	f.CreatedAt = m.CreatedAt
	return nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	result := r.DB.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *followRepository) FetchFollowerIDs(ctx context.Context, userID int64, offset, limit int64) ([]int64, error) {
	return r.pluckPage(ctx, "following_id", "follower_id", userID, offset, limit)
}

func (r *followRepository) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "following_id", userID)
}

func (r *followRepository) FetchFollowingIDs(ctx context.Context, userID int64, offset, limit int64) ([]int64, error) {
	return r.pluckPage(ctx, "follower_id", "following_id", userID, offset, limit)
}

func (r *followRepository) CountFollowings(ctx context.Context, userID int64) (int64, error) {
	return r.count(ctx, "follower_id", userID)
}

func (r *followRepository) pluckPage(ctx context.Context, matchColumn, pluckColumn string, userID, offset, limit int64) ([]int64, error) {
	var res []int64
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where(matchColumn+" = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Pluck(pluckColumn, &res).Error
	return res, err
}

func (r *followRepository) count(ctx context.Context, matchColumn string, userID int64) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&model.Follow{}).
		Where(matchColumn+" = ?", userID).
		Count(&total).Error
	return total, err
}
