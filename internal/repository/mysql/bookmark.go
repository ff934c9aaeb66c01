package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
)

type bookmarkRepository struct {
	DB *gorm.DB
}

var _ domain.BookmarkRepository = (*bookmarkRepository)(nil)

func NewBookmarkRepository(db *gorm.DB) *bookmarkRepository {
	return &bookmarkRepository{DB: db}
}

func (r *bookmarkRepository) Store(ctx context.Context, b *domain.Bookmark) error {
	m := model.NewBookmarkFromDomain(b)
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	b.CreatedAt = m.CreatedAt
	return nil
}

func (r *bookmarkRepository) Exists(ctx context.Context, authorID, postID int64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND post_id = ?", authorID, postID).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}

func (r *bookmarkRepository) Delete(ctx context.Context, authorID, postID int64) (bool, error) {
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", authorID, postID).
		Delete(&model.Bookmark{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *bookmarkRepository) FetchBookmarkedPosts(ctx context.Context, authorID int64, postIDs []int64) ([]int64, error) {
	if len(postIDs) == 0 {
		return nil, nil
	}
	var res []int64
	err := r.DB.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ? AND post_id IN ?", authorID, postIDs).
		Pluck("post_id", &res).Error
	return res, err
}

func (r *bookmarkRepository) FetchPostIDsByAuthor(ctx context.Context, authorID int64, offset, limit int64) ([]int64, error) {
	var res []int64
	err := r.DB.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ?", authorID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Pluck("post_id", &res).Error
	return res, err
}

func (r *bookmarkRepository) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).
		Model(&model.Bookmark{}).
		Where("user_id = ?", authorID).
		Count(&total).Error
	return total, err
}

func (r *bookmarkRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	result := r.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&model.Bookmark{})
	return result.RowsAffected, result.Error
}
