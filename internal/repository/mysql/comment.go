package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
)

type commentRepository struct {
	DB *gorm.DB
}

var _ domain.CommentRepository = (*commentRepository)(nil)

func NewCommentRepository(db *gorm.DB) *commentRepository {
	return &commentRepository{
		DB: db,
	}
}

func (c *commentRepository) Store(ctx context.Context, comment *domain.Comment) error {
	m := model.NewCommentFromDomain(comment)
	if err := c.DB.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	comment.ID = m.ID
	comment.CreatedAt = m.CreatedAt
	comment.UpdatedAt = m.UpdatedAt
	return nil
}

func (c *commentRepository) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	var comment model.Comment
	err := c.DB.WithContext(ctx).First(&comment, "id = ?", id).Error
	if err != nil {
		return domain.Comment{}, translateError(err)
	}
	return comment.ToDomain(), nil
}

func (c *commentRepository) FetchRoots(ctx context.Context, postID int64, offset, limit int64) ([]domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(comments), nil
}

func (c *commentRepository) CountRoots(ctx context.Context, postID int64) (int64, error) {
	var total int64
	err := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("post_id = ? AND parent_id IS NULL", postID).
		Count(&total).Error
	return total, err
}

func (c *commentRepository) FetchReplies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	var comments []model.Comment
	err := c.DB.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return toDomainComments(comments), nil
}

func (c *commentRepository) CountRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64]int64, error) {
	return countGrouped(ctx, c.DB, &model.Comment{}, "parent_id", parentIDs)
}

func (c *commentRepository) CountByPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	return countGrouped(ctx, c.DB, &model.Comment{}, "post_id", postIDs)
}

func (c *commentRepository) FetchIDsByPost(ctx context.Context, postID int64) ([]int64, error) {
	var ids []int64
	err := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("post_id = ?", postID).
		Pluck("id", &ids).Error
	return ids, err
}

func (c *commentRepository) UpdateContent(ctx context.Context, id int64, content string, updatedAt time.Time) error {
	result := c.DB.WithContext(ctx).
		Model(&model.Comment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"content":    content,
			"updated_at": updatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) Delete(ctx context.Context, id int64) error {
	result := c.DB.WithContext(ctx).Delete(&model.Comment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (c *commentRepository) DeleteByParent(ctx context.Context, parentID int64) (int64, error) {
	result := c.DB.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

func (c *commentRepository) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	result := c.DB.WithContext(ctx).
		Where("post_id = ?", postID).
		Delete(&model.Comment{})
	return result.RowsAffected, result.Error
}

func toDomainComments(comments []model.Comment) []domain.Comment {
	res := make([]domain.Comment, len(comments))
	for i := range comments {
		res[i] = comments[i].ToDomain()
	}
	return res
}
