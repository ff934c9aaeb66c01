package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
)

type likeRepository struct {
	DB *gorm.DB
}

var _ domain.LikeRepository = (*likeRepository)(nil)

func NewLikeRepository(db *gorm.DB) *likeRepository {
	return &likeRepository{DB: db}
}

// Store inserts the like. A second like for the same (author, target) hits a
// unique index and comes back as domain.ErrConflict.
func (r *likeRepository) Store(ctx context.Context, l *domain.Like) error {
	m, err := model.NewLikeFromDomain(l)
	if err != nil {
		return err
	}
	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return translateError(err)
	}
	l.CreatedAt = m.CreatedAt
	return nil
}

// Exists loads the like row, if any, and decodes its target so a row with
// both or neither target column set is reported instead of counted.
func (r *likeRepository) Exists(ctx context.Context, authorID int64, target domain.LikeTarget) (bool, error) {
	column, err := model.TargetColumn(target.Kind())
	if err != nil {
		return false, err
	}
	var rows []model.Like
	err = r.DB.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", authorID, target.TargetID()).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}
	if _, err := rows[0].ToDomain(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *likeRepository) Delete(ctx context.Context, authorID int64, target domain.LikeTarget) (bool, error) {
	column, err := model.TargetColumn(target.Kind())
	if err != nil {
		return false, err
	}
	result := r.DB.WithContext(ctx).
		Where("user_id = ? AND "+column+" = ?", authorID, target.TargetID()).
		Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *likeRepository) CountByTargets(ctx context.Context, kind domain.TargetKind, ids []int64) (map[int64]int64, error) {
	column, err := model.TargetColumn(kind)
	if err != nil {
		return nil, err
	}
	return countGrouped(ctx, r.DB, &model.Like{}, column, ids)
}

func (r *likeRepository) FetchLikedTargets(ctx context.Context, kind domain.TargetKind, ids []int64, authorID int64) ([]int64, error) {
	column, err := model.TargetColumn(kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	var liked []int64
	err = r.DB.WithContext(ctx).
		Model(&model.Like{}).
		Where("user_id = ? AND "+column+" IN ?", authorID, ids).
		Pluck(column, &liked).Error
	return liked, err
}

func (r *likeRepository) DeleteByTargets(ctx context.Context, kind domain.TargetKind, ids []int64) (int64, error) {
	column, err := model.TargetColumn(kind)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.DB.WithContext(ctx).
		Where(column+" IN ?", ids).
		Delete(&model.Like{})
	return result.RowsAffected, result.Error
}
