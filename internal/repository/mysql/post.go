package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/repository/mysql/model"
)

type postRepository struct {
	DB *gorm.DB
}

// the mysql layer only talks to the database
var _ domain.PostRepository = (*postRepository)(nil)

// NewPostDBRepository creates the database layer of the post store
func NewPostDBRepository(db *gorm.DB) *postRepository {
	return &postRepository{db}
}

func (m *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	var post model.Post
	err := m.DB.WithContext(ctx).First(&post, "id = ?", id).Error
	if err != nil {
		return domain.Post{}, translateError(err)
	}
	return post.ToDomain(), nil
}

func (m *postRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) FetchPublished(ctx context.Context, offset, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.DB.WithContext(ctx).
		Where("is_published = ?", true).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) CountPublished(ctx context.Context) (int64, error) {
	var total int64
	err := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("is_published = ?", true).
		Count(&total).Error
	return total, err
}

func (m *postRepository) FetchByAuthor(ctx context.Context, authorID int64, publishedOnly bool, offset, limit int64) ([]domain.Post, error) {
	var posts []model.Post
	err := m.byAuthor(ctx, authorID, publishedOnly).
		Order("created_at DESC").
		Order("id DESC").
		Offset(int(offset)).
		Limit(int(limit)).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return toDomainPosts(posts), nil
}

func (m *postRepository) CountByAuthor(ctx context.Context, authorID int64, publishedOnly bool) (int64, error) {
	var total int64
	err := m.byAuthor(ctx, authorID, publishedOnly).
		Count(&total).Error
	return total, err
}

func (m *postRepository) byAuthor(ctx context.Context, authorID int64, publishedOnly bool) *gorm.DB {
	q := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("user_id = ?", authorID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	return q
}

func (m *postRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Pluck("id", &ids).Error
	return
}

func (m *postRepository) Store(ctx context.Context, p *domain.Post) error {
	postModel := model.NewPostFromDomain(p)
	result := m.DB.WithContext(ctx).Create(postModel)
	if result.Error != nil {
		return translateError(result.Error)
	}
	p.ID = postModel.ID
	p.CreatedAt = postModel.CreatedAt
	p.UpdatedAt = postModel.UpdatedAt
	return nil
}

func (m *postRepository) Update(ctx context.Context, p *domain.Post) error {
	result := m.DB.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"content":      p.Content,
			"tags":         p.Tags,
			"link":         p.Link,
			"is_published": p.IsPublished,
			"updated_at":   p.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *postRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Post{}, id)

	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}

	return nil
}

func toDomainPosts(posts []model.Post) []domain.Post {
	res := make([]domain.Post, len(posts))
	for i := range posts {
		res[i] = posts[i].ToDomain()
	}
	return res
}
