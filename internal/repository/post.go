package repository

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/go-clean-social/domain"
)

// postRepository coordinates the bloom filter and the database
type postRepository struct {
	db        domain.PostRepository
	bloom     domain.BloomRepository
	loadGroup singleflight.Group
}

var _ domain.PostRepository = (*postRepository)(nil)

// NewPostRepository creates the coordinating repository
func NewPostRepository(db domain.PostRepository, bloom domain.BloomRepository) *postRepository {
	return &postRepository{
		db:    db,
		bloom: bloom,
	}
}

// GetByID asks the bloom filter first so lookups of ids that never existed do
// not reach the database. Concurrent loads of one id share a single query.
func (r *postRepository) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	exists, err := r.bloom.Exists(ctx, id)
	if err != nil {
		logrus.Warnf("bloom filter check for post %d failed: %v", id, err)
	} else if !exists {
		return domain.Post{}, domain.ErrNotFound
	}

	key := "post:" + strconv.FormatInt(id, 10)
	result, err, _ := r.loadGroup.Do(key, func() (any, error) {
		return r.db.GetByID(ctx, id)
	})
	if err != nil {
		return domain.Post{}, err
	}
	return result.(domain.Post), nil
}

func (r *postRepository) GetByIDs(ctx context.Context, ids []int64) ([]domain.Post, error) {
	return r.db.GetByIDs(ctx, ids)
}

func (r *postRepository) FetchPublished(ctx context.Context, offset, limit int64) ([]domain.Post, error) {
	return r.db.FetchPublished(ctx, offset, limit)
}

func (r *postRepository) CountPublished(ctx context.Context) (int64, error) {
	return r.db.CountPublished(ctx)
}

func (r *postRepository) FetchByAuthor(ctx context.Context, authorID int64, publishedOnly bool, offset, limit int64) ([]domain.Post, error) {
	return r.db.FetchByAuthor(ctx, authorID, publishedOnly, offset, limit)
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID int64, publishedOnly bool) (int64, error) {
	return r.db.CountByAuthor(ctx, authorID, publishedOnly)
}

func (r *postRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

// Store writes the post and then registers its id in the bloom filter. A
// failed bloom write is only logged: GetByID would then report the post as
// missing until the filter is next rebuilt.
func (r *postRepository) Store(ctx context.Context, p *domain.Post) error {
	if err := r.db.Store(ctx, p); err != nil {
		return err
	}
	if err := r.bloom.Add(ctx, p.ID); err != nil {
		logrus.Errorf("failed to add post %d to bloom filter: %v", p.ID, err)
	}
	return nil
}

func (r *postRepository) Update(ctx context.Context, p *domain.Post) error {
	return r.db.Update(ctx, p)
}

// Delete removes the row. Bloom filters cannot forget, so a deleted id keeps
// passing the filter and is rejected by the database instead.
func (r *postRepository) Delete(ctx context.Context, id int64) error {
	return r.db.Delete(ctx, id)
}
