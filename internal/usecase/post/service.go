package post

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/usecase/shared"
)

// bloomBatchSize is how many post ids are loaded per page when rebuilding
// the bloom filter.
const bloomBatchSize = 1000

type service struct {
	postRepo     domain.PostRepository
	commentRepo  domain.CommentRepository
	likeRepo     domain.LikeRepository
	bookmarkRepo domain.BookmarkRepository
	userRepo     domain.UserRepository
	engagement   domain.EngagementUsecase
	bloomRepo    domain.BloomRepository
	now          func() time.Time
}

var _ domain.PostUsecase = (*service)(nil)

// NewService will create a new post service object
func NewService(
	p domain.PostRepository,
	c domain.CommentRepository,
	l domain.LikeRepository,
	b domain.BookmarkRepository,
	u domain.UserRepository,
	e domain.EngagementUsecase,
	bloom domain.BloomRepository,
) *service {
	return &service{
		postRepo:     p,
		commentRepo:  c,
		likeRepo:     l,
		bookmarkRepo: b,
		userRepo:     u,
		engagement:   e,
		bloomRepo:    bloom,
		now:          time.Now,
	}
}

/*
* buildViews runs the three page-wide lookups (engagement, comment counts,
* authors) concurrently with errgroup and merges them by post id. Every lookup
* is one query over the whole id set of the page.
 */
func (s *service) buildViews(ctx context.Context, posts []domain.Post, viewerID int64) ([]domain.PostView, error) {
	if len(posts) == 0 {
		return []domain.PostView{}, nil
	}

	ids := make([]int64, len(posts))
	authorIDs := make([]int64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
		authorIDs[i] = posts[i].AuthorID
	}

	var (
		eng           domain.Engagement
		commentCounts map[int64]int64
		authors       map[int64]domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		eng, err = s.engagement.Summarize(gctx, domain.TargetPost, ids, viewerID)
		return
	})
	g.Go(func() (err error) {
		commentCounts, err = s.commentRepo.CountByPosts(gctx, ids)
		return
	})
	g.Go(func() (err error) {
		authors, err = shared.LoadAuthors(gctx, s.userRepo, authorIDs)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]domain.PostView, len(posts))
	for i, p := range posts {
		views[i] = domain.PostView{
			Post:               p,
			Author:             shared.AuthorOf(authors, p.AuthorID),
			TotalLikes:         eng.LikeCount(p.ID),
			TotalComments:      commentCounts[p.ID],
			LikedByViewer:      eng.IsLiked(p.ID),
			BookmarkedByViewer: eng.IsBookmarked(p.ID),
			IsMine:             viewerID != 0 && p.AuthorID == viewerID,
		}
	}
	return views, nil
}

func (s *service) page(ctx context.Context, posts []domain.Post, total int64, p domain.Pagination, viewerID int64) (domain.PostPage, error) {
	views, err := s.buildViews(ctx, posts, viewerID)
	if err != nil {
		return domain.PostPage{}, err
	}
	return domain.PostPage{
		Items:      views,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalCount: total,
		TotalPages: p.TotalPages(total),
	}, nil
}

func (s *service) Fetch(ctx context.Context, p domain.Pagination, viewerID int64) (domain.PostPage, error) {
	var (
		posts []domain.Post
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		posts, err = s.postRepo.FetchPublished(gctx, p.Offset(), p.Limit)
		return
	})
	g.Go(func() (err error) {
		total, err = s.postRepo.CountPublished(gctx)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.PostPage{}, err
	}
	return s.page(ctx, posts, total, p, viewerID)
}

// FetchByAuthor lists the posts of username. Unpublished posts are only
// listed for their author.
func (s *service) FetchByAuthor(ctx context.Context, username string, p domain.Pagination, viewerID int64) (domain.PostPage, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.PostPage{}, fmt.Errorf("%w: user %q", domain.ErrNotFound, username)
		}
		return domain.PostPage{}, err
	}
	publishedOnly := viewerID != user.ID

	posts, err := s.postRepo.FetchByAuthor(ctx, user.ID, publishedOnly, p.Offset(), p.Limit)
	if err != nil {
		return domain.PostPage{}, err
	}
	total, err := s.postRepo.CountByAuthor(ctx, user.ID, publishedOnly)
	if err != nil {
		return domain.PostPage{}, err
	}
	return s.page(ctx, posts, total, p, viewerID)
}

// FetchBookmarked lists the viewer's bookmarks, most recently bookmarked
// first. Bookmarks of posts that are gone or unpublished are skipped.
func (s *service) FetchBookmarked(ctx context.Context, viewerID int64, p domain.Pagination) (domain.PostPage, error) {
	if viewerID == 0 {
		return domain.PostPage{}, domain.ErrUnauthorized
	}

	ids, err := s.bookmarkRepo.FetchPostIDsByAuthor(ctx, viewerID, p.Offset(), p.Limit)
	if err != nil {
		return domain.PostPage{}, err
	}
	total, err := s.bookmarkRepo.CountByAuthor(ctx, viewerID)
	if err != nil {
		return domain.PostPage{}, err
	}

	found, err := s.postRepo.GetByIDs(ctx, ids)
	if err != nil {
		return domain.PostPage{}, err
	}
	byID := make(map[int64]domain.Post, len(found))
	for _, post := range found {
		byID[post.ID] = post
	}
	posts := make([]domain.Post, 0, len(ids))
	for _, id := range ids {
		if post, ok := byID[id]; ok && (post.IsPublished || post.AuthorID == viewerID) {
			posts = append(posts, post)
		}
	}
	return s.page(ctx, posts, total, p, viewerID)
}

func (s *service) GetByID(ctx context.Context, id int64, viewerID int64) (domain.PostView, error) {
	post, err := s.getVisible(ctx, id, viewerID)
	if err != nil {
		return domain.PostView{}, err
	}
	views, err := s.buildViews(ctx, []domain.Post{post}, viewerID)
	if err != nil {
		return domain.PostView{}, err
	}
	return views[0], nil
}

func (s *service) getVisible(ctx context.Context, id int64, viewerID int64) (domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Post{}, fmt.Errorf("%w: post %d", domain.ErrNotFound, id)
		}
		return domain.Post{}, err
	}
	if !post.IsPublished && post.AuthorID != viewerID {
		return domain.Post{}, fmt.Errorf("%w: post %d", domain.ErrNotFound, id)
	}
	return post, nil
}

func (s *service) getOwned(ctx context.Context, id int64, authorID int64) (domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Post{}, fmt.Errorf("%w: post %d", domain.ErrNotFound, id)
		}
		return domain.Post{}, err
	}
	if post.AuthorID != authorID {
		return domain.Post{}, domain.ErrForbidden
	}
	return post, nil
}

func (s *service) Store(ctx context.Context, p *domain.Post) error {
	content, err := shared.NormalizeContent(p.Content, domain.MaxPostLength)
	if err != nil {
		return err
	}
	p.Content = content
	p.IsPublished = true

	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.postRepo.Store(ctx, p)
}

func (s *service) Update(ctx context.Context, id int64, patch domain.PostPatch, authorID int64) (domain.Post, error) {
	post, err := s.getOwned(ctx, id, authorID)
	if err != nil {
		return domain.Post{}, err
	}

	if patch.Content != nil {
		content, err := shared.NormalizeContent(*patch.Content, domain.MaxPostLength)
		if err != nil {
			return domain.Post{}, err
		}
		post.Content = content
	}
	if patch.Tags != nil {
		post.Tags = *patch.Tags
	}
	if patch.Link != nil {
		post.Link = *patch.Link
	}
	post.UpdatedAt = s.now()

	if err := s.postRepo.Update(ctx, &post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

func (s *service) TogglePublish(ctx context.Context, id int64, authorID int64) (domain.Post, error) {
	post, err := s.getOwned(ctx, id, authorID)
	if err != nil {
		return domain.Post{}, err
	}

	post.IsPublished = !post.IsPublished
	post.UpdatedAt = s.now()
	if err := s.postRepo.Update(ctx, &post); err != nil {
		return domain.Post{}, err
	}
	return post, nil
}

// Delete removes the post after everything that points at it: likes on its
// comments, its comments, likes on the post and its bookmarks. There is no
// cross-table transaction; a failure part way leaves the post in place so the
// author can retry.
func (s *service) Delete(ctx context.Context, id int64, authorID int64) error {
	if _, err := s.getOwned(ctx, id, authorID); err != nil {
		return err
	}

	commentIDs, err := s.commentRepo.FetchIDsByPost(ctx, id)
	if err != nil {
		return err
	}
	if _, err := s.likeRepo.DeleteByTargets(ctx, domain.TargetComment, commentIDs); err != nil {
		return err
	}
	if _, err := s.commentRepo.DeleteByPost(ctx, id); err != nil {
		return err
	}
	if _, err := s.likeRepo.DeleteByTargets(ctx, domain.TargetPost, []int64{id}); err != nil {
		return err
	}
	if _, err := s.bookmarkRepo.DeleteByPost(ctx, id); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, id)
}

func (s *service) InitBloomFilter(ctx context.Context) error {
	err := s.bloomRepo.Rebuild(ctx, func(ctx context.Context, cursor int64) ([]int64, error) {
		return s.postRepo.FetchIDs(ctx, cursor, bloomBatchSize)
	})
	if err != nil {
		logrus.Errorf("failed to rebuild post bloom filter: %v", err)
		return err
	}
	return nil
}
