package comment

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

type service struct {
	commentRepo domain.CommentRepository
	postRepo    domain.PostRepository
	userRepo    domain.UserRepository
	likeRepo    domain.LikeRepository
	engagement  domain.EngagementUsecase
	bloomRepo   domain.BloomRepository
	now         func() time.Time
}

var _ domain.CommentUsecase = (*service)(nil)

func NewService(
	commentRepo domain.CommentRepository,
	postRepo domain.PostRepository,
	userRepo domain.UserRepository,
	likeRepo domain.LikeRepository,
	engagement domain.EngagementUsecase,
	bloomRepo domain.BloomRepository,
) *service {
	return &service{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		likeRepo:    likeRepo,
		engagement:  engagement,
		bloomRepo:   bloomRepo,
		now:         time.Now,
	}
}

// mustExists only rejects ids the bloom filter has never seen. A filter error
// lets the request through.
func (s *service) mustExists(ctx context.Context, postID int64) error {
	exists, err := s.bloomRepo.Exists(ctx, postID)
	if err == nil && !exists {
		logrus.Warnf("bloom filter says post %d does not exist", postID)
		return fmt.Errorf("%w: post %d", domain.ErrNotFound, postID)
	}
	return nil
}

func (s *service) ListRoots(ctx context.Context, postID int64, p domain.Pagination, viewerID int64) (domain.CommentPage, error) {
	if err := s.mustExists(ctx, postID); err != nil {
		return domain.CommentPage{}, err
	}

	roots, err := s.commentRepo.FetchRoots(ctx, postID, p.Offset(), p.Limit)
	if err != nil {
		return domain.CommentPage{}, err
	}
	total, err := s.commentRepo.CountRoots(ctx, postID)
	if err != nil {
		return domain.CommentPage{}, err
	}

	page := domain.CommentPage{
		Items:      []domain.CommentView{},
		Page:       p.Page,
		TotalCount: total,
		TotalPages: p.TotalPages(total),
	}
	if len(roots) == 0 {
		return page, nil
	}

	ids := commentIDs(roots)
	var replyCounts map[int64]int64
	var views []domain.CommentView

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		replyCounts, err = s.commentRepo.CountRepliesByParents(gctx, ids)
		return
	})
	g.Go(func() (err error) {
		views, err = s.enrich(gctx, roots, viewerID)
		return
	})
	if err := g.Wait(); err != nil {
		return domain.CommentPage{}, err
	}

	for i := range views {
		views[i].HasReplies = replyCounts[views[i].ID] > 0
	}
	page.Items = views
	return page, nil
}

// ListReplies returns the replies of commentID oldest first. Replies cannot
// have replies, so HasReplies stays false without a query.
func (s *service) ListReplies(ctx context.Context, commentID int64, viewerID int64) ([]domain.CommentView, error) {
	replies, err := s.commentRepo.FetchReplies(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return []domain.CommentView{}, nil
	}
	return s.enrich(ctx, replies, viewerID)
}

// enrich attaches authors, like counts and the viewer flag to comments in
// two batched lookups.
func (s *service) enrich(ctx context.Context, comments []domain.Comment, viewerID int64) ([]domain.CommentView, error) {
	authorIDs := make([]int64, len(comments))
	for i := range comments {
		authorIDs[i] = comments[i].AuthorID
	}

	var (
		eng     domain.Engagement
		authors map[int64]domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		eng, err = s.engagement.Summarize(gctx, domain.TargetComment, commentIDs(comments), viewerID)
		return
	})
	g.Go(func() (err error) {
		authors, err = shared.LoadAuthors(gctx, s.userRepo, authorIDs)
		return
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]domain.CommentView, len(comments))
	for i, c := range comments {
		views[i] = domain.CommentView{
			Comment:       c,
			Author:        shared.AuthorOf(authors, c.AuthorID),
			LikeCount:     eng.LikeCount(c.ID),
			LikedByViewer: eng.IsLiked(c.ID),
		}
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, c *domain.Comment) error {
	content, err := shared.NormalizeContent(c.Content, domain.MaxCommentLength)
	if err != nil {
		return err
	}
	c.Content = content

	if _, err := s.postRepo.GetByID(ctx, c.PostID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: post %d", domain.ErrNotFound, c.PostID)
		}
		return err
	}

	if c.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *c.ParentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: parent comment %d", domain.ErrNotFound, *c.ParentID)
			}
			return err
		}
		if parent.PostID != c.PostID {
			return fmt.Errorf("%w: parent comment %d belongs to another post", domain.ErrBadParamInput, parent.ID)
		}
		if !parent.IsRoot() {
			return fmt.Errorf("%w: replies cannot be replied to", domain.ErrBadParamInput)
		}
	}

	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	return s.commentRepo.Store(ctx, c)
}

func (s *service) Update(ctx context.Context, commentID int64, content string, authorID int64) (domain.Comment, error) {
	existing, err := s.getOwned(ctx, commentID, authorID)
	if err != nil {
		return domain.Comment{}, err
	}
	return s.replaceContent(ctx, existing, content)
}

func (s *service) UpdateReply(ctx context.Context, commentID, parentID int64, content string, authorID int64) (domain.Comment, error) {
	existing, err := s.getOwned(ctx, commentID, authorID)
	if err != nil {
		return domain.Comment{}, err
	}
	if existing.ParentID == nil || *existing.ParentID != parentID {
		return domain.Comment{}, fmt.Errorf("%w: comment %d is not a reply of %d", domain.ErrBadParamInput, commentID, parentID)
	}
	return s.replaceContent(ctx, existing, content)
}

func (s *service) replaceContent(ctx context.Context, c domain.Comment, content string) (domain.Comment, error) {
	cleaned, err := shared.NormalizeContent(content, domain.MaxCommentLength)
	if err != nil {
		return domain.Comment{}, err
	}

	now := s.now()
	if err := s.commentRepo.UpdateContent(ctx, c.ID, cleaned, now); err != nil {
		return domain.Comment{}, err
	}
	c.Content = cleaned
	c.UpdatedAt = now
	return c, nil
}

// Delete removes a comment. A root goes together with its direct replies;
// nesting stops at one level so there is nothing deeper to walk. Like records
// of the removed comments are cleaned up afterwards on a best-effort basis.
func (s *service) Delete(ctx context.Context, commentID int64, authorID int64) error {
	existing, err := s.getOwned(ctx, commentID, authorID)
	if err != nil {
		return err
	}

	removed := []int64{existing.ID}
	if existing.IsRoot() {
		replies, err := s.commentRepo.FetchReplies(ctx, existing.ID)
		if err != nil {
			return err
		}
		removed = append(removed, commentIDs(replies)...)

		if _, err := s.commentRepo.DeleteByParent(ctx, existing.ID); err != nil {
			return err
		}
	}

	if err := s.commentRepo.Delete(ctx, existing.ID); err != nil {
		return err
	}

	if _, err := s.likeRepo.DeleteByTargets(ctx, domain.TargetComment, removed); err != nil {
		logrus.Warnf("failed to remove likes of deleted comments %v: %v", removed, err)
	}
	return nil
}

func (s *service) getOwned(ctx context.Context, commentID, authorID int64) (domain.Comment, error) {
	existing, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Comment{}, fmt.Errorf("%w: comment %d", domain.ErrNotFound, commentID)
		}
		return domain.Comment{}, err
	}
	if existing.AuthorID != authorID {
		return domain.Comment{}, domain.ErrForbidden
	}
	return existing, nil
}

func commentIDs(comments []domain.Comment) []int64 {
	ids := make([]int64, len(comments))
	for i := range comments {
		ids[i] = comments[i].ID
	}
	return ids
}
