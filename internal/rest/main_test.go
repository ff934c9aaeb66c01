package rest

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/rest/middleware"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := middleware.RegisterValidators(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newRouter returns an engine that authenticates every request as uid, or
// none when uid is 0.
func newRouter(uid int64) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid != 0 {
			c.Set(middleware.UserIDKey, uid)
		}
		c.Next()
	})
	return r
}

func serve(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

type mockCommentUsecase struct {
	mock.Mock
}

func (m *mockCommentUsecase) ListRoots(ctx context.Context, postID int64, p domain.Pagination, viewerID int64) (domain.CommentPage, error) {
	args := m.Called(ctx, postID, p, viewerID)
	return args.Get(0).(domain.CommentPage), args.Error(1)
}

func (m *mockCommentUsecase) ListReplies(ctx context.Context, commentID int64, viewerID int64) ([]domain.CommentView, error) {
	args := m.Called(ctx, commentID, viewerID)
	return args.Get(0).([]domain.CommentView), args.Error(1)
}

func (m *mockCommentUsecase) Create(ctx context.Context, c *domain.Comment) error {
	args := m.Called(ctx, c)
	c.ID = 1
	return args.Error(0)
}

func (m *mockCommentUsecase) Update(ctx context.Context, commentID int64, content string, authorID int64) (domain.Comment, error) {
	args := m.Called(ctx, commentID, content, authorID)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *mockCommentUsecase) UpdateReply(ctx context.Context, commentID, parentID int64, content string, authorID int64) (domain.Comment, error) {
	args := m.Called(ctx, commentID, parentID, content, authorID)
	return args.Get(0).(domain.Comment), args.Error(1)
}

func (m *mockCommentUsecase) Delete(ctx context.Context, commentID int64, authorID int64) error {
	return m.Called(ctx, commentID, authorID).Error(0)
}

type mockPostUsecase struct {
	mock.Mock
}

func (m *mockPostUsecase) Fetch(ctx context.Context, p domain.Pagination, viewerID int64) (domain.PostPage, error) {
	args := m.Called(ctx, p, viewerID)
	return args.Get(0).(domain.PostPage), args.Error(1)
}

func (m *mockPostUsecase) FetchByAuthor(ctx context.Context, username string, p domain.Pagination, viewerID int64) (domain.PostPage, error) {
	args := m.Called(ctx, username, p, viewerID)
	return args.Get(0).(domain.PostPage), args.Error(1)
}

func (m *mockPostUsecase) FetchBookmarked(ctx context.Context, viewerID int64, p domain.Pagination) (domain.PostPage, error) {
	args := m.Called(ctx, viewerID, p)
	return args.Get(0).(domain.PostPage), args.Error(1)
}

func (m *mockPostUsecase) GetByID(ctx context.Context, id int64, viewerID int64) (domain.PostView, error) {
	args := m.Called(ctx, id, viewerID)
	return args.Get(0).(domain.PostView), args.Error(1)
}

func (m *mockPostUsecase) Store(ctx context.Context, p *domain.Post) error {
	args := m.Called(ctx, p)
	p.ID = 1
	return args.Error(0)
}

func (m *mockPostUsecase) Update(ctx context.Context, id int64, patch domain.PostPatch, authorID int64) (domain.Post, error) {
	args := m.Called(ctx, id, patch, authorID)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostUsecase) TogglePublish(ctx context.Context, id int64, authorID int64) (domain.Post, error) {
	args := m.Called(ctx, id, authorID)
	return args.Get(0).(domain.Post), args.Error(1)
}

func (m *mockPostUsecase) Delete(ctx context.Context, id int64, authorID int64) error {
	return m.Called(ctx, id, authorID).Error(0)
}

func (m *mockPostUsecase) InitBloomFilter(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockLikeUsecase struct {
	mock.Mock
}

func (m *mockLikeUsecase) Toggle(ctx context.Context, authorID int64, target domain.LikeTarget) (bool, error) {
	args := m.Called(ctx, authorID, target)
	return args.Bool(0), args.Error(1)
}

type mockBookmarkUsecase struct {
	mock.Mock
}

func (m *mockBookmarkUsecase) Toggle(ctx context.Context, authorID, postID int64) (bool, error) {
	args := m.Called(ctx, authorID, postID)
	return args.Bool(0), args.Error(1)
}

type mockFollowUsecase struct {
	mock.Mock
}

func (m *mockFollowUsecase) Toggle(ctx context.Context, followerID, followingID int64) (bool, error) {
	args := m.Called(ctx, followerID, followingID)
	return args.Bool(0), args.Error(1)
}

func (m *mockFollowUsecase) Followers(ctx context.Context, username string, p domain.Pagination) (domain.FollowPage, error) {
	args := m.Called(ctx, username, p)
	return args.Get(0).(domain.FollowPage), args.Error(1)
}

func (m *mockFollowUsecase) Followings(ctx context.Context, username string, p domain.Pagination) (domain.FollowPage, error) {
	args := m.Called(ctx, username, p)
	return args.Get(0).(domain.FollowPage), args.Error(1)
}
