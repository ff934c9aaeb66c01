package comment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/go-faker/faker/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/usecase/comment"
	"github.com/Guyuepp/go-clean-social/internal/usecase/engagement"
	"github.com/Guyuepp/go-clean-social/internal/usecase/usecasetest"
)

type fixture struct {
	store *usecasetest.Store
	svc   domain.CommentUsecase
	alice domain.User
	bob   domain.User
	post  domain.Post
}

func setup(t *testing.T) fixture {
	t.Helper()
	st := usecasetest.NewStore()
	alice := st.AddUser(domain.User{Name: faker.Name(), Username: "alice"})
	bob := st.AddUser(domain.User{Name: faker.Name(), Username: "bob"})
	post := st.AddPost(domain.Post{AuthorID: alice.ID, Content: faker.Sentence(), IsPublished: true})

	eng := engagement.NewService(st.Likes(), st.Bookmarks())
	svc := comment.NewService(st.Comments(), st.Posts(), st.Users(), st.Likes(), eng, st.Bloom())
	return fixture{store: st, svc: svc, alice: alice, bob: bob, post: post}
}

func (f fixture) create(t *testing.T, postID int64, parentID *int64, authorID int64, content string) domain.Comment {
	t.Helper()
	c := domain.Comment{PostID: postID, ParentID: parentID, AuthorID: authorID, Content: content}
	require.NoError(t, f.svc.Create(context.TODO(), &c))
	require.NotZero(t, c.ID)
	return c
}

func firstPage() domain.Pagination {
	return domain.NewPagination(1, 10)
}

func TestThreadScenario(t *testing.T) {
	f := setup(t)
	ctx := context.TODO()

	a := f.create(t, f.post.ID, nil, f.alice.ID, "hi")
	b := f.create(t, f.post.ID, &a.ID, f.bob.ID, "hello")
	c := f.create(t, f.post.ID, &a.ID, f.alice.ID, "yo")

	page, err := f.svc.ListRoots(ctx, f.post.ID, firstPage(), 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)
	assert.True(t, page.Items[0].HasReplies)
	assert.Equal(t, int64(0), page.Items[0].LikeCount)
	require.NotNil(t, page.Items[0].Author)
	assert.Equal(t, "alice", page.Items[0].Author.Username)
	assert.Equal(t, int64(1), page.TotalCount)
	assert.Equal(t, int64(1), page.TotalPages)
	assert.Equal(t, int64(1), page.Page)

	replies, err := f.svc.ListReplies(ctx, a.ID, 0)
	require.NoError(t, err)
	require.Len(t, replies, 2)
	assert.Equal(t, []int64{b.ID, c.ID}, []int64{replies[0].ID, replies[1].ID})
	assert.Equal(t, "hello", replies[0].Content)
	assert.False(t, replies[0].HasReplies)
	assert.False(t, replies[1].HasReplies)

	require.NoError(t, f.svc.Delete(ctx, a.ID, f.alice.ID))

	page, err = f.svc.ListRoots(ctx, f.post.ID, firstPage(), 0)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
	assert.Zero(t, page.TotalCount)

	replies, err = f.svc.ListReplies(ctx, a.ID, 0)
	require.NoError(t, err)
	assert.NotNil(t, replies)
	assert.Empty(t, replies)
	assert.Zero(t, f.store.CommentCount())
}

func TestListRoots(t *testing.T) {
	t.Run("newest first with pagination metadata", func(t *testing.T) {
		f := setup(t)
		first := f.create(t, f.post.ID, nil, f.alice.ID, "one")
		second := f.create(t, f.post.ID, nil, f.alice.ID, "two")
		third := f.create(t, f.post.ID, nil, f.bob.ID, "three")

		page, err := f.svc.ListRoots(context.TODO(), f.post.ID, domain.NewPagination(1, 2), 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.Equal(t, third.ID, page.Items[0].ID)
		assert.Equal(t, second.ID, page.Items[1].ID)
		assert.Equal(t, int64(3), page.TotalCount)
		assert.Equal(t, int64(2), page.TotalPages)

		page, err = f.svc.ListRoots(context.TODO(), f.post.ID, domain.NewPagination(2, 2), 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, first.ID, page.Items[0].ID)
		assert.False(t, page.Items[0].HasReplies)
	})

	t.Run("page past the end is empty with the real total", func(t *testing.T) {
		f := setup(t)
		f.create(t, f.post.ID, nil, f.alice.ID, "only")

		page, err := f.svc.ListRoots(context.TODO(), f.post.ID, domain.NewPagination(5, 10), 0)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(1), page.TotalCount)
		assert.Equal(t, int64(5), page.Page)
	})

	t.Run("replies are not listed as roots", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
		f.create(t, f.post.ID, &a.ID, f.bob.ID, "reply")

		page, err := f.svc.ListRoots(context.TODO(), f.post.ID, firstPage(), 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, a.ID, page.Items[0].ID)
	})

	t.Run("like counts and viewer flag", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
		f.store.AddLike(f.bob.ID, domain.CommentTarget{CommentID: a.ID})
		f.store.AddLike(f.alice.ID, domain.CommentTarget{CommentID: a.ID})

		page, err := f.svc.ListRoots(context.TODO(), f.post.ID, firstPage(), f.bob.ID)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, int64(2), page.Items[0].LikeCount)
		assert.True(t, page.Items[0].LikedByViewer)

		viewerLookups := f.store.Calls("likes.FetchLikedTargets")
		page, err = f.svc.ListRoots(context.TODO(), f.post.ID, firstPage(), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Items[0].LikeCount)
		assert.False(t, page.Items[0].LikedByViewer, "anonymous viewers never like anything")
		assert.Equal(t, viewerLookups, f.store.Calls("likes.FetchLikedTargets"), "no viewer lookup for anonymous reads")
	})

	t.Run("unknown post", func(t *testing.T) {
		f := setup(t)

		_, err := f.svc.ListRoots(context.TODO(), 999, firstPage(), 0)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("store failure propagates", func(t *testing.T) {
		f := setup(t)
		f.create(t, f.post.ID, nil, f.alice.ID, "root")
		f.store.FailOn("likes.CountByTargets", errors.New("db down"))

		_, err := f.svc.ListRoots(context.TODO(), f.post.ID, firstPage(), 0)
		assert.Error(t, err)
	})
}

func TestCreate(t *testing.T) {
	t.Run("content is trimmed and otherwise kept", func(t *testing.T) {
		f := setup(t)
		c := f.create(t, f.post.ID, nil, f.alice.ID, "  <b>bold</b> move  ")

		stored, ok := f.store.Comment(c.ID)
		require.True(t, ok)
		assert.Equal(t, "<b>bold</b> move", stored.Content)
		assert.False(t, stored.CreatedAt.IsZero())
	})

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"whitespace only", "   \n\t"},
		{"markup only", "<script>alert(1)</script>"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name+" content", func(t *testing.T) {
			f := setup(t)
			err := f.svc.Create(context.TODO(), &domain.Comment{PostID: f.post.ID, AuthorID: f.alice.ID, Content: tt.content})
			assert.ErrorIs(t, err, domain.ErrBadParamInput)
			assert.Zero(t, f.store.CommentCount())
		})
	}

	t.Run("missing post", func(t *testing.T) {
		f := setup(t)
		err := f.svc.Create(context.TODO(), &domain.Comment{PostID: 999, AuthorID: f.alice.ID, Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing parent", func(t *testing.T) {
		f := setup(t)
		parent := int64(999)
		err := f.svc.Create(context.TODO(), &domain.Comment{PostID: f.post.ID, ParentID: &parent, AuthorID: f.alice.ID, Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("parent under another post", func(t *testing.T) {
		f := setup(t)
		other := f.store.AddPost(domain.Post{AuthorID: f.bob.ID, Content: "p2", IsPublished: true})
		a := f.create(t, other.ID, nil, f.bob.ID, "elsewhere")
		before := f.store.CommentCount()

		err := f.svc.Create(context.TODO(), &domain.Comment{PostID: f.post.ID, ParentID: &a.ID, AuthorID: f.alice.ID, Content: "hi"})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
		assert.Equal(t, before, f.store.CommentCount())
	})

	t.Run("reply to a reply", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
		b := f.create(t, f.post.ID, &a.ID, f.bob.ID, "reply")

		err := f.svc.Create(context.TODO(), &domain.Comment{PostID: f.post.ID, ParentID: &b.ID, AuthorID: f.alice.ID, Content: "nested"})
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}

func TestUpdate(t *testing.T) {
	t.Run("author replaces content", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "hi")

		updated, err := f.svc.Update(context.TODO(), a.ID, "edited", f.alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "edited", updated.Content)
		assert.False(t, updated.UpdatedAt.Before(a.UpdatedAt))

		stored, _ := f.store.Comment(a.ID)
		assert.Equal(t, "edited", stored.Content)
	})

	t.Run("non-author is forbidden and content is unchanged", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "hi")

		_, err := f.svc.Update(context.TODO(), a.ID, "hijacked", f.bob.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden)

		stored, _ := f.store.Comment(a.ID)
		assert.Equal(t, "hi", stored.Content)
	})

	t.Run("missing comment", func(t *testing.T) {
		f := setup(t)
		_, err := f.svc.Update(context.TODO(), 999, "x", f.alice.ID)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank content", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "hi")
		_, err := f.svc.Update(context.TODO(), a.ID, "  ", f.alice.ID)
		assert.ErrorIs(t, err, domain.ErrBadParamInput)
	})
}

func TestUpdateReply(t *testing.T) {
	f := setup(t)
	a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
	other := f.create(t, f.post.ID, nil, f.alice.ID, "other root")
	b := f.create(t, f.post.ID, &a.ID, f.bob.ID, "reply")

	_, err := f.svc.UpdateReply(context.TODO(), b.ID, other.ID, "moved?", f.bob.ID)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	_, err = f.svc.UpdateReply(context.TODO(), a.ID, other.ID, "root is no reply", f.alice.ID)
	assert.ErrorIs(t, err, domain.ErrBadParamInput)

	updated, err := f.svc.UpdateReply(context.TODO(), b.ID, a.ID, "fixed typo", f.bob.ID)
	require.NoError(t, err)
	assert.Equal(t, "fixed typo", updated.Content)
	require.NotNil(t, updated.ParentID)
	assert.Equal(t, a.ID, *updated.ParentID)
}

func TestDelete(t *testing.T) {
	t.Run("reply removes only itself", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
		b := f.create(t, f.post.ID, &a.ID, f.bob.ID, "b")
		c := f.create(t, f.post.ID, &a.ID, f.alice.ID, "c")

		require.NoError(t, f.svc.Delete(context.TODO(), b.ID, f.bob.ID))

		_, ok := f.store.Comment(b.ID)
		assert.False(t, ok)
		_, ok = f.store.Comment(a.ID)
		assert.True(t, ok)
		_, ok = f.store.Comment(c.ID)
		assert.True(t, ok)

		page, err := f.svc.ListRoots(context.TODO(), f.post.ID, firstPage(), 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.True(t, page.Items[0].HasReplies)
	})

	t.Run("root removes replies and their likes", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
		b := f.create(t, f.post.ID, &a.ID, f.bob.ID, "b")
		f.store.AddLike(f.alice.ID, domain.CommentTarget{CommentID: b.ID})
		f.store.AddLike(f.bob.ID, domain.CommentTarget{CommentID: a.ID})

		require.NoError(t, f.svc.Delete(context.TODO(), a.ID, f.alice.ID))

		assert.Zero(t, f.store.CommentCount())
		assert.Zero(t, f.store.LikeCount(domain.CommentTarget{CommentID: a.ID}))
		assert.Zero(t, f.store.LikeCount(domain.CommentTarget{CommentID: b.ID}))
	})

	t.Run("failed like cleanup does not fail the delete", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")
		f.store.FailOn("likes.DeleteByTargets", errors.New("db down"))

		assert.NoError(t, f.svc.Delete(context.TODO(), a.ID, f.alice.ID))
		_, ok := f.store.Comment(a.ID)
		assert.False(t, ok)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		f := setup(t)
		a := f.create(t, f.post.ID, nil, f.alice.ID, "root")

		assert.ErrorIs(t, f.svc.Delete(context.TODO(), a.ID, f.bob.ID), domain.ErrForbidden)
		_, ok := f.store.Comment(a.ID)
		assert.True(t, ok)
	})

	t.Run("missing comment", func(t *testing.T) {
		f := setup(t)
		assert.ErrorIs(t, f.svc.Delete(context.TODO(), 999, f.alice.ID), domain.ErrNotFound)
	})
}
