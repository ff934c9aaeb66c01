// Package usecasetest provides an in-memory implementation of the domain
// repositories for usecase tests.
package usecasetest

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/Guyuepp/go-clean-social/domain"
)

// Store keeps every entity in memory. Uniqueness of likes, bookmarks and
// follows is enforced the way the database does it: Store returns
// domain.ErrConflict.
type Store struct {
	mu        sync.Mutex
	lastID    int64
	users     map[int64]domain.User
	posts     map[int64]domain.Post
	comments  map[int64]domain.Comment
	likes     []domain.Like
	bookmarks []domain.Bookmark
	follows   []domain.Follow
	bloom     map[int64]bool
	failures  map[string]error
	calls     map[string]int
}

func NewStore() *Store {
	return &Store{
		users:    map[int64]domain.User{},
		posts:    map[int64]domain.Post{},
		comments: map[int64]domain.Comment{},
		bloom:    map[int64]bool{},
		failures: map[string]error{},
		calls:    map[string]int{},
	}
}

// FailOn makes op (for example "likes.Store") return err from now on.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// Calls reports how many times op ran.
func (s *Store) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// enter locks the store, counts the call and returns the injected failure.
// Callers must unlock.
func (s *Store) enter(op string) error {
	s.mu.Lock()
	s.calls[op]++
	return s.failures[op]
}

func (s *Store) nextID() int64 {
	s.lastID++
	return s.lastID
}

func (s *Store) AddUser(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID()
	}
	s.users[u.ID] = u
	return u
}

// AddPost stores p as published unless told otherwise and registers it in
// the bloom filter.
func (s *Store) AddPost(p domain.Post) domain.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == 0 {
		p.ID = s.nextID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
		p.UpdatedAt = p.CreatedAt
	}
	s.posts[p.ID] = p
	s.bloom[p.ID] = true
	return p
}

func (s *Store) AddComment(c domain.Comment) domain.Comment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.nextID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
		c.UpdatedAt = c.CreatedAt
	}
	s.comments[c.ID] = c
	return c
}

func (s *Store) AddLike(authorID int64, target domain.LikeTarget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.likes = append(s.likes, domain.Like{AuthorID: authorID, Target: target, CreatedAt: time.Now()})
}

func (s *Store) AddBookmark(authorID, postID int64) {
	s.AddBookmarkAt(authorID, postID, time.Now())
}

// AddBookmarkAt stores a bookmark created at at.
func (s *Store) AddBookmarkAt(authorID, postID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookmarks = append(s.bookmarks, domain.Bookmark{AuthorID: authorID, PostID: postID, CreatedAt: at})
}

func (s *Store) AddFollow(followerID, followingID int64) {
	s.AddFollowAt(followerID, followingID, time.Now())
}

// AddFollowAt stores a follow created at at.
func (s *Store) AddFollowAt(followerID, followingID int64, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.follows = append(s.follows, domain.Follow{FollowerID: followerID, FollowingID: followingID, CreatedAt: at})
}

// newestFirst returns the positions of rows matching keep ordered the way
// the relation tables are read: created_at DESC, id DESC. Position in the
// slice stands in for the auto-increment id.
func newestFirst[T any](rows []T, keep func(T) bool, createdAt func(T) time.Time) []int {
	var idx []int
	for i, row := range rows {
		if keep(row) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ta, tb := createdAt(rows[idx[a]]), createdAt(rows[idx[b]])
		if !ta.Equal(tb) {
			return ta.After(tb)
		}
		return idx[a] > idx[b]
	})
	return idx
}

// Comment returns the stored comment and whether it exists.
func (s *Store) Comment(id int64) (domain.Comment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	return c, ok
}

func (s *Store) Post(id int64) (domain.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	return p, ok
}

func (s *Store) CommentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.comments)
}

// LikeCount counts like records on target.
func (s *Store) LikeCount(target domain.LikeTarget) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, l := range s.likes {
		if l.Target == target {
			n++
		}
	}
	return n
}

func (s *Store) BookmarkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bookmarks)
}

func (s *Store) Users() domain.UserRepository         { return userRepo{s} }
func (s *Store) Posts() domain.PostRepository         { return postRepo{s} }
func (s *Store) Comments() domain.CommentRepository   { return commentRepo{s} }
func (s *Store) Likes() domain.LikeRepository         { return likeRepo{s} }
func (s *Store) Bookmarks() domain.BookmarkRepository { return bookmarkRepo{s} }
func (s *Store) Follows() domain.FollowRepository     { return followRepo{s} }
func (s *Store) Bloom() domain.BloomRepository        { return bloomRepo{s} }

type userRepo struct{ s *Store }

func (r userRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	if err := r.s.enter("users.GetByID"); err != nil {
		r.s.mu.Unlock()
		return domain.User{}, err
	}
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (r userRepo) GetByUsername(ctx context.Context, username string) (domain.User, error) {
	if err := r.s.enter("users.GetByUsername"); err != nil {
		r.s.mu.Unlock()
		return domain.User{}, err
	}
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (r userRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.User, error) {
	if err := r.s.enter("users.GetByIDs"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	var res []domain.User
	for _, id := range ids {
		if u, ok := r.s.users[id]; ok {
			res = append(res, u)
		}
	}
	return res, nil
}

type postRepo struct{ s *Store }

func (r postRepo) GetByID(ctx context.Context, id int64) (domain.Post, error) {
	if err := r.s.enter("posts.GetByID"); err != nil {
		r.s.mu.Unlock()
		return domain.Post{}, err
	}
	defer r.s.mu.Unlock()
	p, ok := r.s.posts[id]
	if !ok {
		return domain.Post{}, domain.ErrNotFound
	}
	return p, nil
}

func (r postRepo) GetByIDs(ctx context.Context, ids []int64) ([]domain.Post, error) {
	if err := r.s.enter("posts.GetByIDs"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	var res []domain.Post
	for _, id := range ids {
		if p, ok := r.s.posts[id]; ok {
			res = append(res, p)
		}
	}
	return res, nil
}

// filterPosts returns matching posts newest first. Caller holds the lock.
func (r postRepo) filterPosts(keep func(domain.Post) bool) []domain.Post {
	var res []domain.Post
	for _, p := range r.s.posts {
		if keep(p) {
			res = append(res, p)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		if !res[i].CreatedAt.Equal(res[j].CreatedAt) {
			return res[i].CreatedAt.After(res[j].CreatedAt)
		}
		return res[i].ID > res[j].ID
	})
	return res
}

func (r postRepo) FetchPublished(ctx context.Context, offset, limit int64) ([]domain.Post, error) {
	if err := r.s.enter("posts.FetchPublished"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	return window(r.filterPosts(func(p domain.Post) bool { return p.IsPublished }), offset, limit), nil
}

func (r postRepo) CountPublished(ctx context.Context) (int64, error) {
	if err := r.s.enter("posts.CountPublished"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return int64(len(r.filterPosts(func(p domain.Post) bool { return p.IsPublished }))), nil
}

func (r postRepo) byAuthor(authorID int64, publishedOnly bool) []domain.Post {
	return r.filterPosts(func(p domain.Post) bool {
		return p.AuthorID == authorID && (p.IsPublished || !publishedOnly)
	})
}

func (r postRepo) FetchByAuthor(ctx context.Context, authorID int64, publishedOnly bool, offset, limit int64) ([]domain.Post, error) {
	if err := r.s.enter("posts.FetchByAuthor"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	return window(r.byAuthor(authorID, publishedOnly), offset, limit), nil
}

func (r postRepo) CountByAuthor(ctx context.Context, authorID int64, publishedOnly bool) (int64, error) {
	if err := r.s.enter("posts.CountByAuthor"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return int64(len(r.byAuthor(authorID, publishedOnly))), nil
}

func (r postRepo) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	if err := r.s.enter("posts.FetchIDs"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	var ids []int64
	for id := range r.s.posts {
		if id > cursor {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if int64(len(ids)) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

func (r postRepo) Store(ctx context.Context, p *domain.Post) error {
	if err := r.s.enter("posts.Store"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	p.ID = r.s.nextID()
	r.s.posts[p.ID] = *p
	r.s.bloom[p.ID] = true
	return nil
}

func (r postRepo) Update(ctx context.Context, p *domain.Post) error {
	if err := r.s.enter("posts.Update"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[p.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.posts[p.ID] = *p
	return nil
}

func (r postRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.enter("posts.Delete"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.posts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.posts, id)
	return nil
}

type commentRepo struct{ s *Store }

func (r commentRepo) Store(ctx context.Context, c *domain.Comment) error {
	if err := r.s.enter("comments.Store"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID()
	r.s.comments[c.ID] = *c
	return nil
}

func (r commentRepo) GetByID(ctx context.Context, id int64) (domain.Comment, error) {
	if err := r.s.enter("comments.GetByID"); err != nil {
		r.s.mu.Unlock()
		return domain.Comment{}, err
	}
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return domain.Comment{}, domain.ErrNotFound
	}
	return c, nil
}

// filterComments returns matching comments ordered by created_at then id,
// descending when desc is set. Caller holds the lock.
func (r commentRepo) filterComments(keep func(domain.Comment) bool, desc bool) []domain.Comment {
	var res []domain.Comment
	for _, c := range r.s.comments {
		if keep(c) {
			res = append(res, c)
		}
	}
	sort.Slice(res, func(i, j int) bool {
		a, b := res[i], res[j]
		if desc {
			a, b = b, a
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return res
}

func isRootOf(postID int64) func(domain.Comment) bool {
	return func(c domain.Comment) bool { return c.PostID == postID && c.ParentID == nil }
}

func isReplyOf(parentID int64) func(domain.Comment) bool {
	return func(c domain.Comment) bool { return c.ParentID != nil && *c.ParentID == parentID }
}

func (r commentRepo) FetchRoots(ctx context.Context, postID int64, offset, limit int64) ([]domain.Comment, error) {
	if err := r.s.enter("comments.FetchRoots"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	return window(r.filterComments(isRootOf(postID), true), offset, limit), nil
}

func (r commentRepo) CountRoots(ctx context.Context, postID int64) (int64, error) {
	if err := r.s.enter("comments.CountRoots"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return int64(len(r.filterComments(isRootOf(postID), true))), nil
}

func (r commentRepo) FetchReplies(ctx context.Context, parentID int64) ([]domain.Comment, error) {
	if err := r.s.enter("comments.FetchReplies"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	return r.filterComments(isReplyOf(parentID), false), nil
}

func (r commentRepo) CountRepliesByParents(ctx context.Context, parentIDs []int64) (map[int64]int64, error) {
	if err := r.s.enter("comments.CountRepliesByParents"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	res := map[int64]int64{}
	for _, c := range r.s.comments {
		if c.ParentID != nil && slices.Contains(parentIDs, *c.ParentID) {
			res[*c.ParentID]++
		}
	}
	return res, nil
}

func (r commentRepo) CountByPosts(ctx context.Context, postIDs []int64) (map[int64]int64, error) {
	if err := r.s.enter("comments.CountByPosts"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	res := map[int64]int64{}
	for _, c := range r.s.comments {
		if slices.Contains(postIDs, c.PostID) {
			res[c.PostID]++
		}
	}
	return res, nil
}

func (r commentRepo) FetchIDsByPost(ctx context.Context, postID int64) ([]int64, error) {
	if err := r.s.enter("comments.FetchIDsByPost"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	var ids []int64
	for _, c := range r.s.comments {
		if c.PostID == postID {
			ids = append(ids, c.ID)
		}
	}
	return ids, nil
}

func (r commentRepo) UpdateContent(ctx context.Context, id int64, content string, updatedAt time.Time) error {
	if err := r.s.enter("comments.UpdateContent"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return domain.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = updatedAt
	r.s.comments[id] = c
	return nil
}

func (r commentRepo) Delete(ctx context.Context, id int64) error {
	if err := r.s.enter("comments.Delete"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if _, ok := r.s.comments[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.comments, id)
	return nil
}

func (r commentRepo) deleteWhere(keep func(domain.Comment) bool) int64 {
	var n int64
	for id, c := range r.s.comments {
		if keep(c) {
			delete(r.s.comments, id)
			n++
		}
	}
	return n
}

func (r commentRepo) DeleteByParent(ctx context.Context, parentID int64) (int64, error) {
	if err := r.s.enter("comments.DeleteByParent"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return r.deleteWhere(isReplyOf(parentID)), nil
}

func (r commentRepo) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	if err := r.s.enter("comments.DeleteByPost"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return r.deleteWhere(func(c domain.Comment) bool { return c.PostID == postID }), nil
}

type likeRepo struct{ s *Store }

func (r likeRepo) indexOf(authorID int64, target domain.LikeTarget) int {
	return slices.IndexFunc(r.s.likes, func(l domain.Like) bool {
		return l.AuthorID == authorID && l.Target == target
	})
}

func (r likeRepo) Store(ctx context.Context, l *domain.Like) error {
	if err := r.s.enter("likes.Store"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if r.indexOf(l.AuthorID, l.Target) >= 0 {
		return domain.ErrConflict
	}
	r.s.likes = append(r.s.likes, *l)
	return nil
}

func (r likeRepo) Exists(ctx context.Context, authorID int64, target domain.LikeTarget) (bool, error) {
	if err := r.s.enter("likes.Exists"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	return r.indexOf(authorID, target) >= 0, nil
}

func (r likeRepo) Delete(ctx context.Context, authorID int64, target domain.LikeTarget) (bool, error) {
	if err := r.s.enter("likes.Delete"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	i := r.indexOf(authorID, target)
	if i < 0 {
		return false, nil
	}
	r.s.likes = slices.Delete(r.s.likes, i, i+1)
	return true, nil
}

func (r likeRepo) CountByTargets(ctx context.Context, kind domain.TargetKind, ids []int64) (map[int64]int64, error) {
	if err := r.s.enter("likes.CountByTargets"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	res := map[int64]int64{}
	for _, l := range r.s.likes {
		if l.Target.Kind() == kind && slices.Contains(ids, l.Target.TargetID()) {
			res[l.Target.TargetID()]++
		}
	}
	return res, nil
}

func (r likeRepo) FetchLikedTargets(ctx context.Context, kind domain.TargetKind, ids []int64, authorID int64) ([]int64, error) {
	if err := r.s.enter("likes.FetchLikedTargets"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	var res []int64
	for _, l := range r.s.likes {
		if l.AuthorID == authorID && l.Target.Kind() == kind && slices.Contains(ids, l.Target.TargetID()) {
			res = append(res, l.Target.TargetID())
		}
	}
	return res, nil
}

func (r likeRepo) DeleteByTargets(ctx context.Context, kind domain.TargetKind, ids []int64) (int64, error) {
	if err := r.s.enter("likes.DeleteByTargets"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	before := len(r.s.likes)
	r.s.likes = slices.DeleteFunc(r.s.likes, func(l domain.Like) bool {
		return l.Target.Kind() == kind && slices.Contains(ids, l.Target.TargetID())
	})
	return int64(before - len(r.s.likes)), nil
}

type bookmarkRepo struct{ s *Store }

func (r bookmarkRepo) indexOf(authorID, postID int64) int {
	return slices.IndexFunc(r.s.bookmarks, func(b domain.Bookmark) bool {
		return b.AuthorID == authorID && b.PostID == postID
	})
}

func (r bookmarkRepo) Store(ctx context.Context, b *domain.Bookmark) error {
	if err := r.s.enter("bookmarks.Store"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if r.indexOf(b.AuthorID, b.PostID) >= 0 {
		return domain.ErrConflict
	}
	r.s.bookmarks = append(r.s.bookmarks, *b)
	return nil
}

func (r bookmarkRepo) Exists(ctx context.Context, authorID, postID int64) (bool, error) {
	if err := r.s.enter("bookmarks.Exists"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	return r.indexOf(authorID, postID) >= 0, nil
}

func (r bookmarkRepo) Delete(ctx context.Context, authorID, postID int64) (bool, error) {
	if err := r.s.enter("bookmarks.Delete"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	i := r.indexOf(authorID, postID)
	if i < 0 {
		return false, nil
	}
	r.s.bookmarks = slices.Delete(r.s.bookmarks, i, i+1)
	return true, nil
}

func (r bookmarkRepo) FetchBookmarkedPosts(ctx context.Context, authorID int64, postIDs []int64) ([]int64, error) {
	if err := r.s.enter("bookmarks.FetchBookmarkedPosts"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	var res []int64
	for _, b := range r.s.bookmarks {
		if b.AuthorID == authorID && slices.Contains(postIDs, b.PostID) {
			res = append(res, b.PostID)
		}
	}
	return res, nil
}

// FetchPostIDsByAuthor returns bookmarked post ids ordered by
// created_at DESC, id DESC.
func (r bookmarkRepo) FetchPostIDsByAuthor(ctx context.Context, authorID int64, offset, limit int64) ([]int64, error) {
	if err := r.s.enter("bookmarks.FetchPostIDsByAuthor"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	idx := newestFirst(r.s.bookmarks,
		func(b domain.Bookmark) bool { return b.AuthorID == authorID },
		func(b domain.Bookmark) time.Time { return b.CreatedAt })
	ids := make([]int64, len(idx))
	for i, j := range idx {
		ids[i] = r.s.bookmarks[j].PostID
	}
	return window(ids, offset, limit), nil
}

func (r bookmarkRepo) CountByAuthor(ctx context.Context, authorID int64) (int64, error) {
	if err := r.s.enter("bookmarks.CountByAuthor"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	var n int64
	for _, b := range r.s.bookmarks {
		if b.AuthorID == authorID {
			n++
		}
	}
	return n, nil
}

func (r bookmarkRepo) DeleteByPost(ctx context.Context, postID int64) (int64, error) {
	if err := r.s.enter("bookmarks.DeleteByPost"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	before := len(r.s.bookmarks)
	r.s.bookmarks = slices.DeleteFunc(r.s.bookmarks, func(b domain.Bookmark) bool { return b.PostID == postID })
	return int64(before - len(r.s.bookmarks)), nil
}

type followRepo struct{ s *Store }

func (r followRepo) indexOf(followerID, followingID int64) int {
	return slices.IndexFunc(r.s.follows, func(f domain.Follow) bool {
		return f.FollowerID == followerID && f.FollowingID == followingID
	})
}

func (r followRepo) Store(ctx context.Context, f *domain.Follow) error {
	if err := r.s.enter("follows.Store"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	if r.indexOf(f.FollowerID, f.FollowingID) >= 0 {
		return domain.ErrConflict
	}
	r.s.follows = append(r.s.follows, *f)
	return nil
}

func (r followRepo) Exists(ctx context.Context, followerID, followingID int64) (bool, error) {
	if err := r.s.enter("follows.Exists"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	return r.indexOf(followerID, followingID) >= 0, nil
}

func (r followRepo) Delete(ctx context.Context, followerID, followingID int64) (bool, error) {
	if err := r.s.enter("follows.Delete"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	i := r.indexOf(followerID, followingID)
	if i < 0 {
		return false, nil
	}
	r.s.follows = slices.Delete(r.s.follows, i, i+1)
	return true, nil
}

// related returns the other side of every follow where match(f) is
// userID, ordered by created_at DESC, id DESC.
func (r followRepo) related(userID int64, match, other func(domain.Follow) int64) []int64 {
	idx := newestFirst(r.s.follows,
		func(f domain.Follow) bool { return match(f) == userID },
		func(f domain.Follow) time.Time { return f.CreatedAt })
	ids := make([]int64, len(idx))
	for i, j := range idx {
		ids[i] = other(r.s.follows[j])
	}
	return ids
}

func follower(f domain.Follow) int64  { return f.FollowerID }
func following(f domain.Follow) int64 { return f.FollowingID }

func (r followRepo) FetchFollowerIDs(ctx context.Context, userID int64, offset, limit int64) ([]int64, error) {
	if err := r.s.enter("follows.FetchFollowerIDs"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	return window(r.related(userID, following, follower), offset, limit), nil
}

func (r followRepo) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	if err := r.s.enter("follows.CountFollowers"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return int64(len(r.related(userID, following, follower))), nil
}

func (r followRepo) FetchFollowingIDs(ctx context.Context, userID int64, offset, limit int64) ([]int64, error) {
	if err := r.s.enter("follows.FetchFollowingIDs"); err != nil {
		r.s.mu.Unlock()
		return nil, err
	}
	defer r.s.mu.Unlock()
	return window(r.related(userID, follower, following), offset, limit), nil
}

func (r followRepo) CountFollowings(ctx context.Context, userID int64) (int64, error) {
	if err := r.s.enter("follows.CountFollowings"); err != nil {
		r.s.mu.Unlock()
		return 0, err
	}
	defer r.s.mu.Unlock()
	return int64(len(r.related(userID, follower, following))), nil
}

type bloomRepo struct{ s *Store }

func (r bloomRepo) Add(ctx context.Context, id int64) error {
	if err := r.s.enter("bloom.Add"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	r.s.bloom[id] = true
	return nil
}

func (r bloomRepo) Exists(ctx context.Context, id int64) (bool, error) {
	if err := r.s.enter("bloom.Exists"); err != nil {
		r.s.mu.Unlock()
		return false, err
	}
	defer r.s.mu.Unlock()
	return r.s.bloom[id], nil
}

func (r bloomRepo) BulkAdd(ctx context.Context, ids []int64) error {
	if err := r.s.enter("bloom.BulkAdd"); err != nil {
		r.s.mu.Unlock()
		return err
	}
	defer r.s.mu.Unlock()
	for _, id := range ids {
		r.s.bloom[id] = true
	}
	return nil
}

// Rebuild runs fetch without holding the lock since fetch reads the store.
// Like the redis filter it swaps in the fresh set and then adds ids stored
// after the last page. The fake always behaves as a built filter.
func (r bloomRepo) Rebuild(ctx context.Context, fetch func(ctx context.Context, cursor int64) ([]int64, error)) error {
	err := r.s.enter("bloom.Rebuild")
	r.s.mu.Unlock()
	if err != nil {
		return err
	}

	fresh := map[int64]bool{}
	var cursor int64
	for {
		ids, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		for _, id := range ids {
			fresh[id] = true
		}
		cursor = ids[len(ids)-1]
	}

	r.s.mu.Lock()
	r.s.bloom = fresh
	r.s.mu.Unlock()

	for {
		ids, err := fetch(ctx, cursor)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}
		r.s.mu.Lock()
		for _, id := range ids {
			r.s.bloom[id] = true
		}
		r.s.mu.Unlock()
		cursor = ids[len(ids)-1]
	}
}

func window[T any](items []T, offset, limit int64) []T {
	if offset >= int64(len(items)) {
		return nil
	}
	end := offset + limit
	if end > int64(len(items)) {
		end = int64(len(items))
	}
	return items[offset:end]
}
