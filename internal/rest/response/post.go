package response

import "github.com/Guyuepp/go-clean-social/domain"

type Post struct {
	ID          int64  `json:"id"`
	AuthorID    int64  `json:"authorId"`
	Content     string `json:"content"`
	Tags        string `json:"tags"`
	Link        string `json:"link"`
	IsPublished bool   `json:"isPublished"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

// NewPostFromDomain: Domain -> Response
func NewPostFromDomain(p *domain.Post) Post {
	return Post{
		ID:          p.ID,
		AuthorID:    p.AuthorID,
		Content:     p.Content,
		Tags:        p.Tags,
		Link:        p.Link,
		IsPublished: p.IsPublished,
		CreatedAt:   p.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:   p.UpdatedAt.Format(DateTimeFormat),
	}
}

type PostView struct {
	Post
	Author           *User `json:"author"`
	TotalLikes       int64 `json:"totalLikes"`
	TotalComments    int64 `json:"totalComments"`
	IsLikedByMe      bool  `json:"isLikedByMe"`
	IsBookmarkedByMe bool  `json:"isBookmarkedByMe"`
	IsMyPost         bool  `json:"isMyPost"`
}

func NewPostViewFromDomain(v *domain.PostView) PostView {
	return PostView{
		Post:             NewPostFromDomain(&v.Post),
		Author:           NewUserFromDomain(v.Author),
		TotalLikes:       v.TotalLikes,
		TotalComments:    v.TotalComments,
		IsLikedByMe:      v.LikedByViewer,
		IsBookmarkedByMe: v.BookmarkedByViewer,
		IsMyPost:         v.IsMine,
	}
}

// PostList is the body of every post listing.
type PostList struct {
	Posts      []PostView `json:"posts"`
	Pagination Pagination `json:"pagination"`
}

func NewPostListFromDomain(p domain.PostPage) PostList {
	posts := make([]PostView, len(p.Items))
	for i := range p.Items {
		posts[i] = NewPostViewFromDomain(&p.Items[i])
	}
	return PostList{
		Posts:      posts,
		Pagination: NewPagination(p.Page, p.Limit, p.TotalPages, p.TotalCount),
	}
}
