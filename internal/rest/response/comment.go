package response

import "github.com/Guyuepp/go-clean-social/domain"

type Comment struct {
	ID              int64  `json:"id"`
	PostID          int64  `json:"postId"`
	AuthorID        int64  `json:"authorId"`
	ParentCommentID *int64 `json:"parentCommentId"`
	Content         string `json:"content"`
	CreatedAt       string `json:"createdAt"`
	UpdatedAt       string `json:"updatedAt"`
}

// NewCommentFromDomain: Domain -> Response
func NewCommentFromDomain(c *domain.Comment) Comment {
	return Comment{
		ID:              c.ID,
		PostID:          c.PostID,
		AuthorID:        c.AuthorID,
		ParentCommentID: c.ParentID,
		Content:         c.Content,
		CreatedAt:       c.CreatedAt.Format(DateTimeFormat),
		UpdatedAt:       c.UpdatedAt.Format(DateTimeFormat),
	}
}

// CommentView is a comment as listed under a post or a parent comment.
// IsSubComment carries the same value as HasReplies for older clients: a root
// with replies reports isSubComment=true, and replies always report false.
type CommentView struct {
	Comment
	Author       *User `json:"author"`
	LikeCount    int64 `json:"likeCount"`
	HasReplies   bool  `json:"hasReplies"`
	IsSubComment bool  `json:"isSubComment"`
	IsLikedByMe  bool  `json:"isLikedByMe"`
}

func NewCommentViewFromDomain(v *domain.CommentView) CommentView {
	return CommentView{
		Comment:      NewCommentFromDomain(&v.Comment),
		Author:       NewUserFromDomain(v.Author),
		LikeCount:    v.LikeCount,
		HasReplies:   v.HasReplies,
		IsSubComment: v.HasReplies,
		IsLikedByMe:  v.LikedByViewer,
	}
}

func NewCommentViewsFromDomain(views []domain.CommentView) []CommentView {
	res := make([]CommentView, len(views))
	for i := range views {
		res[i] = NewCommentViewFromDomain(&views[i])
	}
	return res
}

// CommentPage is the body of a root comment listing.
type CommentPage struct {
	Data          []CommentView `json:"data"`
	CurrentPage   int64         `json:"currentPage"`
	TotalPages    int64         `json:"totalPages"`
	TotalComments int64         `json:"totalComments"`
}

func NewCommentPageFromDomain(p domain.CommentPage) CommentPage {
	return CommentPage{
		Data:          NewCommentViewsFromDomain(p.Items),
		CurrentPage:   p.Page,
		TotalPages:    p.TotalPages,
		TotalComments: p.TotalCount,
	}
}
