package request

import "github.com/Guyuepp/go-clean-social/domain"

type Post struct {
	Content string `json:"content" binding:"required,notblank"`
	Tags    string `json:"tags" binding:"max=255"`
	Link    string `json:"link" binding:"omitempty,url,max=512"`
}

// ToDomain: Request -> Domain
func (r *Post) ToDomain() domain.Post {
	return domain.Post{
		Content: r.Content,
		Tags:    r.Tags,
		Link:    r.Link,
	}
}

// PostPatch is the body of an update request. Absent fields are left unchanged.
type PostPatch struct {
	Content *string `json:"content" binding:"omitempty,notblank"`
	Tags    *string `json:"tags" binding:"omitempty,max=255"`
	Link    *string `json:"link" binding:"omitempty,max=512"`
}

func (r *PostPatch) ToDomain() domain.PostPatch {
	return domain.PostPatch{
		Content: r.Content,
		Tags:    r.Tags,
		Link:    r.Link,
	}
}
