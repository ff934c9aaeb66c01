package request

// Comment is the body of a create or update comment request.
type Comment struct {
	Content string `json:"content" binding:"required,notblank"`
}
