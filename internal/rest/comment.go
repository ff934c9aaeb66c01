package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/rest/request"
	"github.com/Guyuepp/go-clean-social/internal/rest/response"
)

// CommentHandler represent the httphandler for comments
type CommentHandler struct {
	Service domain.CommentUsecase
}

func NewCommentHandler(svc domain.CommentUsecase) *CommentHandler {
	return &CommentHandler{
		Service: svc,
	}
}

// Create stores a root comment, or a reply when parentCommentId is given.
func (h *CommentHandler) Create(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	postID, err := parseID(c.Query("postId"), "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	var parentID *int64
	if raw := c.Query("parentCommentId"); raw != "" {
		id, err := parseID(raw, "parentCommentId")
		if err != nil {
			respondError(c, err)
			return
		}
		parentID = &id
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment := domain.Comment{
		PostID:   postID,
		ParentID: parentID,
		AuthorID: uid,
		Content:  req.Content,
	}
	if err := h.Service.Create(c.Request.Context(), &comment); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Comment created successfully",
		"data":    response.NewCommentFromDomain(&comment),
	})
}

// ListRoots lists the root comments of a post, newest first. Each item's
// isSubComment mirrors hasReplies, so a root with replies reports
// isSubComment=true.
func (h *CommentHandler) ListRoots(c *gin.Context) {
	postID, err := paramID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	page, err := h.Service.ListRoots(c.Request.Context(), postID, pagination(c), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comments fetched successfully",
		"data":    response.NewCommentPageFromDomain(page),
	})
}

// ListReplies lists every reply of a comment, oldest first.
func (h *CommentHandler) ListReplies(c *gin.Context) {
	commentID, err := paramID(c, "commentId")
	if err != nil {
		respondError(c, err)
		return
	}

	replies, err := h.Service.ListReplies(c.Request.Context(), commentID, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Replies fetched successfully",
		"data":    response.NewCommentViewsFromDomain(replies),
	})
}

func (h *CommentHandler) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.Service.Update(c.Request.Context(), commentID, req.Content, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondUpdated(c, updated)
}

// UpdateReply updates a reply addressed through its parent comment.
func (h *CommentHandler) UpdateReply(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		respondError(c, err)
		return
	}
	parentID, err := paramID(c, "parentCommentId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req request.Comment
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	updated, err := h.Service.UpdateReply(c.Request.Context(), commentID, parentID, req.Content, uid)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondUpdated(c, updated)
}

func (h *CommentHandler) respondUpdated(c *gin.Context, updated domain.Comment) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment updated successfully",
		"comment": response.NewCommentFromDomain(&updated),
	})
}

// Delete removes a comment; a root comment takes its replies with it.
func (h *CommentHandler) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Service.Delete(c.Request.Context(), commentID, uid); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Comment deleted successfully",
	})
}
