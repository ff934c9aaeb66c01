package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/rest/request"
	"github.com/Guyuepp/go-clean-social/internal/rest/response"
)

// PostHandler  represent the httphandler for post
type PostHandler struct {
	Service domain.PostUsecase
}

func NewPostHandler(svc domain.PostUsecase) *PostHandler {
	return &PostHandler{
		Service: svc,
	}
}

// Feed lists published posts, newest first.
func (h *PostHandler) Feed(c *gin.Context) {
	page, err := h.Service.Fetch(c.Request.Context(), pagination(c), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPostList(c, page)
}

// FetchByUser lists the posts of the user named in the path.
func (h *PostHandler) FetchByUser(c *gin.Context) {
	page, err := h.Service.FetchByAuthor(c.Request.Context(), c.Param("username"), pagination(c), viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondPostList(c, page)
}

// GetByID will get post by given id
func (h *PostHandler) GetByID(c *gin.Context) {
	id, err := paramID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.Service.GetByID(c.Request.Context(), id, viewerID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post fetched successfully",
		"post":    response.NewPostViewFromDomain(&view),
	})
}

// Store will store the post by given request body
func (h *PostHandler) Store(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	var req request.Post
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post := req.ToDomain()
	post.AuthorID = uid
	if err := h.Service.Store(c.Request.Context(), &post); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Post created successfully",
		"data":    response.NewPostFromDomain(&post),
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := paramID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	var req request.PostPatch
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	post, err := h.Service.Update(c.Request.Context(), id, req.ToDomain(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post updated successfully",
		"data":    response.NewPostFromDomain(&post),
	})
}

// TogglePublish flips a post between published and draft.
func (h *PostHandler) TogglePublish(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := paramID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	post, err := h.Service.TogglePublish(c.Request.Context(), id, uid)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Post unpublished successfully"
	if post.IsPublished {
		msg = "Post published successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
		"data":    response.NewPostFromDomain(&post),
	})
}

// Delete will delete the post by given param
func (h *PostHandler) Delete(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := paramID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.Service.Delete(c.Request.Context(), id, uid); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Post deleted successfully",
		"data":    gin.H{"id": id},
	})
}

func respondPostList(c *gin.Context, page domain.PostPage) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Posts fetched successfully",
		"data":    response.NewPostListFromDomain(page),
	})
}
