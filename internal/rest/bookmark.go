package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/rest/response"
)

type BookmarkHandler struct {
	Service     domain.BookmarkUsecase
	PostService domain.PostUsecase
}

func NewBookmarkHandler(svc domain.BookmarkUsecase, posts domain.PostUsecase) *BookmarkHandler {
	return &BookmarkHandler{
		Service:     svc,
		PostService: posts,
	}
}

func (h *BookmarkHandler) Toggle(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		respondError(c, err)
		return
	}

	bookmarked, err := h.Service.Toggle(c.Request.Context(), uid, postID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Bookmark removed successfully"
	if bookmarked {
		msg = "Post bookmarked successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      msg,
		"isBookmarked": bookmarked,
	})
}

// Mine lists the posts bookmarked by the current user.
func (h *BookmarkHandler) Mine(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}

	page, err := h.PostService.FetchBookmarked(c.Request.Context(), uid, pagination(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Bookmarks fetched successfully",
		"data":    response.NewPostListFromDomain(page),
	})
}
