package rest

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/rest/response"
)

type FollowHandler struct {
	Service domain.FollowUsecase
}

func NewFollowHandler(svc domain.FollowUsecase) *FollowHandler {
	return &FollowHandler{
		Service: svc,
	}
}

func (h *FollowHandler) Toggle(c *gin.Context) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	followingID, err := paramID(c, "followingId")
	if err != nil {
		respondError(c, err)
		return
	}

	following, err := h.Service.Toggle(c.Request.Context(), uid, followingID)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "User unfollowed successfully"
	if following {
		msg = "User followed successfully"
	}
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   msg,
		"following": following,
	})
}

func (h *FollowHandler) Followers(c *gin.Context) {
	h.list(c, "Followers fetched successfully", h.Service.Followers)
}

func (h *FollowHandler) Followings(c *gin.Context) {
	h.list(c, "Followings fetched successfully", h.Service.Followings)
}

func (h *FollowHandler) list(
	c *gin.Context,
	msg string,
	fetch func(ctx context.Context, username string, p domain.Pagination) (domain.FollowPage, error),
) {
	p := pagination(c)
	page, err := fetch(c.Request.Context(), c.Param("username"), p)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
		"data":    response.NewFollowListFromDomain(page, p.Limit),
	})
}
