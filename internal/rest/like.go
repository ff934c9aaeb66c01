package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Guyuepp/go-clean-social/domain"
)

type LikeHandler struct {
	Service domain.LikeUsecase
}

func NewLikeHandler(svc domain.LikeUsecase) *LikeHandler {
	return &LikeHandler{
		Service: svc,
	}
}

func (h *LikeHandler) TogglePost(c *gin.Context) {
	h.toggle(c, domain.TargetPost, "postId")
}

func (h *LikeHandler) ToggleComment(c *gin.Context) {
	h.toggle(c, domain.TargetComment, "commentId")
}

func (h *LikeHandler) toggle(c *gin.Context, kind domain.TargetKind, param string) {
	uid, ok := requireUser(c)
	if !ok {
		return
	}
	id, err := paramID(c, param)
	if err != nil {
		respondError(c, err)
		return
	}
	target, err := domain.NewLikeTarget(kind, id)
	if err != nil {
		respondError(c, err)
		return
	}

	liked, err := h.Service.Toggle(c.Request.Context(), uid, target)
	if err != nil {
		respondError(c, err)
		return
	}

	msg := "Like removed from " + kind.String()
	if liked {
		msg = "Like added to " + kind.String()
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msg,
		"isLiked": liked,
	})
}
