package rest

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Guyuepp/go-clean-social/domain"
	"github.com/Guyuepp/go-clean-social/internal/rest/middleware"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const internalErrorMessage = "Something went wrong, please try again later"

// getStatusCode will get the code of the error from the usecases
func getStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrBadParamInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a ResponseError. Internal errors are logged and
// replaced by a generic message.
func respondError(c *gin.Context, err error) {
	code := getStatusCode(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		logrus.WithField(middleware.RequestIDKey, c.GetString(middleware.RequestIDKey)).
			Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		msg = internalErrorMessage
	}
	_ = c.Error(err)
	c.JSON(code, ResponseError{Message: msg})
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, fmt.Errorf("%w: %s", domain.ErrBadParamInput, err.Error()))
}

func parseID(raw, name string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrBadParamInput, name)
	}
	return id, nil
}

func paramID(c *gin.Context, name string) (int64, error) {
	return parseID(c.Param(name), name)
}

// viewerID returns the authenticated user or 0 for anonymous requests.
func viewerID(c *gin.Context) int64 {
	return c.GetInt64(middleware.UserIDKey)
}

// requireUser returns the authenticated user id or answers 401.
func requireUser(c *gin.Context) (int64, bool) {
	uid := viewerID(c)
	if uid == 0 {
		respondError(c, domain.ErrUnauthorized)
		return 0, false
	}
	return uid, true
}

// pagination reads page and limit. Missing or malformed values fall back to
// the defaults.
func pagination(c *gin.Context) domain.Pagination {
	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	limit, _ := strconv.ParseInt(c.Query("limit"), 10, 64)
	return domain.NewPagination(page, limit)
}
