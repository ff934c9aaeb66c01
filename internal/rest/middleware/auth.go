package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// UserIDKey is the gin context key holding the authenticated user id (int64).
const UserIDKey = "user_id"

const accessTokenCookie = "accessToken"

var (
	errNoToken       = errors.New("no access token")
	errInvalidClaims = errors.New("invalid token claims")
)

// AuthMiddleware rejects requests without a valid access token.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, err := extractUserID(c.Request, secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}
		c.Set(UserIDKey, uid)
		c.Next()
	}
}

// OptionalAuth sets the user id when a valid token is present and lets
// anonymous requests through otherwise.
func OptionalAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid, err := extractUserID(c.Request, secret); err == nil {
			c.Set(UserIDKey, uid)
		}
		c.Next()
	}
}

// extractUserID reads the token from the accessToken cookie first and the
// Authorization header second.
func extractUserID(r *http.Request, secret string) (int64, error) {
	var tokenString string
	if cookie, err := r.Cookie(accessTokenCookie); err == nil {
		tokenString = cookie.Value
	} else if token, found := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); found {
		tokenString = token
	}
	if tokenString == "" {
		return 0, errNoToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, errInvalidClaims
	}
	uid, ok := claims[UserIDKey].(float64)
	if !ok || uid <= 0 {
		return 0, errInvalidClaims
	}
	return int64(uid), nil
}
