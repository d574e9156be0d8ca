package middleware

import (
	"net/http"
	"strings"

	"novastay/internal/pkg/jwt"
	"novastay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

type tokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}

// JWTAuth requires "Authorization: Bearer <token>" and stores the staff id
// and role in the gin context.
func JWTAuth(v tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Abort(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			response.Abort(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be Bearer <token>")
			return
		}

		authenticate(c, v, strings.TrimSpace(token))
	}
}

// QueryTokenAuth reads the token from the "token" query parameter. Browsers
// cannot set headers on WebSocket upgrades, so the event stream uses this.
func QueryTokenAuth(v tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			response.Abort(c, http.StatusUnauthorized, "TOKEN_MISSING", "token query parameter is required")
			return
		}
		authenticate(c, v, token)
	}
}

func authenticate(c *gin.Context, v tokenValidator, token string) {
	claims, err := v.ValidateToken(token)
	if err != nil {
		response.Abort(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
		return
	}

	c.Set(ctxUserID, claims.UserID)
	c.Set(ctxRole, claims.Role)
	c.Next()
}
