package middleware

import (
	"errors"
	"net/http"
	"strings"

	"devconnector-api/internal/delivery/http/response"
	"devconnector-api/internal/domain"
	"devconnector-api/pkg/apperror"
	"devconnector-api/pkg/auth"

	"github.com/gin-gonic/gin"
)

const HeaderAuthToken = "x-auth-token"

// AuthMiddleware resolves the caller from x-auth-token, falling back to an
// Authorization bearer header, and stores the user id under domain.KeyUserID.
func AuthMiddleware(resolver domain.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, auth.MsgNoToken)
			return
		}

		identity, err := resolver.Resolve(c.Request.Context(), token)
		if err != nil {
			msg := auth.MsgInvalidToken
			var appErr *apperror.AppError
			if errors.As(err, &appErr) && appErr.Kind == apperror.KindUnauthorized {
				msg = appErr.Message
			}
			response.Error(c, http.StatusUnauthorized, msg)
			return
		}

		c.Set(string(domain.KeyUserID), identity.UserID)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if token := strings.TrimSpace(c.GetHeader(HeaderAuthToken)); token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// IdentityFrom returns the identity set by AuthMiddleware.
func IdentityFrom(c *gin.Context) domain.Identity {
	return domain.Identity{UserID: c.GetString(string(domain.KeyUserID))}
}
