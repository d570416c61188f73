package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Miraines/MoonyAndStarry/task-service/internal/domain/auth/model"
	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (model.Identity, error)
}

// RequireAuth admits requests carrying "Authorization: Bearer <token>" with a
// valid access token. The caller's identity is put on both the gin context and
// the request context.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, "authorization header not found")
			return
		}
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "invalid authorization header format")
			return
		}

		id, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		c.Set(identityKey, id)
		c.Request = c.Request.WithContext(model.ContextWithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

// IdentityFrom returns the identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	id, ok := v.(model.Identity)
	return id, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
}
