package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bukhari-academy/academy-api/internal/authz"
	appErrors "github.com/bukhari-academy/academy-api/pkg/errors"
	"github.com/bukhari-academy/academy-api/pkg/response"
)

// Authorize gates a route on the access decision table. Scoped reads still
// pass here; the service narrows them to the caller's records.
func Authorize(resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if d := authz.Decide(claims.Role, resource, action); !d.Allowed {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
