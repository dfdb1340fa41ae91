package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/trackmint/expense_tracker_app/internal/core/domain"
)

// principalKey is the key used to store the authenticated principal in the
// request context.
const principalKey = contextKey("principal")

// GetPrincipalFromContext retrieves the authenticated principal from the Gin
// context. It returns the principal and a boolean indicating if it was found.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	principal, ok := c.Request.Context().Value(principalKey).(domain.Principal)
	if !ok {
		return domain.Principal{}, false
	}
	return principal, true
}
