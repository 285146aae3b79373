package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/TimashaWanninyake/intern-progress-analyzer/internal/auth"
	"github.com/TimashaWanninyake/intern-progress-analyzer/pkg/api"
)

const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
	ContextRole   = "user_role"
)

// Auth checks for a valid Bearer token in the Authorization header and
// stashes the verified identity on the gin context.
func Auth(svc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			problem := api.UnauthorizedError("Missing Authorization header")
			c.AbortWithStatusJSON(problem.Status, problem)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			problem := api.UnauthorizedError("Invalid Authorization header format")
			c.AbortWithStatusJSON(problem.Status, problem)
			return
		}

		claims, err := svc.ValidateToken(parts[1])
		if err != nil {
			problem := api.UnauthorizedError("Invalid or expired token")
			c.AbortWithStatusJSON(problem.Status, problem)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRoles allows the request through only when the authenticated
// user holds one of the given roles. Must run after Auth.
func RequireRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if !allowed[role] {
			problem := api.ForbiddenError("Insufficient permissions for this resource")
			c.AbortWithStatusJSON(problem.Status, problem)
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id from the context.
func UserID(c *gin.Context) int64 {
	v, _ := c.Get(ContextUserID)
	id, _ := v.(int64)
	return id
}
