package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"sg44_backend/internal/auth"
	"sg44_backend/internal/logger"
	"sg44_backend/internal/models"
	"sg44_backend/pkg/apperrors"
	"sg44_backend/pkg/contextkeys"
)

// RoleLookup returns the current stored role of a user.
type RoleLookup func(ctx context.Context, userID string) (models.UserRole, error)

// AuthMiddleware verifies the bearer token and stores the caller in the gin
// context as userID, role and the auth.Actor. When roles is set, the role is
// read from it on every request so a demotion takes effect before the access
// token expires. A nil lookup trusts the role claim.
func AuthMiddleware(tokens *auth.TokenManager, roles RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("Authorization header missing or invalid"))
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			apperrors.HandleError(c, apperrors.ErrInvalidToken)
			return
		}

		actor := auth.Actor{UserID: claims.UserID, Role: models.UserRole(claims.Role)}
		if roles != nil {
			role, err := roles(c.Request.Context(), claims.UserID)
			if err != nil {
				logger.CtxWarn(c.Request.Context(), "token subject could not be resolved",
					"user_id", claims.UserID,
					"error", err.Error(),
				)
				apperrors.HandleError(c, apperrors.ErrInvalidToken)
				return
			}
			actor.Role = role
		}
		c.Set("userID", actor.UserID)
		c.Set("role", actor.Role)
		c.Set(string(contextkeys.ActorContextKey), actor)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), actor.UserID))
		c.Next()
	}
}

// RequireRoles lets the request through when the caller holds one of roles.
// It must run after AuthMiddleware.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apperrors.HandleError(c, apperrors.NewUnauthorizedError("User not authenticated"))
			return
		}
		if !actor.HasAnyRole(roles...) {
			logger.CtxWarn(c.Request.Context(), "access denied: insufficient role",
				"path", c.Request.URL.Path,
				"role", actor.Role,
			)
			apperrors.HandleError(c, apperrors.ErrInsufficientPermissions)
			return
		}
		c.Next()
	}
}

// AdminMiddleware is RequireRoles(admin).
func AdminMiddleware() gin.HandlerFunc {
	return RequireRoles(models.UserRoleAdmin)
}

// GetActor returns the caller stored by AuthMiddleware.
func GetActor(c *gin.Context) (auth.Actor, bool) {
	val, exists := c.Get(string(contextkeys.ActorContextKey))
	if !exists {
		return auth.Anonymous, false
	}
	actor, ok := val.(auth.Actor)
	if !ok || !actor.IsAuthenticated() {
		return auth.Anonymous, false
	}
	return actor, true
}

// GetUserID returns the caller id or "".
func GetUserID(c *gin.Context) string {
	actor, _ := GetActor(c)
	return actor.UserID
}
