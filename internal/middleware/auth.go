package middleware

import (
	"net/http"
	"strings"

	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/internal/service"
	"campushub/pkg/util"

	"github.com/gin-gonic/gin"
)

const currentUserContextKey = "currentUser"

// RequireAuth is the session gate: it verifies the bearer access token,
// re-loads the user, and rejects stale sessions whose embedded tokenVersion
// no longer matches the user's current one (invalidated by a password
// change elsewhere). Any failure is a 401.
func RequireAuth(tokens *service.TokenService, users repository.IUserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized, no token"))
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized, no token"))
			return
		}

		claims, err := tokens.ParseAccess(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized, token failed"))
			return
		}

		userID, err := util.ParseObjectID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized, token failed"))
			return
		}
		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil || user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized, user not found"))
			return
		}
		if user.TokenVersion != claims.TokenVersion {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.NewErrorResponse("Session invalidated, please login again"))
			return
		}

		c.Set(currentUserContextKey, user)
		c.Next()
	}
}

// CurrentUser exposes the authenticated user to handlers.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, ok := c.Get(currentUserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}
