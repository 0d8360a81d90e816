package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/peacepeacecreation/life-designer-sub003/internal/util"
)

const (
	SessionUserID = "user_id"
)

// RequireAuth requires a logged-in session. The API is JSON-only, so
// unauthenticated requests get 401 instead of a login redirect.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(SessionUserID)

		if userID == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authentication required",
			})
			return
		}

		c.Set(util.ContextKeyUserID, userID)
		c.Next()
	}
}
