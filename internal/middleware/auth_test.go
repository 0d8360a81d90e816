package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peacepeacecreation/life-designer-sub003/internal/util"
)

func sessionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("test-session-secret"))
	r.Use(sessions.Sessions("test_session", store))
	return r
}

func TestRequireAuth_Unauthenticated(t *testing.T) {
	r := sessionRouter()
	r.GET("/protected", RequireAuth(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "unauthorized")
}

func TestRequireAuth_SessionUserPassesThrough(t *testing.T) {
	r := sessionRouter()
	r.GET("/login", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(SessionUserID, "user-1")
		require.NoError(t, session.Save())
		c.Status(http.StatusOK)
	})

	var seenUserID string
	r.GET("/protected", RequireAuth(), func(c *gin.Context) {
		seenUserID = c.GetString(util.ContextKeyUserID)
		c.Status(http.StatusOK)
	})

	// Log in to obtain the session cookie
	login := httptest.NewRecorder()
	r.ServeHTTP(login, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, login.Code)
	cookies := login.Result().Cookies()
	require.NotEmpty(t, cookies)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", seenUserID)
}
