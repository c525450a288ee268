package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/annotator/internal/config"
)

func newAuthRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	whoami := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":   GetUserID(c),
			"username":  GetUsername(c),
			"auth_type": GetAuthType(c),
		})
	}
	router.GET("/api/whoami", whoami)
	router.GET("/health", whoami)
	return router
}

func TestMiddleware_NoAuthMode(t *testing.T) {
	service, _ := setupService(t)
	router := newAuthRouter(NewMiddleware(service, nil, testAuthConfig(config.AuthModeNone)))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"user_id":1,"username":"","auth_type":"none"}`, rr.Body.String())
}

func TestMiddleware_TokenMode_PublicPath(t *testing.T) {
	service, _ := setupService(t)
	router := newAuthRouter(NewMiddleware(service, nil, testAuthConfig(config.AuthModeToken)))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestMiddleware_TokenMode_MissingToken(t *testing.T) {
	service, _ := setupService(t)
	router := newAuthRouter(NewMiddleware(service, nil, testAuthConfig(config.AuthModeToken)))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/whoami", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, rr.Body.String())
}

func TestMiddleware_TokenMode_ValidToken(t *testing.T) {
	service, _ := setupService(t)
	user, token, err := service.CreateUser(context.Background(), "labeler")
	require.NoError(t, err)

	router := newAuthRouter(NewMiddleware(service, nil, testAuthConfig(config.AuthModeToken)))

	req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"username":"labeler"`)
	assert.Contains(t, rr.Body.String(), `"auth_type":"bearer"`)
	assert.NotEqual(t, DefaultUserID, user.ID)
}

func TestMiddleware_TokenMode_InvalidTokenLocksOut(t *testing.T) {
	service, _ := setupService(t)
	limiter := NewRateLimiter(RateLimitConfig{MaxAttempts: 2})
	t.Cleanup(limiter.Stop)

	router := newAuthRouter(NewMiddleware(service, limiter, testAuthConfig(config.AuthModeToken)))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api/whoami", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("Bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	token, ok = bearerToken("bearer  abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Basic abc")
	assert.False(t, ok)

	_, ok = bearerToken("Bearer ")
	assert.False(t, ok)

	_, ok = bearerToken("")
	assert.False(t, ok)
}

func TestGetUserID_DefaultsWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, DefaultUserID, GetUserID(c))
	assert.Equal(t, AuthTypeNone, GetAuthType(c))
	assert.Empty(t, GetUsername(c))
}
