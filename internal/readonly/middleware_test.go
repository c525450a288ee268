package readonly

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(m *Middleware) *gin.Engine {
	router := gin.New()
	router.Use(m.Handler())
	ok := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"read_only": IsReadOnly(c)})
	}
	router.GET("/projects/1/download", ok)
	router.HEAD("/projects/1/download", ok)
	router.POST("/projects/1/upload", ok)
	router.DELETE("/api/projects/1/docs/2", ok)
	return router
}

func TestMiddleware_AllowsSafeMethods(t *testing.T) {
	router := newRouter(NewMiddleware(true))

	for _, method := range []string{http.MethodGet, http.MethodHead} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/projects/1/download", nil))
		assert.Equal(t, http.StatusOK, w.Code, method)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/projects/1/download", nil))
	assert.JSONEq(t, `{"read_only": true}`, w.Body.String())
}

func TestMiddleware_BlocksFormPost(t *testing.T) {
	router := newRouter(NewMiddleware(true))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects/1/upload", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, message, w.Body.String())
}

func TestMiddleware_BlocksAPIWrites(t *testing.T) {
	router := newRouter(NewMiddleware(true))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/projects/1/docs/2", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["read_only"])
}

func TestMiddleware_Disabled(t *testing.T) {
	m := NewMiddleware(false)
	assert.False(t, m.IsEnabled())
	router := newRouter(m)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/projects/1/upload", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"read_only": false}`, w.Body.String())
}
