package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(rps float64, burst int) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(rps, burst))
		router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })
		return router
	}

	t.Run("allows requests within the burst", func(t *testing.T) {
		router := newRouter(1, 3)
		for i := 0; i < 3; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
		}
	})

	t.Run("rejects requests beyond the burst", func(t *testing.T) {
		router := newRouter(1, 2)
		var last int
		for i := 0; i < 5; i++ {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			router.ServeHTTP(w, req)
			last = w.Code
		}
		assert.Equal(t, http.StatusTooManyRequests, last)
	})

	t.Run("limits clients independently", func(t *testing.T) {
		router := newRouter(1, 1)

		first := httptest.NewRequest(http.MethodGet, "/ping", nil)
		first.Header.Set("X-Forwarded-For", "10.0.0.1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, first)
		assert.Equal(t, http.StatusOK, w.Code)

		// the first client exhausted its bucket
		again := httptest.NewRequest(http.MethodGet, "/ping", nil)
		again.Header.Set("X-Forwarded-For", "10.0.0.1")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, again)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)

		// a different client still has a full bucket
		other := httptest.NewRequest(http.MethodGet, "/ping", nil)
		other.Header.Set("X-Forwarded-For", "10.0.0.2")
		w = httptest.NewRecorder()
		router.ServeHTTP(w, other)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
