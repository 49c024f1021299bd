package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/qs3c/showcase_go_server/internal/pkg/response"
)

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(60)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_BlocksAfterBurst(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(2)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	// Burst of 2 passes
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeSuccess, resp.Code)
	}

	// Third immediate request is rejected
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := parseResponse(t, w)
	assert.Equal(t, response.CodeTooManyRequests, resp.Code)
}

func TestRateLimit_DisabledWhenNil(t *testing.T) {
	router := gin.New()
	router.Use(RateLimit(NewRateLimiter(0)))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("GET", "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		resp := parseResponse(t, w)
		assert.Equal(t, response.CodeSuccess, resp.Code)
	}
}
