package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCacheFor(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := persist.NewMemoryStore(time.Minute)
	calls := 0

	r := gin.New()
	r.GET("/counters", cacheFor(store, "counters", 60), func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusOK, gin.H{"success": false})
			c.Abort()
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "calls": calls})
	})
	r.POST("/write", invalidate(store, "counters"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	get := func() string {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/counters", nil))
		return w.Body.String()
	}

	// Failures are not replayed
	assert.JSONEq(t, `{"success":false}`, get())
	assert.JSONEq(t, `{"success":true,"calls":2}`, get())
	assert.JSONEq(t, `{"success":true,"calls":2}`, get())
	assert.Equal(t, 2, calls)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))

	assert.JSONEq(t, `{"success":true,"calls":3}`, get())

	// Nothing cached yet is fine too
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/write", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCacheForDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.GET("/counters", cacheFor(persist.NewMemoryStore(time.Minute), "counters", 0), func(c *gin.Context) {
		calls++
		c.Status(http.StatusOK)
	})

	for range 3 {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/counters", nil))
	}
	assert.Equal(t, 3, calls)
}
