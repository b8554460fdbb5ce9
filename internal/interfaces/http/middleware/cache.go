package middleware

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/batterydepartment/backend/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
)

// CacheKey builds the cache key for a request: method, path and raw query
func CacheKey(c *gin.Context) string {
	key := c.Request.Method + " " + c.Request.URL.Path
	if query := c.Request.URL.RawQuery; query != "" {
		key += "?" + query
	}
	return key
}

// cacheWriter tees the response body so it can be stored after the
// handler runs
type cacheWriter struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *cacheWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *cacheWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// ResponseCacheMiddleware serves GET responses from the cache. Only
// successful JSON responses are stored; authenticated state must not
// leak, so it belongs on public read-only routes only.
func ResponseCacheMiddleware(store *cache.ResponseCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := CacheKey(c)

		if cached := store.Get(key); cached != nil {
			c.Header("X-Cache", "HIT")
			c.Data(cached.Status, cached.ContentType, cached.Body)
			c.Abort()
			return
		}

		c.Header("X-Cache", "MISS")

		writer := &cacheWriter{ResponseWriter: c.Writer}
		c.Writer = writer

		c.Next()

		status := c.Writer.Status()
		contentType := c.Writer.Header().Get("Content-Type")
		if status == http.StatusOK && strings.HasPrefix(contentType, "application/json") {
			body := make([]byte, writer.body.Len())
			copy(body, writer.body.Bytes())
			store.Set(key, &cache.CachedResponse{
				Status:      status,
				ContentType: contentType,
				Body:        body,
			}, 0)
		}
	}
}
