// README: Read-through response cache middleware for GET routes.
package middleware

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"

	"fleetrent/internal/cache"
)

// bodyCapture tees the response body so a 200 can be written to the cache.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(p []byte) (int, error) {
	w.buf.Write(p)
	return w.ResponseWriter.Write(p)
}

// CachedGET serves GET responses from the cache when present and stores
// successful responses on a miss. Cache failures degrade to a plain
// miss; they never surface to the client.
func CachedGET(rc *cache.ResponseCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		key := cache.Key(c.Request.URL.Path, c.Request.URL.RawQuery, CallerUID(c))
		if body, ok := rc.Get(c.Request.Context(), key); ok {
			c.Data(http.StatusOK, "application/json; charset=utf-8", body)
			c.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: c.Writer}
		c.Writer = capture
		c.Next()

		if capture.Status() == http.StatusOK {
			rc.Set(c.Request.Context(), key, capture.buf.Bytes())
		}
	}
}
