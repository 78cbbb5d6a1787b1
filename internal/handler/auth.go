package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// RequireAPIKey guards mutating endpoints with a shared secret. The key is
// accepted as a bearer token, an X-API-Key header, or an api_key query
// parameter. An empty configured key disables the check entirely.
func RequireAPIKey(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		presented := presentedKey(c)
		if subtle.ConstantTimeCompare([]byte(presented), []byte(key)) != 1 {
			Error(c, http.StatusUnauthorized, "invalid or missing api key", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

func presentedKey(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if after, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(after)
		}
	}
	if k := c.GetHeader("X-API-Key"); k != "" {
		return k
	}
	return c.Query("api_key")
}
