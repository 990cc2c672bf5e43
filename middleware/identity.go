package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"labreserve/models"

	"github.com/gin-gonic/gin"
)

const requesterKey = "requester"

// IdentityMiddleware reads the authenticated identity from request headers.
// Authentication happens upstream (reverse proxy / SSO); this server only
// consumes the result. Requests without an identity are rejected.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader("X-User-ID"))
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing identity"})
			return
		}

		req := models.Requester{
			UserID:   userID,
			UserName: strings.TrimSpace(c.GetHeader("X-User-Name")),
			Admin:    c.GetHeader("X-Admin") == "true",
		}
		if raw := c.GetHeader("X-Licenses"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				id, err := strconv.Atoi(strings.TrimSpace(part))
				if err != nil {
					continue
				}
				req.Licenses = append(req.Licenses, id)
			}
		}

		c.Set(requesterKey, req)
		c.Next()
	}
}

// RequesterFrom returns the identity set by IdentityMiddleware.
func RequesterFrom(c *gin.Context) (models.Requester, bool) {
	v, ok := c.Get(requesterKey)
	if !ok {
		return models.Requester{}, false
	}
	req, ok := v.(models.Requester)
	return req, ok
}
