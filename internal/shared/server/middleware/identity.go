package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"latexme/internal/shared/server/respond"
)

const (
	ownerIDKey = "ownerId"

	maxGuestIDLen = 128
)

// Identity requires an X-Guest-Id header and stores the owner ID
// ("guest:<id>") in context. Workspaces are scoped to that owner.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		guestID := strings.TrimSpace(c.GetHeader("X-Guest-Id"))
		if guestID == "" || len(guestID) > maxGuestIDLen || strings.ContainsAny(guestID, " \t\r\n") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Missing identity", nil)
			return
		}

		c.Set(ownerIDKey, "guest:"+guestID)
		c.Next()
	}
}

// OwnerIDFromContext fetches the owner ID set by Identity.
func OwnerIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(ownerIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}
