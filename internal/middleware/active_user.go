package middleware

import "github.com/gin-gonic/gin"

const (
	// ActiveUserKey is the context key for the operator the request acts as.
	ActiveUserKey = "active_user_id"
	// ActiveUserHeader lets the client echo the operator it believes is active.
	// It is informational only; the configured operator always wins.
	ActiveUserHeader = "X-Active-User"
)

// ActiveUser stamps every request with the statically assigned operator.
// There is no login: the office runs as a single configured user.
func ActiveUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ActiveUserKey, userID)
		c.Next()
	}
}

// GetActiveUserID returns the operator ID for the request, or "".
func GetActiveUserID(c *gin.Context) string {
	if value, exists := c.Get(ActiveUserKey); exists {
		if id, ok := value.(string); ok {
			return id
		}
	}
	return ""
}
