package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/oksasatya/go-user-management/pkg/helpers"
)

// CtxSessionIDKey is the gin context key holding the visitor's session id.
const CtxSessionIDKey = "session_id"

// Session makes sure every visitor carries a session id cookie. Visitors
// without a valid one get a fresh id on their first request.
func Session(cookies *helpers.Manager, name string, ttl time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(name)
		if err != nil || !validSessionID(sid) {
			sid = uuid.NewString()
			cookies.SetSession(c, name, sid, ttl)
		}
		c.Set(CtxSessionIDKey, sid)
		c.Next()
	}
}

func validSessionID(sid string) bool {
	_, err := uuid.Parse(sid)
	return err == nil
}

// SessionID returns the id set by Session, or "" outside of it.
func SessionID(c *gin.Context) string {
	return c.GetString(CtxSessionIDKey)
}
