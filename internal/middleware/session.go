package middleware

import (
	"github.com/gin-gonic/gin"

	"snowpro_quiz_backend/internal/service"
)

const (
	// SessionCookie 会话 cookie 名
	SessionCookie = "quiz_session"

	sessionKey = "session"
)

// SessionMiddleware 按 cookie 取进程内会话，没有就建新会话并回种 cookie。
func SessionMiddleware(store *service.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(SessionCookie)
		sess := store.GetOrCreate(sid)
		if sess.ID != sid {
			c.SetCookie(SessionCookie, sess.ID, 0, "/", "", false, true)
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SessionFromContext 取当前请求的会话
func SessionFromContext(c *gin.Context) *service.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*service.Session); ok {
			return s
		}
	}
	return nil
}
