package middleware

import (
	"context"
	"net/http"

	"msgboard/internal/domain/session"
	"msgboard/internal/transport/cookie"
	"msgboard/internal/transport/httpdto"
	"msgboard/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const sessionContextKey = "msgboard.session"

// SessionResolver turns the ids carried by the cookie into a live session.
type SessionResolver interface {
	Current(ctx context.Context, sessionID, userID string) (session.Session, error)
}

// SessionMiddleware attaches the request's session (possibly anonymous) to the
// gin context. A cookie that no longer maps to a session is cleared.
func SessionMiddleware(resolver SessionResolver, codec *cookie.Codec, l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := session.Anonymous

		if sid, uid, ok := codec.Read(c.Request); ok {
			current, err := resolver.Current(c.Request.Context(), sid, uid)
			if err != nil {
				if l != nil {
					l.ErrorCtx(c.Request.Context(), "resolve session", zap.Error(err))
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, httpdto.NewErrorResponse("internal error", "INTERNAL_ERROR"))
				return
			}
			sess = current
			if sess.IsAnonymous() {
				codec.Clear(c.Writer)
			}
		} else if _, err := c.Request.Cookie(cookie.Name); err == nil {
			codec.Clear(c.Writer)
		}

		if !sess.IsAnonymous() {
			c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), sess.UserID))
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// SessionFrom returns the session attached by SessionMiddleware.
func SessionFrom(c *gin.Context) session.Session {
	value, ok := c.Get(sessionContextKey)
	if !ok {
		return session.Anonymous
	}
	sess, ok := value.(session.Session)
	if !ok {
		return session.Anonymous
	}
	return sess
}

// RequireSession rejects anonymous requests.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if SessionFrom(c).IsAnonymous() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
			return
		}
		c.Next()
	}
}
