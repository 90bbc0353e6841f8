package server

import (
	"net/http"
	"strings"

	"github.com/alkime/writeablog/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	sessionHeader     = "X-Session-ID"
	sessionCookie     = "wab_session"
	sessionContextKey = "session_id"
	maxSessionIDLen   = 128
	sessionCookieAge  = 30 * 24 * 60 * 60
)

// withSession resolves the caller's session from the header or cookie and
// issues a new cookie when neither is present.
func (s *Server) withSession(c *gin.Context) {
	id := strings.TrimSpace(c.GetHeader(sessionHeader))
	if id == "" {
		if cookie, err := c.Cookie(sessionCookie); err == nil {
			id = strings.TrimSpace(cookie)
		}
	}

	if len(id) > maxSessionIDLen {
		abortWithError(c, http.StatusBadRequest, "session id too long")
		return
	}

	if id == "" {
		id = uuid.NewString()
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(sessionCookie, id, sessionCookieAge, "/", "", s.config.Env == config.EnvProduction, true)
		s.logger.Debug("Issued session", "session_id", id)
	}

	c.Set(sessionContextKey, id)
	c.Next()
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
