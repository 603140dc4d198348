package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tool-advisor/internal/shared/telemetry"
)

const (
	sessionIDKey     = "sessionId"
	sessionNewKey    = "sessionNew"
	SessionHeader    = "X-Session-Id"
	SessionCookie    = "advisor_session"
	sessionCookieAge = 365 * 24 * 60 * 60
)

// Session identifies the anonymous browser session from the X-Session-Id header or the
// advisor_session cookie, issuing a new one when neither carries a valid UUID.
func Session(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		id := validSessionID(c.GetHeader(SessionHeader))
		if id == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				id = validSessionID(cookie)
			}
		}
		if id == "" {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, id, sessionCookieAge, "/", "", secureCookie, true)
			c.Set(sessionNewKey, true)
		}

		c.Set(sessionIDKey, id)
		c.Request = c.Request.WithContext(telemetry.WithSessionID(c.Request.Context(), id))
		c.Writer.Header().Set(SessionHeader, id)
		c.Next()
	}
}

func validSessionID(raw string) string {
	parsed, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return parsed.String()
}

// SessionIDFromContext fetches the session ID set by the Session middleware.
func SessionIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(sessionIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// SessionIssued reports whether the session ID was minted for this request rather than
// presented by the client.
func SessionIssued(c *gin.Context) bool {
	if c == nil {
		return false
	}
	return c.GetBool(sessionNewKey)
}
