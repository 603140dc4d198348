package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tool-advisor/internal/shared/server/respond"
)

const (
	consentCookie    = "advisor_consent"
	consentCookieAge = 365 * 24 * 60 * 60
)

type consentRequest struct {
	Accepted *bool `json:"accepted"`
}

// registerConsentRoutes attaches the cookie-consent endpoints.
func registerConsentRoutes(rg *gin.RouterGroup, secureCookie bool) {
	rg.GET("/consent", getConsent)
	rg.POST("/consent", func(c *gin.Context) { postConsent(c, secureCookie) })
}

func getConsent(c *gin.Context) {
	value, _ := c.Cookie(consentCookie)
	respond.OK(c, gin.H{"consent": value})
}

func postConsent(c *gin.Context, secureCookie bool) {
	var req consentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Accepted == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "accepted is required", nil)
		return
	}
	value := "declined"
	if *req.Accepted {
		value = "accepted"
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consentCookie, value, consentCookieAge, "/", "", secureCookie, false)
	respond.OK(c, gin.H{"consent": value})
}
