package http

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"net/url"

	"mediastore/domain/repository"
	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/utils"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
)

const oauthStateCookie = "oauth_state"

type IOAuthHandler interface {
	Authorize(c *gin.Context)
	Callback(c *gin.Context)
}

type OAuthHandler struct {
	providers   map[string]repository.IIdentityProvider
	auth        usecase.IAuthUsecase
	frontendURI string
	secure      bool
}

func NewOAuthHandler(providers map[string]repository.IIdentityProvider, auth usecase.IAuthUsecase, frontendURI string, secure bool) IOAuthHandler {
	return &OAuthHandler{providers: providers, auth: auth, frontendURI: frontendURI, secure: secure}
}

// Authorize handles GET /oauth2/authorize/:provider
func (h *OAuthHandler) Authorize(c *gin.Context) {
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}
	state, err := randomState()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to generate oauth state")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secure, true)
	c.Redirect(http.StatusFound, provider.AuthCodeURL(state))
}

// Callback handles GET /oauth2/callback/:provider. The browser is always
// sent back to the frontend, carrying either the handshake code or an error.
func (h *OAuthHandler) Callback(c *gin.Context) {
	lg := logger.GetLogger().WithField("provider", c.Param("provider"))
	provider, ok := h.providers[c.Param("provider")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown provider"})
		return
	}
	if e := c.Query("error"); e != "" {
		lg.WithField("oauth_error", e).Warn("Provider returned an error")
		h.redirect(c, "error", "access_denied")
		return
	}

	state := c.Query("state")
	expected, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secure, true)
	if err != nil || state == "" || !utils.SecureCompare(state, expected) {
		lg.Warn("OAuth state mismatch")
		h.redirect(c, "error", "invalid_state")
		return
	}
	code := c.Query("code")
	if code == "" {
		h.redirect(c, "error", "missing_code")
		return
	}

	identity, err := provider.Identify(c.Request.Context(), code, state)
	if err != nil {
		lg.WithField("error", err).Error("Identity lookup failed")
		h.redirect(c, "error", "identity_failed")
		return
	}
	handshake, err := h.auth.BeginHandshake(c.Request.Context(), identity)
	if err != nil {
		lg.WithField("error", err).Error("Failed to begin handshake")
		h.redirect(c, "error", "login_failed")
		return
	}
	h.redirect(c, "UUID", handshake)
}

func (h *OAuthHandler) redirect(c *gin.Context, key, value string) {
	q := url.Values{}
	q.Set(key, value)
	c.Redirect(http.StatusFound, h.frontendURI+"/oauth2/callback?"+q.Encode())
}

func randomState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
