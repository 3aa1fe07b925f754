package http

import (
	"net/http"
	"time"

	"mediastore/domain/dto"
	"mediastore/infrastructure/configuration"
	"mediastore/infrastructure/logger"
	"mediastore/interfaces/middleware"
	"mediastore/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type IAuthHandler interface {
	CreateSession(c *gin.Context)
	Refresh(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type AuthHandler struct {
	sessions   usecase.ISessionUsecase
	cookie     configuration.Cookie
	refreshTTL time.Duration
}

func NewAuthHandler(sessions usecase.ISessionUsecase, cookie configuration.Cookie, refreshTTL time.Duration) IAuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie, refreshTTL: refreshTTL}
}

// CreateSession exchanges the handshake code from the UUID header for an
// access token in the body and a refresh token cookie.
func (h *AuthHandler) CreateSession(c *gin.Context) {
	code := c.GetHeader("UUID")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing UUID header"})
		return
	}
	if _, err := uuid.Parse(code); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed UUID header"})
		return
	}

	session, err := h.sessions.CreateSession(c.Request.Context(), code)
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Failed to create session")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	if session == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	h.setRefreshCookie(c, session.RefreshToken, int(h.refreshTTL.Seconds()))
	c.JSON(http.StatusOK, dto.SessionResponse{AccessToken: session.AccessToken})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	raw, err := c.Cookie(h.cookie.Name)
	if err != nil || raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	access, ok := h.sessions.Refresh(raw)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, dto.SessionResponse{AccessToken: access})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.setRefreshCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := middleware.GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, value string, maxAge int) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    value,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   maxAge,
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}
