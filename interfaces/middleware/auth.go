package middleware

import (
	"context"
	"net/http"
	"strings"

	"mediastore/domain/dto"
	"mediastore/domain/model"
	"mediastore/infrastructure/logger"
	"mediastore/infrastructure/token"

	"github.com/gin-gonic/gin"
)

// Pipeline extracts a principal from a request. It reports false when the
// request carries no usable credential.
type Pipeline func(r *http.Request) (model.Principal, bool)

type principalKey struct{}

const (
	principalContextKey = "principal"
	userIDContextKey    = "user_id"
)

func ContextWithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(model.Principal)
	return p, ok && !p.IsZero()
}

// GetPrincipal returns the principal attached by Authenticate.
func GetPrincipal(c *gin.Context) (model.Principal, bool) {
	return PrincipalFromContext(c.Request.Context())
}

// HeaderPipeline reads "Authorization: Bearer <token>".
func HeaderPipeline(issuer token.ITokenIssuer) Pipeline {
	return func(r *http.Request) (model.Principal, bool) {
		raw := bearerToken(r.Header.Get("Authorization"))
		if raw == "" {
			return model.Principal{}, false
		}
		return verified(issuer, raw)
	}
}

// CookiePipeline reads the refresh session cookie. It only belongs on routes
// hit by media elements that cannot send headers.
func CookiePipeline(issuer token.ITokenIssuer, cookieName string) Pipeline {
	return func(r *http.Request) (model.Principal, bool) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value == "" {
			return model.Principal{}, false
		}
		return verified(issuer, cookie.Value)
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func verified(issuer token.ITokenIssuer, raw string) (model.Principal, bool) {
	if !issuer.Verify(raw) {
		return model.Principal{}, false
	}
	p, err := issuer.Claims(raw)
	if err != nil || p.IsZero() {
		return model.Principal{}, false
	}
	return p, true
}

// FirstPrincipal runs the pipelines in order and returns the first principal
// found. A panicking pipeline counts as "no principal".
func FirstPrincipal(r *http.Request, pipelines ...Pipeline) (model.Principal, bool) {
	for _, pipeline := range pipelines {
		if p, ok := runSafely(pipeline, r); ok {
			return p, true
		}
	}
	return model.Principal{}, false
}

func runSafely(pipeline Pipeline, r *http.Request) (p model.Principal, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.GetLogger().WithField("panic", rec).Error("Authentication pipeline failed")
			p, ok = model.Principal{}, false
		}
	}()
	return pipeline(r)
}

// Authenticate attaches the first principal produced by the pipelines to a new
// request context. A principal set by an earlier Authenticate is kept.
// Missing credentials never abort here; RequirePrincipal does that.
func Authenticate(pipelines ...Pipeline) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); ok {
			c.Next()
			return
		}
		if p, ok := FirstPrincipal(c.Request, pipelines...); ok {
			c.Request = c.Request.WithContext(ContextWithPrincipal(c.Request.Context(), p))
			c.Set(principalContextKey, p)
			c.Set(userIDContextKey, p.ID)
		}
		c.Next()
	}
}

// RequirePrincipal rejects every request without a principal with 401.
func RequirePrincipal() gin.HandlerFunc {
	res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}
	return func(c *gin.Context) {
		if _, ok := GetPrincipal(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}
		c.Next()
	}
}
