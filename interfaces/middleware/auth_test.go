package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediastore/domain/model"
	"mediastore/infrastructure/tenant"
	"mediastore/infrastructure/token"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newIssuer(t *testing.T) *token.Issuer {
	t.Helper()
	issuer, err := token.NewIssuer(testSecret, time.Minute, time.Hour)
	require.NoError(t, err)
	return issuer
}

func principal(id string) model.Principal {
	return model.Principal{ID: id, Username: "user-" + id, Provider: model.ProviderX}
}

func whoami(c *gin.Context) {
	p, ok := GetPrincipal(c)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"id": ""})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID, "user_id": c.GetString("user_id")})
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeID(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["id"]
}

func TestAuthenticate_HeaderPipeline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newIssuer(t)
	r := gin.New()
	r.GET("/me", Authenticate(HeaderPipeline(issuer)), whoami)

	access, err := issuer.IssueAccess(principal("42"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	assert.Equal(t, "42", decodeID(t, serve(r, req)))

	for _, header := range []string{"", "Bearer", "Bearer not-a-jwt", "Basic " + access, access} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		assert.Empty(t, decodeID(t, serve(r, req)), header)
	}
}

func TestAuthenticate_CookiePipeline(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newIssuer(t)
	r := gin.New()
	r.GET("/media", Authenticate(HeaderPipeline(issuer), CookiePipeline(issuer, "refresh_token")), whoami)
	r.GET("/api", Authenticate(HeaderPipeline(issuer)), whoami)

	refresh, err := issuer.IssueRefresh(principal("cookie-user"))
	require.NoError(t, err)
	cookie := &http.Cookie{Name: "refresh_token", Value: refresh}

	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	req.AddCookie(cookie)
	assert.Equal(t, "cookie-user", decodeID(t, serve(r, req)))

	// the cookie is ignored where only the header pipeline is mounted
	req = httptest.NewRequest(http.MethodGet, "/api", nil)
	req.AddCookie(cookie)
	assert.Empty(t, decodeID(t, serve(r, req)))
}

func TestAuthenticate_FirstPipelineWins(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newIssuer(t)
	r := gin.New()
	r.GET("/media", Authenticate(HeaderPipeline(issuer), CookiePipeline(issuer, "refresh_token")), whoami)

	access, _ := issuer.IssueAccess(principal("header-user"))
	refresh, _ := issuer.IssueRefresh(principal("cookie-user"))
	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})

	w := serve(r, req)
	assert.Equal(t, "header-user", decodeID(t, w))
}

func TestAuthenticate_KeepsExistingPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newIssuer(t)
	r := gin.New()
	r.Use(Authenticate(HeaderPipeline(issuer)))
	r.GET("/media", Authenticate(CookiePipeline(issuer, "refresh_token")), whoami)

	access, _ := issuer.IssueAccess(principal("header-user"))
	refresh, _ := issuer.IssueRefresh(principal("cookie-user"))
	req := httptest.NewRequest(http.MethodGet, "/media", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: refresh})

	assert.Equal(t, "header-user", decodeID(t, serve(r, req)))
}

func TestFirstPrincipal_RecoversPanics(t *testing.T) {
	boom := func(*http.Request) (model.Principal, bool) { panic("boom") }
	fallback := func(*http.Request) (model.Principal, bool) { return principal("7"), true }
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	p, ok := FirstPrincipal(req, boom, fallback)
	assert.True(t, ok)
	assert.Equal(t, "7", p.ID)

	_, ok = FirstPrincipal(req, boom)
	assert.False(t, ok)
}

func TestRequirePrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer := newIssuer(t)
	r := gin.New()
	r.Use(Authenticate(HeaderPipeline(issuer)), RequirePrincipal())
	r.GET("/me", whoami)

	w := serve(r, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"responseCode":"401","responseMessage":"Unauthorized"}`, w.Body.String())

	access, _ := issuer.IssueAccess(principal("42"))
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = serve(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":"42","user_id":"42"}`, w.Body.String())
}

func TestTenant(t *testing.T) {
	gin.SetMode(gin.TestMode)
	resolver := tenant.NewResolver("earnlumens", "earnlumens.org", map[string]string{"media.acme.io": "acme"})
	r := gin.New()
	r.Use(Tenant(resolver))
	r.GET("/t", func(c *gin.Context) { c.String(http.StatusOK, TenantID(c)) })

	req := httptest.NewRequest(http.MethodGet, "http://earnlumens.org/t", nil)
	assert.Equal(t, "earnlumens", serve(r, req).Body.String())

	req = httptest.NewRequest(http.MethodGet, "http://internal:8080/t", nil)
	req.Header.Set("X-Forwarded-Host", "media.acme.io, proxy.local")
	assert.Equal(t, "acme", serve(r, req).Body.String())
}

func TestInternalSecret(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/internal", InternalSecret("X-Cleanup-Secret", "s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for header, want := range map[string]int{"": http.StatusForbidden, "wrong": http.StatusForbidden, "s3cret": http.StatusNoContent} {
		req := httptest.NewRequest(http.MethodPost, "/internal", nil)
		if header != "" {
			req.Header.Set("X-Cleanup-Secret", header)
		}
		assert.Equal(t, want, serve(r, req).Code, header)
	}

	open := gin.New()
	open.POST("/internal", InternalSecret("X-Cleanup-Secret", ""), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	assert.Equal(t, http.StatusForbidden, serve(open, httptest.NewRequest(http.MethodPost, "/internal", nil)).Code)
}
