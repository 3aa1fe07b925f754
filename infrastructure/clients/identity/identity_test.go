package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"mediastore/domain/model"
	"mediastore/infrastructure/configuration"
)

func tokenHandler(t *testing.T, wantVerifier string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		if wantVerifier != "" {
			assert.Equal(t, wantVerifier, r.PostForm.Get("code_verifier"))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"bearer","expires_in":3600}`))
	}
}

func TestXProvider_Identify(t *testing.T) {
	p := NewXProvider(configuration.OAuthClient{ClientID: "id", ClientSecret: "secret", RedirectURI: "http://localhost/cb"})
	verifier := p.verifier("state-1")

	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler(t, verifier))
	mux.HandleFunc("/2/users/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
		assert.Equal(t, "profile_image_url,public_metrics,username,name", r.URL.Query().Get("user.fields"))
		_, _ = w.Write([]byte(`{"data":{"id":"x-1","name":"Ada","username":"ada","profile_image_url":"https://pbs/a_normal.jpg","public_metrics":{"followers_count":7}}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p.config.Endpoint = oauth2.Endpoint{AuthURL: srv.URL + "/authorize", TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInHeader}
	p.apiBase = srv.URL

	ev, err := p.Identify(context.Background(), "the-code", "state-1")
	require.NoError(t, err)
	canonical, err := ev.Canonical()
	require.NoError(t, err)
	assert.Equal(t, "x-1", canonical.ID)
	assert.Equal(t, int64(7), canonical.FollowerCount)
	assert.Equal(t, "https://pbs/a_400x400.jpg", canonical.AvatarURL)
}

func TestXProvider_AuthCodeURL(t *testing.T) {
	p := NewXProvider(configuration.OAuthClient{ClientID: "id", ClientSecret: "secret"})
	u, err := url.Parse(p.AuthCodeURL("state-1"))
	require.NoError(t, err)
	assert.Equal(t, "state-1", u.Query().Get("state"))
	assert.Equal(t, "S256", u.Query().Get("code_challenge_method"))
	assert.Equal(t, oauth2.S256ChallengeFromVerifier(p.verifier("state-1")), u.Query().Get("code_challenge"))
	assert.NotEqual(t, p.verifier("state-1"), p.verifier("state-2"))
}

func TestGoogleProvider_Identify(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", tokenHandler(t, ""))
	mux.HandleFunc("/oauth2/v2/userinfo", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"g-1","name":"Grace","email":"grace@example.com","picture":"https://lh3/p.jpg"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	p := NewGoogleProvider(configuration.OAuthClient{ClientID: "id", ClientSecret: "secret"})
	p.config.Endpoint = oauth2.Endpoint{TokenURL: srv.URL + "/token"}
	p.serviceOpts = []option.ClientOption{option.WithEndpoint(srv.URL + "/")}

	ev, err := p.Identify(context.Background(), "the-code", "")
	require.NoError(t, err)
	assert.Equal(t, model.ProviderGoogle, ev.Provider)
	assert.Equal(t, "g-1", ev.Google.Sub)
	assert.Equal(t, "grace@example.com", ev.Google.Email)
}

func TestFromConfig(t *testing.T) {
	providers := FromConfig(configuration.OAuth{X: configuration.OAuthClient{ClientID: "id", ClientSecret: "s"}})
	assert.Len(t, providers, 1)
	assert.Contains(t, providers, model.ProviderX)
}
