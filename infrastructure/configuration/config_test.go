package configuration

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Jwt:     Jwt{Secret: strings.Repeat("k", MinSecretBytes)},
		Cookie:  Cookie{Name: "refresh_token"},
		Cleanup: Cleanup{Secret: "s3cret"},
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		c := validConfig()
		require.NoError(t, c.Validate())
	})

	t.Run("short secret", func(t *testing.T) {
		c := validConfig()
		c.Jwt.Secret = "too-short"
		err := c.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret")
	})

	t.Run("reports every problem", func(t *testing.T) {
		c := Config{Events: Events{Backend: "kafka"}}
		err := c.Validate()
		require.Error(t, err)
		for _, want := range []string{"jwt.secret", "cookie.name", "cleanup.secret", "events.backend"} {
			assert.Contains(t, err.Error(), want)
		}
	})

	t.Run("bucket without endpoint", func(t *testing.T) {
		c := validConfig()
		c.R2.Bucket = "media"
		require.Error(t, c.Validate())
		c.R2.AccountID = "acc"
		require.NoError(t, c.Validate())
	})
}

func TestInitSecurity_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("COOKIE_NAME", "")
	c := Config{}
	initSecurity(&c)

	assert.Equal(t, 15*time.Minute, c.Jwt.AccessTTL())
	assert.Equal(t, 14*24*time.Hour, c.Jwt.RefreshTTL())
	assert.Equal(t, "refresh_token", c.Cookie.Name)
	assert.Equal(t, 10*time.Minute, c.Cleanup.LockTTL())
	assert.Equal(t, "https://hcaptcha.com/siteverify", c.Captcha.VerifyURL)
}

func TestInitSecurity_EnvOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("COOKIE_SECURE", "true")
	c := Config{Jwt: Jwt{Secret: "from-file"}}
	initSecurity(&c)

	assert.Equal(t, "from-env", c.Jwt.Secret)
	assert.True(t, c.Cookie.Secure)
}

func TestGetConfig(t *testing.T) {
	t.Setenv("ENV", "")
	assert.Equal(t, "config", getConfig())
	t.Setenv("ENV", "prod")
	assert.Equal(t, "config-prod", getConfig())
}
