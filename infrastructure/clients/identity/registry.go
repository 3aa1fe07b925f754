package identity

import (
	"mediastore/domain/repository"
	"mediastore/infrastructure/configuration"
)

// FromConfig returns the providers that have client credentials configured,
// keyed by provider name.
func FromConfig(cfg configuration.OAuth) map[string]repository.IIdentityProvider {
	providers := map[string]repository.IIdentityProvider{}
	if cfg.X.Enabled() {
		p := NewXProvider(cfg.X)
		providers[p.Name()] = p
	}
	if cfg.Google.Enabled() {
		p := NewGoogleProvider(cfg.Google)
		providers[p.Name()] = p
	}
	return providers
}
