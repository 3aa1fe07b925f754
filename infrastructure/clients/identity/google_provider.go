package identity

import (
	"context"
	"fmt"

	"mediastore/domain/model"
	"mediastore/infrastructure/configuration"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googleoauth2 "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
)

type GoogleProvider struct {
	config      *oauth2.Config
	serviceOpts []option.ClientOption
}

func NewGoogleProvider(cfg configuration.OAuthClient) *GoogleProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{googleoauth2.OpenIDScope, googleoauth2.UserinfoProfileScope, googleoauth2.UserinfoEmailScope}
	}
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string { return model.ProviderGoogle }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Identify(ctx context.Context, code, _ string) (model.ExternalIdentity, error) {
	tok, err := p.config.Exchange(ctx, code)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("google token exchange: %w", err)
	}
	opts := append([]option.ClientOption{option.WithTokenSource(p.config.TokenSource(ctx, tok))}, p.serviceOpts...)
	svc, err := googleoauth2.NewService(ctx, opts...)
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("google oauth2 service: %w", err)
	}
	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return model.ExternalIdentity{}, fmt.Errorf("google userinfo: %w", err)
	}
	return model.ExternalIdentity{
		Provider: model.ProviderGoogle,
		Google: &model.GoogleProfile{
			Sub:     info.Id,
			Name:    info.Name,
			Email:   info.Email,
			Picture: info.Picture,
		},
	}, nil
}
