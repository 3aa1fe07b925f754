package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExternalIdentity_Canonical_X(t *testing.T) {
	x := &XProfile{ID: "42", Name: "Ada", Username: "ada", ProfileImageURL: "https://pbs.twimg.com/p/abc_normal.jpg"}
	x.PublicMetrics.FollowersCount = 17

	got, err := ExternalIdentity{Provider: ProviderX, X: x}.Canonical()
	require.NoError(t, err)
	assert.Equal(t, CanonicalIdentity{
		ID:            "42",
		DisplayName:   "Ada",
		Username:      "ada",
		AvatarURL:     "https://pbs.twimg.com/p/abc_400x400.jpg",
		Provider:      ProviderX,
		FollowerCount: 17,
	}, got)
}

func TestExternalIdentity_Canonical_DefaultsUnknown(t *testing.T) {
	got, err := ExternalIdentity{Provider: ProviderX, X: &XProfile{ID: "1"}}.Canonical()
	require.NoError(t, err)
	assert.Equal(t, "Unknown", got.DisplayName)
	assert.Equal(t, "Unknown", got.Username)
}

func TestExternalIdentity_Canonical_Google(t *testing.T) {
	got, err := ExternalIdentity{Provider: ProviderGoogle, Google: &GoogleProfile{Sub: "g-1", Name: "Grace", Email: "grace@example.com"}}.Canonical()
	require.NoError(t, err)
	assert.Equal(t, "g-1", got.ID)
	assert.Equal(t, "grace", got.Username)
	assert.Equal(t, ProviderGoogle, got.Provider)
}

func TestExternalIdentity_Canonical_Invalid(t *testing.T) {
	cases := map[string]ExternalIdentity{
		"unknown provider":   {Provider: "github"},
		"missing payload":    {Provider: ProviderX},
		"mismatched payload": {Provider: ProviderX, Google: &GoogleProfile{Sub: "g"}},
		"empty id":           {Provider: ProviderGoogle, Google: &GoogleProfile{}},
	}
	for name, ev := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ev.Canonical()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidIdentity))
		})
	}
}
