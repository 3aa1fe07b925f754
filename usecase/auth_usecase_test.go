package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mediastore/domain/model"
	"mediastore/infrastructure/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuth(users *memUsers, clock *fixedClock) *AuthUsecase {
	uc := NewAuthUsecase(users)
	uc.now = clock.now
	n := 0
	uc.newCode = func() string { n++; return fmt.Sprintf("code-%d", n) }
	uc.newID = func() string { return "user-1" }
	return uc
}

func xIdentity(id, name string) model.ExternalIdentity {
	x := &model.XProfile{ID: id, Name: name, Username: "ada", ProfileImageURL: "https://pbs.twimg.com/a_normal.png"}
	x.PublicMetrics.FollowersCount = 99
	return model.ExternalIdentity{Provider: model.ProviderX, X: x}
}

func TestAuthUsecase_HandshakeRoundTrip(t *testing.T) {
	users := newMemUsers()
	clock := &fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	uc := newTestAuth(users, clock)
	ctx := context.Background()

	code, err := uc.BeginHandshake(ctx, xIdentity("42", "Ada"))
	require.NoError(t, err)
	assert.Equal(t, "code-1", code)

	clock.advance(30 * time.Second)
	user, err := uc.Redeem(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "42", user.OAuthUserID)
	assert.Equal(t, model.ProviderX, user.OAuthProvider)
	assert.Equal(t, "Ada", user.DisplayName)
	assert.Equal(t, "ada", user.Username)
	assert.Equal(t, "https://pbs.twimg.com/a_400x400.png", user.AvatarURL)
	assert.Equal(t, int64(99), user.FollowersCount)

	again, err := uc.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, again)
}

func TestAuthUsecase_RedeemExpiredClearsCode(t *testing.T) {
	users := newMemUsers()
	clock := &fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	uc := newTestAuth(users, clock)
	ctx := context.Background()

	code, err := uc.BeginHandshake(ctx, xIdentity("42", "Ada"))
	require.NoError(t, err)

	clock.advance(HandshakeTTL + time.Second)
	user, err := uc.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, user)

	stored := users.get("user-1")
	assert.Nil(t, stored.TempHandshakeCode)
	assert.Nil(t, stored.TempHandshakeCreatedAt)

	_, err = users.FindByHandshakeCode(ctx, code)
	assert.Error(t, err)
	user, err = uc.Redeem(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthUsecase_RedeemMissingTimestampFailsClosed(t *testing.T) {
	users := newMemUsers()
	code := "orphan"
	require.NoError(t, users.Save(context.Background(), &model.User{ID: "u", OAuthUserID: "1", TempHandshakeCode: &code}))

	uc := NewAuthUsecase(users)
	user, err := uc.Redeem(context.Background(), code)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, users.get("u").TempHandshakeCode)
}

func TestAuthUsecase_RedeemBlockedUser(t *testing.T) {
	users := newMemUsers()
	clock := &fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	code := "blocked-code"
	created := clock.t
	require.NoError(t, users.Save(context.Background(), &model.User{
		ID: "u", OAuthUserID: "1", Blocked: true,
		TempHandshakeCode: &code, TempHandshakeCreatedAt: &created,
	}))

	uc := newTestAuth(users, clock)
	user, err := uc.Redeem(context.Background(), code)
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.Nil(t, users.get("u").TempHandshakeCode)
}

func TestAuthUsecase_BeginHandshakeUpdatesExistingUser(t *testing.T) {
	users := newMemUsers()
	clock := &fixedClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	uc := newTestAuth(users, clock)
	ctx := context.Background()

	first, err := uc.BeginHandshake(ctx, xIdentity("42", "Ada"))
	require.NoError(t, err)
	createdAt := users.get("user-1").CreatedAt

	clock.advance(time.Hour)
	uc.newID = func() string { t.Fatal("existing user must not get a new id"); return "" }
	second, err := uc.BeginHandshake(ctx, xIdentity("42", "Ada Lovelace"))
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	stored := users.get("user-1")
	assert.Equal(t, "Ada Lovelace", stored.DisplayName)
	assert.Equal(t, createdAt, stored.CreatedAt)
	assert.Equal(t, clock.t, stored.LastLoginAt)
	require.NotNil(t, stored.TempHandshakeCode)
	assert.Equal(t, second, *stored.TempHandshakeCode)

	// the first code was replaced
	user, err := uc.Redeem(ctx, first)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestAuthUsecase_BeginHandshakeInvalidIdentity(t *testing.T) {
	uc := NewAuthUsecase(newMemUsers())
	_, err := uc.BeginHandshake(context.Background(), model.ExternalIdentity{Provider: model.ProviderX})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrInvalidIdentity))
}

func TestSessionUsecase(t *testing.T) {
	users := newMemUsers()
	clock := &fixedClock{t: time.Now()}
	auth := newTestAuth(users, clock)
	issuer, err := token.NewIssuer("0123456789abcdef0123456789abcdef", time.Minute, time.Hour)
	require.NoError(t, err)
	sessions := NewSessionUsecase(auth, issuer)
	ctx := context.Background()

	code, err := auth.BeginHandshake(ctx, xIdentity("42", "Ada"))
	require.NoError(t, err)

	session, err := sessions.CreateSession(ctx, code)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.True(t, issuer.Verify(session.AccessToken))

	p, err := issuer.Claims(session.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "42", p.ID)

	access, ok := sessions.Refresh(session.RefreshToken)
	assert.True(t, ok)
	assert.True(t, issuer.Verify(access))

	_, ok = sessions.Refresh("garbage")
	assert.False(t, ok)

	none, err := sessions.CreateSession(ctx, code)
	require.NoError(t, err)
	assert.Nil(t, none)
}
