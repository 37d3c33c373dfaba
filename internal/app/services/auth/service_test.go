package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "tubo/internal/app/services/auth"
	domainauth "tubo/internal/domain/auth"
	domainuser "tubo/internal/domain/user"
	"tubo/internal/infra/security"
	"tubo/internal/infra/storage/memory"
)

func newGateway() *authsvc.Gateway {
	return &authsvc.Gateway{
		Users:     memory.NewUserStore(),
		Sessions:  memory.NewAuthSessionStore(),
		Passwords: security.BcryptHasher{Cost: 4},
		Tokens:    security.RandomTokenGenerator{},
	}
}

func TestRegisterAndLogin(t *testing.T) {
	g := newGateway()
	ctx := context.Background()

	result, err := g.Register(ctx, authsvc.RegisterParams{
		Email:       "  Putri@Example.COM ",
		DisplayName: "Putri",
		Password:    "correct horse",
		Currency:    "idr",
	})
	require.NoError(t, err)
	assert.Equal(t, "putri@example.com", result.Profile.Email)
	assert.Equal(t, "IDR", result.Profile.Currency)
	assert.Equal(t, domainuser.RoleGuest, result.Profile.Role)
	assert.NotEmpty(t, result.Token)

	login, err := g.Login(ctx, authsvc.LoginParams{Email: "putri@example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, result.Profile.UID, login.Profile.UID)
	assert.NotEqual(t, result.Token, login.Token, "each login issues its own session")
}

func TestRegisterRejectsShortPasswordAndDuplicates(t *testing.T) {
	g := newGateway()
	ctx := context.Background()

	_, err := g.Register(ctx, authsvc.RegisterParams{Email: "a@b.co", DisplayName: "A", Password: "short"})
	assert.ErrorIs(t, err, authsvc.ErrPasswordTooShort)

	_, err = g.Register(ctx, authsvc.RegisterParams{Email: "a@b.co", DisplayName: "A", Password: "longenough"})
	require.NoError(t, err)
	_, err = g.Register(ctx, authsvc.RegisterParams{Email: "A@B.CO", DisplayName: "A", Password: "longenough"})
	assert.ErrorIs(t, err, domainuser.ErrEmailAlreadyUsed)
}

func TestLoginWrongPassword(t *testing.T) {
	g := newGateway()
	ctx := context.Background()
	_, err := g.Register(ctx, authsvc.RegisterParams{Email: "a@b.co", DisplayName: "A", Password: "longenough"})
	require.NoError(t, err)

	_, err = g.Login(ctx, authsvc.LoginParams{Email: "a@b.co", Password: "wrong password"})
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
	_, err = g.Login(ctx, authsvc.LoginParams{Email: "nobody@b.co", Password: "whatever"})
	assert.ErrorIs(t, err, authsvc.ErrInvalidCredentials)
}

func TestResolveTokenAndLogout(t *testing.T) {
	g := newGateway()
	ctx := context.Background()
	result, err := g.Register(ctx, authsvc.RegisterParams{Email: "a@b.co", DisplayName: "A", Password: "longenough"})
	require.NoError(t, err)

	profile, err := g.ResolveToken(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.Profile.UID, profile.UID)

	require.NoError(t, g.Logout(ctx, result.Token))
	_, err = g.ResolveToken(ctx, result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)

	// Repeated logout is a no-op.
	assert.NoError(t, g.Logout(ctx, result.Token))
}

func TestResolveTokenExpiresStaleSessions(t *testing.T) {
	g := newGateway()
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	g.Now = func() time.Time { return now }
	g.SessionTTL = time.Hour
	ctx := context.Background()

	result, err := g.Register(ctx, authsvc.RegisterParams{Email: "a@b.co", DisplayName: "A", Password: "longenough"})
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = g.ResolveToken(ctx, result.Token)
	assert.ErrorIs(t, err, domainauth.ErrSessionNotFound)
}

type staticVerifier struct {
	identity *authsvc.ExternalIdentity
	err      error
}

func (v staticVerifier) Verify(ctx context.Context, idToken string) (*authsvc.ExternalIdentity, error) {
	return v.identity, v.err
}

func TestSocialLoginCreatesProfileOnce(t *testing.T) {
	g := newGateway()
	g.Verifier = staticVerifier{identity: &authsvc.ExternalIdentity{
		UID:         "ext-1",
		Email:       "social@example.com",
		DisplayName: "Social User",
	}}
	ctx := context.Background()

	first, err := g.SocialLogin(ctx, "token-a")
	require.NoError(t, err)
	assert.Equal(t, domainuser.ID("ext-1"), first.Profile.UID)
	assert.Empty(t, first.Profile.PasswordHash)

	second, err := g.SocialLogin(ctx, "token-b")
	require.NoError(t, err)
	assert.Equal(t, first.Profile.UID, second.Profile.UID)
}

func TestSocialLoginRejectedToken(t *testing.T) {
	g := newGateway()
	g.Verifier = staticVerifier{err: errors.New("bad token")}

	_, err := g.SocialLogin(context.Background(), "token")
	assert.ErrorIs(t, err, authsvc.ErrIdentityRejected)
}

func TestUpdateProfileSwitchesRole(t *testing.T) {
	g := newGateway()
	ctx := context.Background()
	result, err := g.Register(ctx, authsvc.RegisterParams{Email: "a@b.co", DisplayName: "A", Password: "longenough"})
	require.NoError(t, err)

	host := domainuser.RoleHost
	updated, err := g.UpdateProfile(ctx, result.Profile.UID, domainuser.ProfileUpdate{Role: &host})
	require.NoError(t, err)
	assert.Equal(t, domainuser.RoleHost, updated.Role)
}
