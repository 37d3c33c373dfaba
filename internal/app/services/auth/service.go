package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	domainauth "tubo/internal/domain/auth"
	domainuser "tubo/internal/domain/user"
)

var (
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	ErrPasswordTooShort   = errors.New("auth: password must be at least 8 characters")
	ErrIdentityRejected   = errors.New("auth: identity token rejected")
)

// PasswordHasher abstracts the bcrypt hasher for the local backings.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenGenerator interface {
	NewToken() (string, error)
}

// IdentityVerifier checks a third-party ID token and returns the external
// identity. The Firebase backing implements it; local backings leave it nil.
type IdentityVerifier interface {
	Verify(ctx context.Context, idToken string) (*ExternalIdentity, error)
}

// ExternalIdentity is what a social/Firebase sign-in asserts about the user.
type ExternalIdentity struct {
	UID         string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Gateway is the one auth surface the rest of the service talks to. The
// backing store and verifier vary by configuration; the flow does not.
type Gateway struct {
	Users      domainuser.Store
	Sessions   domainauth.SessionStore
	Passwords  PasswordHasher
	Tokens     TokenGenerator
	Verifier   IdentityVerifier
	SessionTTL time.Duration
	Logger     *slog.Logger
	Now        func() time.Time
}

type RegisterParams struct {
	Email       string
	DisplayName string
	Password    string
	Currency    string
}

type LoginParams struct {
	Email    string
	Password string
}

// AuthResult pairs the profile with its freshly issued session token.
type AuthResult struct {
	Profile *domainuser.Profile
	Token   string
}

// Register creates a password-backed profile and logs it in.
func (g *Gateway) Register(ctx context.Context, params RegisterParams) (*AuthResult, error) {
	if err := g.ensureLocal(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, domainuser.ErrEmailRequired
	}
	if _, err := g.Users.ByEmail(ctx, email); err == nil {
		return nil, domainuser.ErrEmailAlreadyUsed
	} else if !errors.Is(err, domainuser.ErrNotFound) {
		return nil, err
	}
	if utf8.RuneCountInString(params.Password) < 8 {
		return nil, ErrPasswordTooShort
	}
	hash, err := g.Passwords.Hash(params.Password)
	if err != nil {
		return nil, err
	}
	profile, err := domainuser.NewProfile(domainuser.CreateParams{
		UID:          domainuser.ID(uuid.NewString()),
		DisplayName:  params.DisplayName,
		Email:        email,
		PasswordHash: hash,
		Currency:     params.Currency,
		Now:          g.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := g.Users.Save(ctx, profile); err != nil {
		return nil, err
	}
	token, err := g.issueSession(ctx, profile)
	if err != nil {
		return nil, err
	}
	if g.Logger != nil {
		g.Logger.Info("user registered", "uid", profile.UID, "email", profile.Email)
	}
	return &AuthResult{Profile: profile, Token: token}, nil
}

// Login authenticates a password-backed profile.
func (g *Gateway) Login(ctx context.Context, params LoginParams) (*AuthResult, error) {
	if err := g.ensureLocal(); err != nil {
		return nil, err
	}
	email := domainuser.NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	profile, err := g.Users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if profile.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := g.Passwords.Compare(profile.PasswordHash, params.Password); err != nil {
		return nil, ErrInvalidCredentials
	}
	token, err := g.issueSession(ctx, profile)
	if err != nil {
		return nil, err
	}
	if g.Logger != nil {
		g.Logger.Info("user authenticated", "uid", profile.UID)
	}
	return &AuthResult{Profile: profile, Token: token}, nil
}

// SocialLogin exchanges a verified external identity for a local session,
// creating the profile on first sight.
func (g *Gateway) SocialLogin(ctx context.Context, idToken string) (*AuthResult, error) {
	if g.Verifier == nil {
		return nil, errors.New("auth: no identity verifier configured")
	}
	identity, err := g.Verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, ErrIdentityRejected
	}
	profile, err := g.Users.ByID(ctx, domainuser.ID(identity.UID))
	if errors.Is(err, domainuser.ErrNotFound) {
		profile, err = domainuser.NewProfile(domainuser.CreateParams{
			UID:         domainuser.ID(identity.UID),
			DisplayName: identity.DisplayName,
			Email:       identity.Email,
			PhotoURL:    identity.PhotoURL,
			Now:         g.now(),
		})
		if err != nil {
			return nil, err
		}
		if err := g.Users.Save(ctx, profile); err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}
	token, err := g.issueSession(ctx, profile)
	if err != nil {
		return nil, err
	}
	if g.Logger != nil {
		g.Logger.Info("social sign-in", "uid", profile.UID)
	}
	return &AuthResult{Profile: profile, Token: token}, nil
}

// Logout drops the session token. Unknown tokens are a no-op.
func (g *Gateway) Logout(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}
	if err := g.Sessions.Delete(ctx, domainauth.Token(token)); err != nil &&
		!errors.Is(err, domainauth.ErrSessionNotFound) {
		return err
	}
	return nil
}

// UpdateProfile merges mutable fields into the caller's profile.
func (g *Gateway) UpdateProfile(ctx context.Context, uid domainuser.ID, upd domainuser.ProfileUpdate) (*domainuser.Profile, error) {
	profile, err := g.Users.ByID(ctx, uid)
	if err != nil {
		return nil, err
	}
	profile.Apply(upd, g.now())
	if err := g.Users.Save(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// ResolveToken maps a bearer token to its profile, expiring stale sessions.
func (g *Gateway) ResolveToken(ctx context.Context, token string) (*domainuser.Profile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domainauth.ErrTokenRequired
	}
	session, err := g.Sessions.Get(ctx, domainauth.Token(token))
	if err != nil {
		return nil, err
	}
	if session.Expired(g.now()) {
		_ = g.Sessions.Delete(ctx, session.Token)
		return nil, domainauth.ErrSessionNotFound
	}
	profile, err := g.Users.ByID(ctx, session.UserID)
	if err != nil {
		_ = g.Sessions.Delete(ctx, session.Token)
		if errors.Is(err, domainuser.ErrNotFound) {
			return nil, domainauth.ErrSessionNotFound
		}
		return nil, err
	}
	return profile, nil
}

func (g *Gateway) issueSession(ctx context.Context, profile *domainuser.Profile) (string, error) {
	token, err := g.Tokens.NewToken()
	if err != nil {
		return "", err
	}
	session, err := domainauth.NewSession(domainauth.CreateSessionParams{
		Token:  domainauth.Token(token),
		UserID: profile.UID,
		TTL:    g.sessionTTL(),
		Now:    g.now(),
	})
	if err != nil {
		return "", err
	}
	if err := g.Sessions.Put(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

func (g *Gateway) sessionTTL() time.Duration {
	if g.SessionTTL > 0 {
		return g.SessionTTL
	}
	return 24 * time.Hour
}

func (g *Gateway) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Gateway) ensureLocal() error {
	switch {
	case g.Users == nil:
		return errors.New("auth: user store required")
	case g.Sessions == nil:
		return errors.New("auth: session store required")
	case g.Passwords == nil:
		return errors.New("auth: password hasher required")
	case g.Tokens == nil:
		return errors.New("auth: token generator required")
	default:
		return nil
	}
}
