package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"tubo/internal/domain/user"
)

var (
	ErrTokenRequired   = errors.New("auth: token is required")
	ErrUserRequired    = errors.New("auth: user is required")
	ErrTTLInvalid      = errors.New("auth: ttl must be positive")
	ErrSessionNotFound = errors.New("auth: session not found")
)

type Token string

// Session is one issued login token.
type Session struct {
	Token     Token
	UserID    user.ID
	CreatedAt time.Time
	ExpiresAt time.Time
}

type CreateSessionParams struct {
	Token  Token
	UserID user.ID
	TTL    time.Duration
	Now    time.Time
}

func NewSession(params CreateSessionParams) (*Session, error) {
	token := strings.TrimSpace(string(params.Token))
	if token == "" {
		return nil, ErrTokenRequired
	}
	if strings.TrimSpace(string(params.UserID)) == "" {
		return nil, ErrUserRequired
	}
	if params.TTL <= 0 {
		return nil, ErrTTLInvalid
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Session{
		Token:     Token(token),
		UserID:    params.UserID,
		CreatedAt: now,
		ExpiresAt: now.Add(params.TTL),
	}, nil
}

// Expired reports whether the session has passed its TTL.
func (s *Session) Expired(now time.Time) bool {
	return now.UTC().After(s.ExpiresAt)
}

// SessionStore keeps issued sessions.
type SessionStore interface {
	Get(ctx context.Context, token Token) (*Session, error)
	Put(ctx context.Context, session *Session) error
	Delete(ctx context.Context, token Token) error
}
