package user

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrIDRequired       = errors.New("user: id is required")
	ErrEmailRequired    = errors.New("user: email is required")
	ErrNameRequired     = errors.New("user: display name is required")
	ErrEmailAlreadyUsed = errors.New("user: email already used")
	ErrNotFound         = errors.New("user: not found")
)

type ID string

// Role is the active marketplace mode. A profile always carries exactly one;
// host mode additionally requires IsHostRegistered.
type Role string

const (
	RoleGuest Role = "GUEST"
	RoleHost  Role = "HOST"
)

// Profile is the user record every auth backing returns. PasswordHash is
// empty for social and Firebase identities.
type Profile struct {
	UID              ID
	DisplayName      string
	Email            string
	PhotoURL         string
	Role             Role
	Currency         string
	IsHostRegistered bool
	PasswordHash     string
	JoinedAt         time.Time
	UpdatedAt        time.Time
}

// Store persists profiles; each auth backing wraps one.
type Store interface {
	ByID(ctx context.Context, id ID) (*Profile, error)
	ByEmail(ctx context.Context, email string) (*Profile, error)
	Save(ctx context.Context, p *Profile) error
}

type CreateParams struct {
	UID          ID
	DisplayName  string
	Email        string
	PhotoURL     string
	PasswordHash string
	Currency     string
	Now          time.Time
}

// NewProfile validates and builds a guest profile with default settings.
func NewProfile(params CreateParams) (*Profile, error) {
	uid := strings.TrimSpace(string(params.UID))
	if uid == "" {
		return nil, ErrIDRequired
	}
	email := NormalizeEmail(params.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	name := strings.TrimSpace(params.DisplayName)
	if name == "" {
		return nil, ErrNameRequired
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}
	now := params.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()
	return &Profile{
		UID:          ID(uid),
		DisplayName:  name,
		Email:        email,
		PhotoURL:     params.PhotoURL,
		Role:         RoleGuest,
		Currency:     currency,
		PasswordHash: params.PasswordHash,
		JoinedAt:     now,
		UpdatedAt:    now,
	}, nil
}

// ProfileUpdate carries the mutable fields of UpdateProfile; nil means leave
// unchanged.
type ProfileUpdate struct {
	DisplayName      *string
	PhotoURL         *string
	Role             *Role
	Currency         *string
	IsHostRegistered *bool
}

// Apply merges an update into the profile.
func (p *Profile) Apply(upd ProfileUpdate, now time.Time) {
	if upd.DisplayName != nil && strings.TrimSpace(*upd.DisplayName) != "" {
		p.DisplayName = strings.TrimSpace(*upd.DisplayName)
	}
	if upd.PhotoURL != nil {
		p.PhotoURL = *upd.PhotoURL
	}
	if upd.Role != nil && (*upd.Role == RoleGuest || *upd.Role == RoleHost) {
		p.Role = *upd.Role
	}
	if upd.Currency != nil && strings.TrimSpace(*upd.Currency) != "" {
		p.Currency = strings.ToUpper(strings.TrimSpace(*upd.Currency))
	}
	if upd.IsHostRegistered != nil {
		p.IsHostRegistered = *upd.IsHostRegistered
	}
	p.UpdatedAt = now.UTC()
}

// NormalizeEmail lowercases and trims the address; empty stays empty.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
