package memory

import (
	"context"
	"sync"

	domainauth "tubo/internal/domain/auth"
	domainuser "tubo/internal/domain/user"
)

// UserStore keeps profiles in memory; the default AUTH_MODE backing.
type UserStore struct {
	mu      sync.RWMutex
	byID    map[domainuser.ID]*domainuser.Profile
	byEmail map[string]domainuser.ID
}

func NewUserStore() *UserStore {
	return &UserStore{
		byID:    make(map[domainuser.ID]*domainuser.Profile),
		byEmail: make(map[string]domainuser.ID),
	}
}

func (s *UserStore) ByID(ctx context.Context, id domainuser.ID) (*domainuser.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domainuser.ErrNotFound
}

func (s *UserStore) ByEmail(ctx context.Context, email string) (*domainuser.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byEmail[domainuser.NormalizeEmail(email)]
	if !ok {
		return nil, domainuser.ErrNotFound
	}
	if p, ok := s.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domainuser.ErrNotFound
}

func (s *UserStore) Save(ctx context.Context, p *domainuser.Profile) error {
	if p == nil || p.UID == "" {
		return domainuser.ErrIDRequired
	}
	email := domainuser.NormalizeEmail(p.Email)
	if email == "" {
		return domainuser.ErrEmailRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.byEmail[email]; ok && existing != p.UID {
		return domainuser.ErrEmailAlreadyUsed
	}
	cp := *p
	s.byID[p.UID] = &cp
	s.byEmail[email] = p.UID
	return nil
}

var _ domainuser.Store = (*UserStore)(nil)

// AuthSessionStore keeps issued login sessions.
type AuthSessionStore struct {
	mu    sync.RWMutex
	items map[domainauth.Token]*domainauth.Session
}

func NewAuthSessionStore() *AuthSessionStore {
	return &AuthSessionStore{items: make(map[domainauth.Token]*domainauth.Session)}
}

func (s *AuthSessionStore) Get(ctx context.Context, token domainauth.Token) (*domainauth.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.items[token]
	if !ok {
		return nil, domainauth.ErrSessionNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *AuthSessionStore) Put(ctx context.Context, sess *domainauth.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.items[sess.Token] = &cp
	return nil
}

func (s *AuthSessionStore) Delete(ctx context.Context, token domainauth.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, token)
	return nil
}

var _ domainauth.SessionStore = (*AuthSessionStore)(nil)
