package authstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	domainuser "tubo/internal/domain/user"
)

// FileUserStore keeps profiles in a local JSON file, rewritten whole on every
// save. It backs AUTH_MODE=file for single-node setups that should survive a
// restart without a database.
type FileUserStore struct {
	mu   sync.Mutex
	path string
	byID map[domainuser.ID]*domainuser.Profile
}

type userDocument struct {
	UID              string `json:"uid"`
	DisplayName      string `json:"display_name"`
	Email            string `json:"email"`
	PhotoURL         string `json:"photo_url,omitempty"`
	Role             string `json:"role"`
	Currency         string `json:"currency"`
	IsHostRegistered bool   `json:"is_host_registered"`
	PasswordHash     string `json:"password_hash,omitempty"`
	JoinedAt         int64  `json:"joined_at"`
	UpdatedAt        int64  `json:"updated_at"`
}

type userFile struct {
	Users []userDocument `json:"users"`
}

// NewFileUserStore loads the file if it exists; a missing file starts empty.
func NewFileUserStore(path string) (*FileUserStore, error) {
	s := &FileUserStore{path: path, byID: make(map[domainuser.ID]*domainuser.Profile)}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authstore: read %s: %w", path, err)
	}
	var doc userFile
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("authstore: parse %s: %w", path, err)
	}
	for _, u := range doc.Users {
		p := u.toProfile()
		s.byID[p.UID] = p
	}
	return s, nil
}

func (s *FileUserStore) ByID(ctx context.Context, id domainuser.ID) (*domainuser.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.byID[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, domainuser.ErrNotFound
}

func (s *FileUserStore) ByEmail(ctx context.Context, email string) (*domainuser.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = domainuser.NormalizeEmail(email)
	for _, p := range s.byID {
		if p.Email == email {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domainuser.ErrNotFound
}

func (s *FileUserStore) Save(ctx context.Context, p *domainuser.Profile) error {
	if p == nil || p.UID == "" {
		return domainuser.ErrIDRequired
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == p.Email && existing.UID != p.UID {
			return domainuser.ErrEmailAlreadyUsed
		}
	}
	cp := *p
	s.byID[p.UID] = &cp
	return s.persistLocked()
}

// persistLocked writes via a temp file so a crash never truncates the store.
func (s *FileUserStore) persistLocked() error {
	doc := userFile{Users: make([]userDocument, 0, len(s.byID))}
	for _, p := range s.byID {
		doc.Users = append(doc.Users, newUserDocument(p))
	}
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func newUserDocument(p *domainuser.Profile) userDocument {
	return userDocument{
		UID:              string(p.UID),
		DisplayName:      p.DisplayName,
		Email:            p.Email,
		PhotoURL:         p.PhotoURL,
		Role:             string(p.Role),
		Currency:         p.Currency,
		IsHostRegistered: p.IsHostRegistered,
		PasswordHash:     p.PasswordHash,
		JoinedAt:         p.JoinedAt.UnixMilli(),
		UpdatedAt:        p.UpdatedAt.UnixMilli(),
	}
}

func (d userDocument) toProfile() *domainuser.Profile {
	return &domainuser.Profile{
		UID:              domainuser.ID(d.UID),
		DisplayName:      d.DisplayName,
		Email:            domainuser.NormalizeEmail(d.Email),
		PhotoURL:         d.PhotoURL,
		Role:             domainuser.Role(d.Role),
		Currency:         d.Currency,
		IsHostRegistered: d.IsHostRegistered,
		PasswordHash:     d.PasswordHash,
		JoinedAt:         time.UnixMilli(d.JoinedAt).UTC(),
		UpdatedAt:        time.UnixMilli(d.UpdatedAt).UTC(),
	}
}

var _ domainuser.Store = (*FileUserStore)(nil)
