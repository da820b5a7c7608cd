package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const (
	userEntry   = "user"
	wizardEntry = "wizard"

	defaultSessionTTL = 24 * time.Hour
)

// storageKey namespaces a session entry: session:<id>:<entry>.
func storageKey(sessionID, entry string) string {
	return fmt.Sprintf("session:%s:%s", sessionID, entry)
}

// Session holds the current user of one browser session and mirrors it to
// durable storage so it survives reloads.
type Session struct {
	id      string
	storage ports.SessionStorage
	ttl     time.Duration
	log     zerolog.Logger

	mu      sync.RWMutex
	user    *domain.User
	loading bool
}

// NewSession returns an uninitialised session. Loading reports true until
// Init has run.
func NewSession(id string, storage ports.SessionStorage, ttl time.Duration, log zerolog.Logger) *Session {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Session{id: id, storage: storage, ttl: ttl, log: log, loading: true}
}

// Init restores the user from storage. A corrupt record is deleted and the
// session starts unauthenticated; nothing is returned to the caller because
// a bad record must never break page rendering.
func (s *Session) Init(ctx context.Context) {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	key := storageKey(s.id, userEntry)
	raw, found, err := s.storage.Get(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Str("session_id", s.id).Msg("session storage read failed, starting unauthenticated")
		return
	}
	if !found {
		return
	}

	var u *domain.User
	if err := json.Unmarshal(raw, &u); err != nil {
		s.log.Warn().Err(err).Str("session_id", s.id).Msg("discarding corrupt session record")
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn().Err(delErr).Str("session_id", s.id).Msg("failed to delete corrupt session record")
		}
		return
	}

	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Session) ID() string { return s.id }

// User returns a copy of the current user, or nil.
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// IsAdmin derives the admin flag from the current user.
func (s *Session) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IsAdmin(s.user)
}

// Login replaces the current user and persists it.
func (s *Session) Login(ctx context.Context, u *domain.User) error {
	if u == nil {
		return fmt.Errorf("session login: nil user")
	}
	raw, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("session login: encode user: %w", err)
	}
	if err := s.storage.Set(ctx, storageKey(s.id, userEntry), raw, s.ttl); err != nil {
		return fmt.Errorf("session login: %w", err)
	}

	clone := *u
	s.mu.Lock()
	s.user = &clone
	s.mu.Unlock()
	return nil
}

// Logout clears the current user and removes the stored record.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, storageKey(s.id, userEntry)); err != nil {
		return fmt.Errorf("session logout: %w", err)
	}
	return nil
}

// SessionManager opens sessions against a shared storage backend.
type SessionManager struct {
	storage ports.SessionStorage
	ttl     time.Duration
	log     zerolog.Logger
}

func NewSessionManager(storage ports.SessionStorage, ttl time.Duration, log zerolog.Logger) *SessionManager {
	return &SessionManager{storage: storage, ttl: ttl, log: log}
}

// Open returns an initialised session for sessionID.
func (m *SessionManager) Open(ctx context.Context, sessionID string) (ports.Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("open session: empty session id")
	}
	s := NewSession(sessionID, m.storage, m.ttl, m.log)
	s.Init(ctx)
	return s, nil
}
