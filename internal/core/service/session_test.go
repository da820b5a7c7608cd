package service

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub storage
// ---------------------------------------------------------------------------

type stubStorage struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setErr  error
	deletes []string
}

func newStubStorage() *stubStorage {
	return &stubStorage{data: make(map[string][]byte)}
}

func (s *stubStorage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, false, s.getErr
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *stubStorage) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *stubStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, key)
	delete(s.data, key)
	return nil
}

func (s *stubStorage) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

var discardLogger = zerolog.Nop()

func sampleUser() *domain.User {
	return &domain.User{
		ID:        11,
		Username:  "ana",
		Email:     "ana@example.com",
		FirstName: "Ana",
		LastName:  "Diaz",
		Phone:     "555-1212",
		Role:      domain.RoleAdmin,
		Token:     "$2a$10$hash",
	}
}

// ---------------------------------------------------------------------------
// Session tests
// ---------------------------------------------------------------------------

func TestSession_LoadingUntilInit(t *testing.T) {
	s := NewSession("sid-1", newStubStorage(), time.Hour, discardLogger)
	if !s.Loading() {
		t.Fatalf("expected loading before Init")
	}
	s.Init(context.Background())
	if s.Loading() {
		t.Fatalf("expected loading cleared after Init")
	}
	if s.User() != nil {
		t.Fatalf("expected no user in empty storage")
	}
}

func TestSession_LoginSurvivesReload(t *testing.T) {
	storage := newStubStorage()
	ctx := context.Background()

	s := NewSession("sid-1", storage, time.Hour, discardLogger)
	s.Init(ctx)
	u := sampleUser()
	if err := s.Login(ctx, u); err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	reloaded := NewSession("sid-1", storage, time.Hour, discardLogger)
	reloaded.Init(ctx)

	if !reflect.DeepEqual(reloaded.User(), u) {
		t.Fatalf("expected %+v after reload, got %+v", u, reloaded.User())
	}
	if !reloaded.IsAdmin() {
		t.Fatalf("expected admin flag after reload")
	}
}

func TestSession_SessionsAreIsolated(t *testing.T) {
	storage := newStubStorage()
	ctx := context.Background()

	a := NewSession("sid-a", storage, time.Hour, discardLogger)
	a.Init(ctx)
	_ = a.Login(ctx, sampleUser())

	b := NewSession("sid-b", storage, time.Hour, discardLogger)
	b.Init(ctx)
	if b.User() != nil {
		t.Fatalf("session b must not see session a's user")
	}
}

func TestSession_CorruptRecordDiscarded(t *testing.T) {
	storage := newStubStorage()
	key := storageKey("sid-1", userEntry)
	storage.data[key] = []byte("{not json")

	s := NewSession("sid-1", storage, time.Hour, discardLogger)
	s.Init(context.Background())

	if s.User() != nil {
		t.Fatalf("expected no user for corrupt record")
	}
	if s.Loading() {
		t.Fatalf("expected loading cleared")
	}
	if storage.has(key) {
		t.Fatalf("expected corrupt record to be deleted")
	}
}

func TestSession_StorageReadFailureStartsUnauthenticated(t *testing.T) {
	storage := newStubStorage()
	storage.getErr = errors.New("connection refused")

	s := NewSession("sid-1", storage, time.Hour, discardLogger)
	s.Init(context.Background())

	if s.User() != nil || s.Loading() {
		t.Fatalf("expected unauthenticated, initialised session")
	}
}

func TestSession_LogoutClearsStorageAndAdminFlag(t *testing.T) {
	storage := newStubStorage()
	ctx := context.Background()

	s := NewSession("sid-1", storage, time.Hour, discardLogger)
	s.Init(ctx)
	_ = s.Login(ctx, sampleUser())

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if s.User() != nil {
		t.Fatalf("expected user cleared")
	}
	if s.IsAdmin() {
		t.Fatalf("expected admin flag false after logout")
	}
	if storage.has(storageKey("sid-1", userEntry)) {
		t.Fatalf("expected storage entry removed")
	}
}

func TestSession_LoginStorageFailureKeepsPreviousUser(t *testing.T) {
	storage := newStubStorage()
	ctx := context.Background()

	s := NewSession("sid-1", storage, time.Hour, discardLogger)
	s.Init(ctx)
	storage.setErr = errors.New("read-only replica")

	if err := s.Login(ctx, sampleUser()); err == nil {
		t.Fatalf("expected error when storage write fails")
	}
	if s.User() != nil {
		t.Fatalf("user must not be set when it was not persisted")
	}
}

func TestSession_UserReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewSession("sid-1", newStubStorage(), time.Hour, discardLogger)
	s.Init(ctx)
	_ = s.Login(ctx, sampleUser())

	u := s.User()
	u.Role = domain.RoleUser
	if !s.IsAdmin() {
		t.Fatalf("mutating the returned user must not change the session")
	}
}

func TestSessionManager_Open(t *testing.T) {
	storage := newStubStorage()
	ctx := context.Background()
	m := NewSessionManager(storage, time.Hour, discardLogger)

	if _, err := m.Open(ctx, ""); err == nil {
		t.Fatalf("expected error for empty session id")
	}

	first, err := m.Open(ctx, "sid-1")
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if first.Loading() {
		t.Fatalf("opened session must be initialised")
	}
	_ = first.Login(ctx, sampleUser())

	second, _ := m.Open(ctx, "sid-1")
	if second.User() == nil || second.User().Username != "ana" {
		t.Fatalf("expected persisted user, got %+v", second.User())
	}
}
