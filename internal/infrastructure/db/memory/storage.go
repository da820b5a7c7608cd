// Package memory provides process-local implementations of the storage
// ports. State is lost on restart; use it for development and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Storage implements ports.SessionStorage with a mutex-guarded map.
type Storage struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// NewStorage creates an empty Storage.
func NewStorage() *Storage {
	return &Storage{entries: make(map[string]entry), now: time.Now}
}

func (s *Storage) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !e.expiresAt.IsZero() && !e.expiresAt.After(s.now()) {
		delete(s.entries, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (s *Storage) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = e
	return nil
}

func (s *Storage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// SubmitGuard implements ports.SubmitGuard with an in-process map of holder
// tokens.
type SubmitGuard struct {
	mu       sync.Mutex
	inFlight map[string]string
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{inFlight: make(map[string]string)}
}

func (g *SubmitGuard) Acquire(_ context.Context, sessionID string) (string, bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.inFlight[sessionID]; busy {
		return "", false, nil
	}
	token := uuid.NewString()
	g.inFlight[sessionID] = token
	return token, true, nil
}

func (g *SubmitGuard) Release(_ context.Context, sessionID, token string) error {
	g.mu.Lock()
	if g.inFlight[sessionID] == token {
		delete(g.inFlight, sessionID)
	}
	g.mu.Unlock()
	return nil
}

// OrphanRepository keeps orphaned customers in memory. Every record is also
// logged at error level since the process is the only place it lives.
type OrphanRepository struct {
	mu      sync.Mutex
	orphans []domain.OrphanedCustomer
	log     zerolog.Logger
}

func NewOrphanRepository(log zerolog.Logger) *OrphanRepository {
	return &OrphanRepository{log: log}
}

func (r *OrphanRepository) Record(_ context.Context, o *domain.OrphanedCustomer) error {
	r.mu.Lock()
	r.orphans = append(r.orphans, *o)
	r.mu.Unlock()

	r.log.Error().
		Int64("customer_id", o.CustomerID).
		Str("session_id", o.SessionID).
		Str("reason", o.Reason).
		Time("recorded_at", o.RecordedAt).
		Msg("orphaned customer needs manual cleanup")
	return nil
}

// List returns a snapshot of the recorded orphans.
func (r *OrphanRepository) List() []domain.OrphanedCustomer {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.OrphanedCustomer(nil), r.orphans...)
}

var (
	_ ports.SessionStorage   = (*Storage)(nil)
	_ ports.SubmitGuard      = (*SubmitGuard)(nil)
	_ ports.OrphanRepository = (*OrphanRepository)(nil)
)
