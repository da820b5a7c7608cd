package ports

import (
	"context"
	"time"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
)

// SessionStorage is the durable key/value store behind browser sessions.
// Get returns found=false when the key is absent.
type SessionStorage interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Session is the per-browser-session identity holder.
type Session interface {
	ID() string
	User() *domain.User
	Loading() bool
	IsAdmin() bool
	Login(ctx context.Context, u *domain.User) error
	Logout(ctx context.Context) error
}

// SessionManager opens the Session for a browser session id.
type SessionManager interface {
	Open(ctx context.Context, sessionID string) (Session, error)
}

// SubmitGuard rejects concurrent wizard submissions from one session.
// Acquire hands out a token identifying the holder; Release only frees the
// slot while that token still holds it.
type SubmitGuard interface {
	Acquire(ctx context.Context, sessionID string) (token string, ok bool, err error)
	Release(ctx context.Context, sessionID, token string) error
}
