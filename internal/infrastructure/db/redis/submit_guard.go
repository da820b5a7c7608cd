package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const defaultSubmitLockTTL = 30 * time.Second

// releaseScript deletes the lock only while it still carries the caller's
// token, so an expired holder cannot free a newer submission's slot.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SubmitGuard serialises wizard submissions per session.
// Key format: submit:<session_id>, value: holder token.
type SubmitGuard struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSubmitGuard creates a SubmitGuard. The lock expires after ttl so a
// crashed request cannot block the session forever.
func NewSubmitGuard(client *redis.Client, ttl time.Duration) ports.SubmitGuard {
	if ttl <= 0 {
		ttl = defaultSubmitLockTTL
	}
	return &SubmitGuard{client: client, ttl: ttl}
}

// Acquire claims the submission slot and returns the holder token.
func (g *SubmitGuard) Acquire(ctx context.Context, sessionID string) (string, bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, submitKey(sessionID), token, g.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("submit guard acquire: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the slot if token still holds it.
func (g *SubmitGuard) Release(ctx context.Context, sessionID, token string) error {
	if err := releaseScript.Run(ctx, g.client, []string{submitKey(sessionID)}, token).Err(); err != nil {
		return fmt.Errorf("submit guard release: %w", err)
	}
	return nil
}

func submitKey(sessionID string) string {
	return fmt.Sprintf("submit:%s", sessionID)
}
