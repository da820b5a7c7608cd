package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const sessionsCollection = "sessions"

type sessionDocument struct {
	Key       string    `bson:"_id"`
	Value     []byte    `bson:"value"`
	ExpiresAt time.Time `bson:"expires_at"`
}

// SessionStorage implements ports.SessionStorage using the sessions collection.
// Expired documents are ignored on read and reaped by a TTL index.
type SessionStorage struct {
	db  *mongo.Database
	now func() time.Time
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage(db *mongo.Database) *SessionStorage {
	return &SessionStorage{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// EnsureIndexes creates the TTL index on expires_at.
func (s *SessionStorage) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("sessions index: %w", err)
	}
	return nil
}

func (s *SessionStorage) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var doc sessionDocument
	err := s.db.Collection(sessionsCollection).FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("session get %s: %w", key, err)
	}
	if !doc.ExpiresAt.IsZero() && !doc.ExpiresAt.After(s.now()) {
		return nil, false, nil
	}
	return doc.Value, true, nil
}

func (s *SessionStorage) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	set := bson.M{"value": value}
	if ttl > 0 {
		set["expires_at"] = s.now().Add(ttl)
	}
	_, err := s.db.Collection(sessionsCollection).UpdateOne(ctx,
		bson.M{"_id": key},
		bson.M{"$set": set},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, key string) error {
	if _, err := s.db.Collection(sessionsCollection).DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("session delete %s: %w", key, err)
	}
	return nil
}

var _ ports.SessionStorage = (*SessionStorage)(nil)
