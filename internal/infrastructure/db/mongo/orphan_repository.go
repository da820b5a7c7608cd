package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/BRMilev22/Bookbite-sub001/internal/core/domain"
	"github.com/BRMilev22/Bookbite-sub001/internal/core/ports"
)

const orphansCollection = "orphaned_customers"

// OrphanRepository implements ports.OrphanRepository using MongoDB.
type OrphanRepository struct {
	db *mongo.Database
}

// NewOrphanRepository creates a new OrphanRepository.
func NewOrphanRepository(db *mongo.Database) ports.OrphanRepository {
	return &OrphanRepository{db: db}
}

// Record appends the customer to the orphaned_customers audit collection.
func (r *OrphanRepository) Record(ctx context.Context, o *domain.OrphanedCustomer) error {
	recordedAt := o.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	doc := bson.M{
		"customer_id": o.CustomerID,
		"session_id":  o.SessionID,
		"reason":      o.Reason,
		"recorded_at": recordedAt.UTC(),
	}

	_, err := r.db.Collection(orphansCollection).InsertOne(ctx, doc)
	return err
}
