package repository

import (
	"context"
	"time"

	"campushub/internal/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// IAuditRepository defines the append-only audit sink
type IAuditRepository interface {
	Create(ctx context.Context, event *model.AuditEvent) error
}

// AuditRepository implements audit persistence
type AuditRepository struct {
	collection *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) IAuditRepository {
	return &AuditRepository{collection: db.Collection("audit_events")}
}

func (r *AuditRepository) Create(ctx context.Context, event *model.AuditEvent) error {
	event.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, event)
	return err
}
