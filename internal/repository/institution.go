package repository

import (
	"context"
	"time"

	"campushub/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IInstitutionRepository defines institution persistence
type IInstitutionRepository interface {
	Create(ctx context.Context, institution *model.Institution) (*model.Institution, error)
	FindByCode(ctx context.Context, code string) (*model.Institution, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.Institution, error)
}

// InstitutionRepository implements institution persistence
type InstitutionRepository struct {
	collection *mongo.Collection
}

func NewInstitutionRepository(db *mongo.Database) IInstitutionRepository {
	return &InstitutionRepository{collection: db.Collection("institutions")}
}

// Create inserts a new institution. The unique index on code makes this the
// authoritative collision check; callers retry on IsDuplicateKey.
func (r *InstitutionRepository) Create(ctx context.Context, institution *model.Institution) (*model.Institution, error) {
	now := time.Now()
	institution.CreatedAt = now
	institution.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, institution)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		institution.ID = oid
	}
	return institution, nil
}

func (r *InstitutionRepository) FindByCode(ctx context.Context, code string) (*model.Institution, error) {
	var institution *model.Institution
	err := r.collection.FindOne(ctx, bson.M{"code": code}).Decode(&institution)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return institution, nil
}

func (r *InstitutionRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Institution, error) {
	var institution *model.Institution
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&institution)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return institution, nil
}

// IsDuplicateKey reports whether err is a unique-index violation. Both the
// global email constraint and the institution-code constraint surface here.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
