package repository

import (
	"context"
	"time"

	"campushub/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IUserRepository defines user persistence
type IUserRepository interface {
	Create(ctx context.Context, user *model.User) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expiresAt, requestedAt time.Time) error
	IncResetAttempts(ctx context.Context, id primitive.ObjectID) error
	ConsumeResetToken(ctx context.Context, id primitive.ObjectID, passwordHash string, now time.Time) (bool, error)
	UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, bumpTokenVersion bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserRepository implements user persistence
type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *mongo.Database) IUserRepository {
	return &UserRepository{collection: db.Collection("users")}
}

// Create inserts a new user. The unique index on email enforces the global
// email constraint; a pre-check alone would be racy under concurrency.
func (r *UserRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		return nil, err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return user, nil
}

// FindByEmail looks a user up by normalized (lowercase, trimmed) email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user *model.User
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	var user *model.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// SetResetToken overwrites any previous reset state, so at most one active
// token exists per user.
func (r *UserRepository) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expiresAt, requestedAt time.Time) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"resetTokenHash":      tokenHash,
			"resetTokenExpiresAt": expiresAt,
			"resetUsed":           false,
			"resetRequestedAt":    requestedAt,
			"resetAttempts":       0,
			"updatedAt":           time.Now(),
		},
	})
	return err
}

func (r *UserRepository) IncResetAttempts(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{"resetAttempts": 1},
	})
	return err
}

// ConsumeResetToken applies the whole reset effect as one conditional
// single-document update: new password, tokenVersion bump, token marked used
// and cleared. The resetUsed/expiry guards in the filter make replays and
// races lose atomically; partial application is never observable. Returns
// false when no document matched.
func (r *UserRepository) ConsumeResetToken(ctx context.Context, id primitive.ObjectID, passwordHash string, now time.Time) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"_id":                 id,
			"resetUsed":           false,
			"resetTokenExpiresAt": bson.M{"$gt": now},
		},
		bson.M{
			"$set": bson.M{
				"password":  passwordHash,
				"resetUsed": true,
				"updatedAt": now,
			},
			"$unset": bson.M{
				"resetTokenHash":      "",
				"resetTokenExpiresAt": "",
			},
			"$inc": bson.M{"tokenVersion": 1},
		},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

// UpdatePassword sets a new password hash, optionally bumping tokenVersion
// to invalidate outstanding access tokens.
func (r *UserRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, bumpTokenVersion bool) error {
	update := bson.M{
		"$set": bson.M{
			"password":  passwordHash,
			"updatedAt": time.Now(),
		},
	}
	if bumpTokenVersion {
		update["$inc"] = bson.M{"tokenVersion": 1}
	}
	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
