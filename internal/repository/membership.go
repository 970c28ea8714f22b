package repository

import (
	"context"

	"campushub/internal/model"
	"campushub/pkg/generic"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// IMembershipRepository exposes the user-facing slice of club membership and
// event registration data: listing by user and the account-deletion cascade.
type IMembershipRepository interface {
	FindMembershipsByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.ClubMembership, error)
	FindRegistrationsByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.EventRegistration, error)
	DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error
}

// MembershipRepository implements membership persistence over the generic
// mongo base repository, one instance per collection.
type MembershipRepository struct {
	memberships   *generic.MongoBaseRepository[*model.ClubMembership]
	registrations *generic.MongoBaseRepository[*model.EventRegistration]
}

func NewMembershipRepository(db *mongo.Database) IMembershipRepository {
	return &MembershipRepository{
		memberships:   generic.NewBaseRepository[*model.ClubMembership](db.Collection("club_memberships")),
		registrations: generic.NewBaseRepository[*model.EventRegistration](db.Collection("event_registrations")),
	}
}

func (r *MembershipRepository) FindMembershipsByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.ClubMembership, error) {
	return r.memberships.Find(ctx, bson.M{"userId": userID})
}

func (r *MembershipRepository) FindRegistrationsByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.EventRegistration, error) {
	return r.registrations.Find(ctx, bson.M{"userId": userID})
}

// DeleteAllForUser removes the user's memberships and registrations before
// the user document itself is deleted.
func (r *MembershipRepository) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	filter := bson.M{"userId": userID}
	if _, err := r.memberships.DeleteMany(ctx, filter); err != nil {
		return err
	}
	if _, err := r.registrations.DeleteMany(ctx, filter); err != nil {
		return err
	}
	return nil
}
