package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership statuses
const (
	MembershipPending  = "PENDING"
	MembershipApproved = "APPROVED"
	MembershipRejected = "REJECTED"
)

// ClubMembership links a user to a club within an institution. Club CRUD is
// owned elsewhere; this model exists so account deletion can cascade and so
// users can list their own memberships.
type ClubMembership struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	ClubID        primitive.ObjectID `bson:"clubId" json:"clubId"`
	InstitutionID primitive.ObjectID `bson:"institutionId" json:"institutionId"`
	Status        string             `bson:"status" json:"status"`
	Role          string             `bson:"role" json:"role"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GetID implements generic.Entity
func (m *ClubMembership) GetID() primitive.ObjectID { return m.ID }

// SetID implements generic.Entity
func (m *ClubMembership) SetID(id primitive.ObjectID) { m.ID = id }

// EventRegistration links a user to an event. Same ownership caveat as
// ClubMembership.
type EventRegistration struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	EventID       primitive.ObjectID `bson:"eventId" json:"eventId"`
	InstitutionID primitive.ObjectID `bson:"institutionId" json:"institutionId"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// GetID implements generic.Entity
func (r *EventRegistration) GetID() primitive.ObjectID { return r.ID }

// SetID implements generic.Entity
func (r *EventRegistration) SetID(id primitive.ObjectID) { r.ID = id }
