package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// User belongs to exactly one institution; the pair is immutable after
// creation. Email is unique globally across all institutions (unique index,
// stored lowercase). TokenVersion increments on every credential-invalidating
// event, killing all previously issued access tokens at once.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	Email         string             `bson:"email" json:"email"`
	PasswordHash  string             `bson:"password" json:"-"`
	Role          string             `bson:"role" json:"role"`
	InstitutionID primitive.ObjectID `bson:"institutionId" json:"institutionId"`
	TokenVersion  int                `bson:"tokenVersion" json:"-"`

	// Password reset state. Transient: overwritten on each new request and
	// cleared on successful consume. ResetTokenHash is never the raw token.
	ResetTokenHash      string     `bson:"resetTokenHash,omitempty" json:"-"`
	ResetTokenExpiresAt *time.Time `bson:"resetTokenExpiresAt,omitempty" json:"-"`
	ResetUsed           bool       `bson:"resetUsed" json:"-"`
	ResetRequestedAt    *time.Time `bson:"resetRequestedAt,omitempty" json:"-"`
	ResetAttempts       int        `bson:"resetAttempts" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// IsAdmin reports whether the user holds the institution admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
