package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Institution is an isolated tenant namespace. Code is a short random
// identifier, unique across the platform (enforced by index). EmailDomain,
// when set, constrains which email suffixes may self-register.
type Institution struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Code        string             `bson:"code" json:"code"`
	EmailDomain string             `bson:"emailDomain,omitempty" json:"emailDomain,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
