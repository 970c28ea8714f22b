package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Audit actions emitted by the auth flows
const (
	AuditCreateInstitution = "CREATE_INSTITUTION"
	AuditRegister          = "REGISTER"
	AuditLogin             = "LOGIN"
	AuditResetPassword     = "RESET_PASSWORD"
	AuditChangePassword    = "CHANGE_PASSWORD"
	AuditDeleteUser        = "DELETE_USER"
)

// AuditEvent is an append-only record of a security-relevant action.
// EventID is a uuid so events can be correlated with request logs.
type AuditEvent struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID       string             `bson:"eventId" json:"eventId"`
	Action        string             `bson:"action" json:"action"`
	PerformedBy   primitive.ObjectID `bson:"performedBy,omitempty" json:"performedBy,omitempty"`
	InstitutionID primitive.ObjectID `bson:"institutionId,omitempty" json:"institutionId,omitempty"`
	Details       string             `bson:"details,omitempty" json:"details,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
