package service

import (
	"context"
	"sync"
	"time"

	"campushub/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// duplicateKeyErr mimics a mongo unique-index violation so services exercise
// the same error-translation path as against a real database.
var duplicateKeyErr = mongo.WriteException{
	WriteErrors: []mongo.WriteError{{Code: 11000}},
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*model.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, duplicateKeyErr
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return user, nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expiresAt, requestedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil
	}
	exp := expiresAt
	req := requestedAt
	u.ResetTokenHash = tokenHash
	u.ResetTokenExpiresAt = &exp
	u.ResetUsed = false
	u.ResetRequestedAt = &req
	u.ResetAttempts = 0
	return nil
}

func (r *fakeUserRepo) IncResetAttempts(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.ResetAttempts++
	}
	return nil
}

func (r *fakeUserRepo) ConsumeResetToken(ctx context.Context, id primitive.ObjectID, passwordHash string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ResetUsed || u.ResetTokenExpiresAt == nil || !now.Before(*u.ResetTokenExpiresAt) {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.ResetUsed = true
	u.ResetTokenHash = ""
	u.ResetTokenExpiresAt = nil
	u.TokenVersion++
	return true, nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id primitive.ObjectID, passwordHash string, bumpTokenVersion bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.PasswordHash = passwordHash
		if bumpTokenVersion {
			u.TokenVersion++
		}
	}
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

// get returns the stored user (not a clone) for assertions.
func (r *fakeUserRepo) get(id primitive.ObjectID) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.users[id]
}

type fakeInstitutionRepo struct {
	mu           sync.Mutex
	institutions map[primitive.ObjectID]*model.Institution
	// forceCollisions makes every code look taken, to exhaust the retry loop
	forceCollisions bool
}

func newFakeInstitutionRepo() *fakeInstitutionRepo {
	return &fakeInstitutionRepo{institutions: make(map[primitive.ObjectID]*model.Institution)}
}

func (r *fakeInstitutionRepo) Create(ctx context.Context, institution *model.Institution) (*model.Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.institutions {
		if i.Code == institution.Code {
			return nil, duplicateKeyErr
		}
	}
	institution.ID = primitive.NewObjectID()
	institution.CreatedAt = time.Now()
	institution.UpdatedAt = institution.CreatedAt
	clone := *institution
	r.institutions[institution.ID] = &clone
	return institution, nil
}

func (r *fakeInstitutionRepo) FindByCode(ctx context.Context, code string) (*model.Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.forceCollisions {
		return &model.Institution{ID: primitive.NewObjectID(), Code: code}, nil
	}
	for _, i := range r.institutions {
		if i.Code == code {
			clone := *i
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeInstitutionRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*model.Institution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.institutions[id]
	if !ok {
		return nil, nil
	}
	clone := *i
	return &clone, nil
}

type fakeMembershipRepo struct {
	mu            sync.Mutex
	memberships   []*model.ClubMembership
	registrations []*model.EventRegistration
}

func (r *fakeMembershipRepo) FindMembershipsByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.ClubMembership, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.ClubMembership
	for _, m := range r.memberships {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) FindRegistrationsByUser(ctx context.Context, userID primitive.ObjectID) ([]*model.EventRegistration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*model.EventRegistration
	for _, reg := range r.registrations {
		if reg.UserID == userID {
			out = append(out, reg)
		}
	}
	return out, nil
}

func (r *fakeMembershipRepo) DeleteAllForUser(ctx context.Context, userID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	var keptM []*model.ClubMembership
	for _, m := range r.memberships {
		if m.UserID != userID {
			keptM = append(keptM, m)
		}
	}
	r.memberships = keptM
	var keptR []*model.EventRegistration
	for _, reg := range r.registrations {
		if reg.UserID != userID {
			keptR = append(keptR, reg)
		}
	}
	r.registrations = keptR
	return nil
}

type fakeAuditRepo struct {
	mu     sync.Mutex
	events []*model.AuditEvent
}

func (r *fakeAuditRepo) Create(ctx context.Context, event *model.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
}

type sentMail struct {
	To      string
	Subject string
	HTML    string
}

func (m *fakeMailer) Send(to, subject, html string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, HTML: html})
	return nil
}
