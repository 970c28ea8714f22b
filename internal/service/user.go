package service

import (
	"context"

	"campushub/internal/apperr"
	"campushub/internal/audit"
	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/pkg/util"
)

// UserService handles account-level operations for the authenticated user.
type UserService struct {
	users       repository.IUserRepository
	memberships repository.IMembershipRepository
	auditor     *audit.Logger
}

func NewUserService(users repository.IUserRepository, memberships repository.IMembershipRepository, auditor *audit.Logger) *UserService {
	return &UserService{users: users, memberships: memberships, auditor: auditor}
}

// ListMemberships returns the user's club memberships.
func (s *UserService) ListMemberships(ctx context.Context, user *model.User) ([]*model.ClubMembership, error) {
	memberships, err := s.memberships.FindMembershipsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("Server Error", err)
	}
	return memberships, nil
}

// ListRegistrations returns the user's event registrations.
func (s *UserService) ListRegistrations(ctx context.Context, user *model.User) ([]*model.EventRegistration, error) {
	registrations, err := s.memberships.FindRegistrationsByUser(ctx, user.ID)
	if err != nil {
		return nil, apperr.Internal("Server Error", err)
	}
	return registrations, nil
}

// DeleteAccount removes the user after password re-confirmation, cascading
// the deletion of their memberships and event registrations first.
func (s *UserService) DeleteAccount(ctx context.Context, user *model.User, password string) error {
	if !util.VerifyPassword(password, user.PasswordHash) {
		return apperr.Authentication("Incorrect password")
	}

	if err := s.memberships.DeleteAllForUser(ctx, user.ID); err != nil {
		return apperr.Internal("Server Error", err)
	}
	if err := s.users.Delete(ctx, user.ID); err != nil {
		return apperr.Internal("Server Error", err)
	}

	s.auditor.Log(model.AuditDeleteUser, user.ID, user.InstitutionID,
		"User deleted their own account")

	return nil
}
