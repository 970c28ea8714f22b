package service

import (
	"context"
	"fmt"
	"time"

	"campushub/internal/apperr"
	"campushub/internal/audit"
	"campushub/internal/mail"
	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/pkg/util"

	"go.uber.org/zap"
)

const (
	// ResetTokenTTL bounds the attack window of a stolen reset link
	ResetTokenTTL = 15 * time.Minute
	// MaxResetAttempts spends the token after repeated bad guesses
	MaxResetAttempts = 5
)

const invalidResetMessage = "Invalid or expired token"

// GenericResetMessage is returned by Request whether or not the email
// exists, to prevent account enumeration.
const GenericResetMessage = "If an account with that email exists, we have sent password reset instructions."

// ResetService owns the single-use password reset state machine.
type ResetService struct {
	users        repository.IUserRepository
	institutions repository.IInstitutionRepository
	mailer       mail.Mailer
	auditor      *audit.Logger
	frontendURL  string
	now          func() time.Time
}

func NewResetService(
	users repository.IUserRepository,
	institutions repository.IInstitutionRepository,
	mailer mail.Mailer,
	auditor *audit.Logger,
	frontendURL string,
) *ResetService {
	return &ResetService{
		users:        users,
		institutions: institutions,
		mailer:       mailer,
		auditor:      auditor,
		frontendURL:  frontendURL,
		now:          time.Now,
	}
}

// Request starts a reset for the given email. It returns an error only on
// internal failure; an unknown email is indistinguishable from a known one
// so callers always answer with GenericResetMessage. A new request
// supersedes any prior token for the user.
func (s *ResetService) Request(ctx context.Context, email string) error {
	normalized := util.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, normalized)
	if err != nil {
		return apperr.Internal("Server Error", err)
	}
	if user == nil {
		zap.L().Info("password reset requested for unknown email")
		return nil
	}

	token, err := util.GenerateResetToken()
	if err != nil {
		return apperr.Internal("Server Error", err)
	}
	tokenHash, err := util.HashResetToken(token)
	if err != nil {
		return apperr.Internal("Server Error", err)
	}

	requestedAt := s.now()
	expiresAt := requestedAt.Add(ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, tokenHash, expiresAt, requestedAt); err != nil {
		return apperr.Internal("Server Error", err)
	}

	institutionName := "your institution"
	if institution, err := s.institutions.FindByID(ctx, user.InstitutionID); err == nil && institution != nil {
		institutionName = institution.Name
	}

	// The raw token travels only inside this link.
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&id=%s", s.frontendURL, token, user.ID.Hex())
	subject, html := mail.ResetBody(institutionName, resetURL)
	mail.SendAsync(s.mailer, user.Email, subject, html)

	return nil
}

// Validate is the read-only UI helper: it checks the token without mutating
// reset state, except for counting a failed hash comparison as an attempt.
func (s *ResetService) Validate(ctx context.Context, idHex, token string) error {
	user, err := s.loadResetUser(ctx, idHex)
	if err != nil {
		return err
	}
	return s.checkResetState(ctx, user, token)
}

// Consume finishes the reset: it verifies the token, sets the new password,
// bumps tokenVersion, and marks the token used in one atomic update. The
// password policy is checked before any state is touched. A second consume
// with the same token always fails.
func (s *ResetService) Consume(ctx context.Context, idHex, token, newPassword string) error {
	if err := util.ValidatePasswordPolicy(newPassword); err != nil {
		return apperr.Validation(err.Error())
	}

	user, err := s.loadResetUser(ctx, idHex)
	if err != nil {
		return err
	}
	if err := s.checkResetState(ctx, user, token); err != nil {
		return err
	}

	passwordHash, err := util.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("Server Error", err)
	}

	consumed, err := s.users.ConsumeResetToken(ctx, user.ID, passwordHash, s.now())
	if err != nil {
		return apperr.Internal("Server Error", err)
	}
	if !consumed {
		// Lost a race against another consume or the expiry boundary.
		return apperr.Authentication(invalidResetMessage)
	}

	subject, html := mail.PasswordChangedBody()
	mail.SendAsync(s.mailer, user.Email, subject, html)
	s.auditor.Log(model.AuditResetPassword, user.ID, user.InstitutionID,
		"Password reset completed via emailed token")

	return nil
}

// loadResetUser resolves the user id from the reset link. Unknown ids get
// the same generic failure as bad tokens so the flow cannot be used to
// probe for accounts.
func (s *ResetService) loadResetUser(ctx context.Context, idHex string) (*model.User, error) {
	id, err := util.ParseObjectID(idHex)
	if err != nil {
		return nil, apperr.Authentication(invalidResetMessage)
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("Server Error", err)
	}
	if user == nil {
		return nil, apperr.Authentication(invalidResetMessage)
	}
	return user, nil
}

func (s *ResetService) checkResetState(ctx context.Context, user *model.User, token string) error {
	if user.ResetTokenHash == "" || user.ResetTokenExpiresAt == nil {
		return apperr.Authentication(invalidResetMessage)
	}
	if user.ResetUsed {
		return apperr.Authentication("Token has already been used")
	}
	if s.now().After(*user.ResetTokenExpiresAt) {
		return apperr.Authentication("Token has expired")
	}
	if user.ResetAttempts >= MaxResetAttempts {
		return apperr.Authentication(invalidResetMessage)
	}
	if !util.VerifyResetToken(token, user.ResetTokenHash) {
		if err := s.users.IncResetAttempts(ctx, user.ID); err != nil {
			zap.L().Error("failed to record reset attempt", zap.Error(err))
		}
		return apperr.Authentication(invalidResetMessage)
	}
	return nil
}
