package service

import (
	"context"
	"fmt"

	"campushub/internal/apperr"
	"campushub/internal/audit"
	"campushub/internal/mail"
	"campushub/internal/model"
	"campushub/internal/repository"
	"campushub/pkg/timer"
	"campushub/pkg/util"
)

// maxCodeAttempts bounds the institution-code generation retry loop
const maxCodeAttempts = 10

// AuthResult bundles everything a successful register/login produces. The
// refresh token is delivered only as an HTTP-only cookie by the handler.
type AuthResult struct {
	User         *model.User
	Institution  *model.Institution
	AccessToken  string
	RefreshToken string
	Redirect     string
}

// AuthService composes the credential lifecycle use cases: institution
// registration, logins, refresh, and password changes.
type AuthService struct {
	users        repository.IUserRepository
	institutions repository.IInstitutionRepository
	tokens       *TokenService
	mailer       mail.Mailer
	auditor      *audit.Logger
	frontendURL  string
}

func NewAuthService(
	users repository.IUserRepository,
	institutions repository.IInstitutionRepository,
	tokens *TokenService,
	mailer mail.Mailer,
	auditor *audit.Logger,
	frontendURL string,
) *AuthService {
	return &AuthService{
		users:        users,
		institutions: institutions,
		tokens:       tokens,
		mailer:       mailer,
		auditor:      auditor,
		frontendURL:  frontendURL,
	}
}

// RegisterInstitution creates a new tenant plus its first ADMIN user.
// The admin email must be unused platform-wide; the institution code is
// generated with bounded retries against the unique index.
func (s *AuthService) RegisterInstitution(ctx context.Context, name, emailDomain, adminName, adminEmail, adminPassword string) (*AuthResult, error) {
	normalizedEmail := util.NormalizeEmail(adminEmail)

	existing, err := s.users.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("An account with this email already exists. Please use a different email or login.")
	}

	institution, err := s.createInstitutionWithUniqueCode(ctx, name, emailDomain)
	if err != nil {
		return nil, err
	}

	passwordHash, err := util.HashPassword(adminPassword)
	if err != nil {
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}

	user := &model.User{
		Name:          adminName,
		Email:         normalizedEmail,
		PasswordHash:  passwordHash,
		Role:          model.RoleAdmin,
		InstitutionID: institution.ID,
	}
	user, err = s.users.Create(ctx, user)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			// Lost the insert race on the global email index.
			return nil, apperr.Conflict("An account with this email already exists")
		}
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}

	loginURL := s.frontendURL + "/login"
	subject, html := mail.WelcomeBody(institution.Name, institution.Code, loginURL)
	mail.SendAsync(s.mailer, user.Email, subject, html)
	s.auditor.Log(model.AuditCreateInstitution, user.ID, institution.ID,
		fmt.Sprintf("Institution %s created by %s", institution.Name, user.Email))

	return s.issueTokens(user, institution, true)
}

// GlobalLogin authenticates by email alone; the institution is resolved from
// the user record.
func (s *AuthService) GlobalLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, util.NormalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("Login failed. Please try again.", err)
	}
	if user == nil {
		return nil, apperr.Authentication("No account found with this email")
	}
	if !s.verifyPassword(password, user.PasswordHash) {
		return nil, apperr.Authentication("Incorrect password")
	}

	institution, err := s.institutions.FindByID(ctx, user.InstitutionID)
	if err != nil || institution == nil {
		return nil, apperr.Internal("Login failed. Please try again.", err)
	}

	s.auditor.Log(model.AuditLogin, user.ID, institution.ID,
		fmt.Sprintf("User %s logged in", user.Email))

	return s.issueTokens(user, institution, true)
}

// TenantLogin authenticates against a tenant already fixed by the resolved
// path. Unknown email, wrong password, and a user whose home institution
// differs from the path tenant all fail with one generic message so the
// response does not reveal where an email is registered.
func (s *AuthService) TenantLogin(ctx context.Context, institution *model.Institution, email, password string) (*AuthResult, error) {
	user, err := s.users.FindByEmail(ctx, util.NormalizeEmail(email))
	if err != nil {
		return nil, apperr.Internal("Login failed. Please try again.", err)
	}
	if user == nil || !s.verifyPassword(password, user.PasswordHash) || user.InstitutionID != institution.ID {
		return nil, apperr.Authentication("Invalid email or password")
	}

	s.auditor.Log(model.AuditLogin, user.ID, institution.ID,
		fmt.Sprintf("User %s logged in", user.Email))

	return s.issueTokens(user, institution, true)
}

// TenantRegister creates a MEMBER under the resolved institution. The email
// conflict check runs before the domain constraint, and the unique index
// remains the authoritative arbiter under concurrency.
func (s *AuthService) TenantRegister(ctx context.Context, institution *model.Institution, name, email, password string) (*AuthResult, error) {
	normalizedEmail := util.NormalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, normalizedEmail)
	if err != nil {
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("An account with this email already exists. Please login instead.")
	}

	if institution.EmailDomain != "" {
		domain := util.NormalizeEmail(institution.EmailDomain)
		if util.EmailDomain(normalizedEmail) != domain {
			return nil, apperr.Validation(fmt.Sprintf("Email must belong to %s domain", domain))
		}
	}

	passwordHash, err := util.HashPassword(password)
	if err != nil {
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}

	user := &model.User{
		Name:          name,
		Email:         normalizedEmail,
		PasswordHash:  passwordHash,
		Role:          model.RoleMember,
		InstitutionID: institution.ID,
	}
	user, err = s.users.Create(ctx, user)
	if err != nil {
		if repository.IsDuplicateKey(err) {
			return nil, apperr.Conflict("An account with this email already exists. Please login instead.")
		}
		return nil, apperr.Internal("Registration failed. Please try again.", err)
	}

	s.auditor.Log(model.AuditRegister, user.ID, institution.ID,
		fmt.Sprintf("User %s registered", user.Email))

	// Member registration returns an access token only; the refresh cookie
	// is reserved for login flows.
	return s.issueTokens(user, institution, false)
}

// Refresh re-derives a fresh access token from the refresh cookie without
// requiring the (possibly expired) access token. Verification failure is an
// authorization rejection; it never falls back to a lesser form of trust.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", apperr.Authorization("Forbidden")
	}

	userID, err := util.ParseObjectID(claims.UserID)
	if err != nil {
		return "", apperr.Authorization("Forbidden")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", apperr.Internal("Server Error", err)
	}
	if user == nil {
		return "", apperr.Authentication("Unauthorized")
	}

	institution, err := s.institutions.FindByID(ctx, user.InstitutionID)
	if err != nil || institution == nil {
		return "", apperr.Internal("Server Error", err)
	}

	return s.tokens.IssueAccess(user, institution)
}

// ChangePassword verifies the current password, applies the policy to the
// new one, and rotates tokenVersion: a password change is a
// credential-invalidating event, so every outstanding access token dies.
// The refresh cookie stays valid and recovers the session.
func (s *AuthService) ChangePassword(ctx context.Context, user *model.User, currentPassword, newPassword string) error {
	if !s.verifyPassword(currentPassword, user.PasswordHash) {
		return apperr.Authentication("Incorrect current password")
	}
	if err := util.ValidatePasswordPolicy(newPassword); err != nil {
		return apperr.Validation(err.Error())
	}

	passwordHash, err := util.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal("Server error", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, passwordHash, true); err != nil {
		return apperr.Internal("Server error", err)
	}

	subject, html := mail.PasswordChangedBody()
	mail.SendAsync(s.mailer, user.Email, subject, html)
	s.auditor.Log(model.AuditChangePassword, user.ID, user.InstitutionID,
		"Password updated via account settings")

	return nil
}

func (s *AuthService) createInstitutionWithUniqueCode(ctx context.Context, name, emailDomain string) (*model.Institution, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := util.GenerateInstitutionCode()
		if err != nil {
			return nil, apperr.Internal("Registration failed. Please try again.", err)
		}

		// Pre-check keeps the common path cheap; the unique index settles
		// concurrent collisions.
		existing, err := s.institutions.FindByCode(ctx, code)
		if err != nil {
			return nil, apperr.Internal("Registration failed. Please try again.", err)
		}
		if existing != nil {
			continue
		}

		institution, err := s.institutions.Create(ctx, &model.Institution{
			Name:        name,
			Code:        code,
			EmailDomain: emailDomain,
		})
		if err != nil {
			if repository.IsDuplicateKey(err) {
				continue
			}
			return nil, apperr.Internal("Registration failed. Please try again.", err)
		}
		return institution, nil
	}
	return nil, apperr.Conflict("Institution code conflict. Please try again.")
}

func (s *AuthService) verifyPassword(password, hash string) bool {
	defer timer.Track("Verify Credentials")()
	return util.VerifyPassword(password, hash)
}

func (s *AuthService) issueTokens(user *model.User, institution *model.Institution, withRefresh bool) (*AuthResult, error) {
	accessToken, err := s.tokens.IssueAccess(user, institution)
	if err != nil {
		return nil, apperr.Internal("Server Error", err)
	}

	result := &AuthResult{
		User:        user,
		Institution: institution,
		AccessToken: accessToken,
		Redirect:    redirectPath(user, institution),
	}
	if withRefresh {
		refreshToken, err := s.tokens.IssueRefresh(user)
		if err != nil {
			return nil, apperr.Internal("Server Error", err)
		}
		result.RefreshToken = refreshToken
	}
	return result, nil
}

func redirectPath(user *model.User, institution *model.Institution) string {
	if user.IsAdmin() {
		return fmt.Sprintf("/%s/admin", institution.Code)
	}
	return fmt.Sprintf("/%s/dashboard", institution.Code)
}
