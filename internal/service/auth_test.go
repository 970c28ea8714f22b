package service

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"campushub/internal/apperr"
	"campushub/internal/audit"
	"campushub/internal/model"
	"campushub/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc          *AuthService
	tokens       *TokenService
	users        *fakeUserRepo
	institutions *fakeInstitutionRepo
	mailer       *fakeMailer
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newFakeUserRepo()
	institutions := newFakeInstitutionRepo()
	mailer := &fakeMailer{}
	tokens := NewTokenService(testJWTConfig())
	svc := NewAuthService(users, institutions, tokens, mailer, audit.NewLogger(&fakeAuditRepo{}), "http://localhost:3000")
	return &authFixture{svc: svc, tokens: tokens, users: users, institutions: institutions, mailer: mailer}
}

// seedInstitution creates a tenant with one member user.
func (f *authFixture) seedInstitution(t *testing.T, code, domain string) *model.Institution {
	t.Helper()
	institution, err := f.institutions.Create(context.Background(), &model.Institution{
		Name:        "Seed University",
		Code:        code,
		EmailDomain: domain,
	})
	require.NoError(t, err)
	return institution
}

func (f *authFixture) seedUser(t *testing.T, institution *model.Institution, email, password, role string) *model.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &model.User{
		Name:          "Seed User",
		Email:         email,
		PasswordHash:  mustHashPassword(t, password),
		Role:          role,
		InstitutionID: institution.ID,
	})
	require.NoError(t, err)
	return user
}

var codePattern = regexp.MustCompile(`^[0-9a-f]{6}$`)

func TestRegisterInstitution(t *testing.T) {
	f := newAuthFixture(t)

	result, err := f.svc.RegisterInstitution(context.Background(),
		"MIT", "mit.edu", "Ada", "Ada@MIT.edu", "StrongPass1")
	require.NoError(t, err)

	assert.Regexp(t, codePattern, result.Institution.Code)
	assert.Equal(t, "mit.edu", result.Institution.EmailDomain)
	assert.Equal(t, model.RoleAdmin, result.User.Role)
	assert.Equal(t, "ada@mit.edu", result.User.Email, "email is stored normalized")
	assert.Equal(t, fmt.Sprintf("/%s/admin", result.Institution.Code), result.Redirect)
	assert.NotEmpty(t, result.RefreshToken)

	claims, err := f.tokens.ParseAccess(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID.Hex(), claims.UserID)
	assert.Equal(t, result.Institution.ID.Hex(), claims.InstitutionID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
}

func TestRegisterInstitutionDuplicateAdminEmail(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	f.seedUser(t, institution, "ada@mit.edu", "StrongPass1", model.RoleMember)

	_, err := f.svc.RegisterInstitution(context.Background(),
		"MIT", "mit.edu", "Ada", "ada@mit.edu", "StrongPass1")
	assertKind(t, err, apperr.KindConflict)
}

func TestRegisterInstitutionCodeExhaustion(t *testing.T) {
	f := newAuthFixture(t)
	f.institutions.forceCollisions = true

	_, err := f.svc.RegisterInstitution(context.Background(),
		"MIT", "mit.edu", "Ada", "ada@mit.edu", "StrongPass1")
	assertKind(t, err, apperr.KindConflict)
	assert.EqualError(t, err, "Institution code conflict. Please try again.")
}

func TestGlobalLogin(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	result, err := f.svc.GlobalLogin(context.Background(), "Dana@MIT.edu", "StrongPass1")
	require.NoError(t, err)
	assert.Equal(t, "/abc123/dashboard", result.Redirect)
	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
}

func TestGlobalLoginUnknownEmail(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.GlobalLogin(context.Background(), "nobody@mit.edu", "StrongPass1")
	assertKind(t, err, apperr.KindAuthentication)
	assert.EqualError(t, err, "No account found with this email")
}

func TestGlobalLoginWrongPassword(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	_, err := f.svc.GlobalLogin(context.Background(), "dana@mit.edu", "WrongPass1")
	assertKind(t, err, apperr.KindAuthentication)
	assert.EqualError(t, err, "Incorrect password")
}

func TestGlobalLoginAdminRedirect(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	f.seedUser(t, institution, "admin@mit.edu", "StrongPass1", model.RoleAdmin)

	result, err := f.svc.GlobalLogin(context.Background(), "admin@mit.edu", "StrongPass1")
	require.NoError(t, err)
	assert.Equal(t, "/abc123/admin", result.Redirect)
}

func TestTenantLoginGenericFailure(t *testing.T) {
	f := newAuthFixture(t)
	home := f.seedInstitution(t, "abc123", "")
	other := f.seedInstitution(t, "def456", "")
	f.seedUser(t, home, "dana@mit.edu", "StrongPass1", model.RoleMember)

	// Unknown email, wrong password, and a user from another tenant must be
	// indistinguishable in the response.
	cases := []struct {
		name        string
		institution *model.Institution
		email       string
		password    string
	}{
		{"unknown email", home, "nobody@mit.edu", "StrongPass1"},
		{"wrong password", home, "dana@mit.edu", "WrongPass1"},
		{"foreign institution", other, "dana@mit.edu", "StrongPass1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.TenantLogin(context.Background(), tc.institution, tc.email, tc.password)
			assertKind(t, err, apperr.KindAuthentication)
			assert.EqualError(t, err, "Invalid email or password")
		})
	}
}

func TestTenantLoginSuccess(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "mit.edu")
	f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	result, err := f.svc.TenantLogin(context.Background(), institution, "dana@mit.edu", "StrongPass1")
	require.NoError(t, err)
	assert.Equal(t, "/abc123/dashboard", result.Redirect)
}

func TestTenantRegisterEnforcesEmailDomain(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "mit.edu")

	_, err := f.svc.TenantRegister(context.Background(), institution, "Eve", "eve@gmail.com", "StrongPass1")
	assertKind(t, err, apperr.KindValidation)
	assert.EqualError(t, err, "Email must belong to mit.edu domain")
}

func TestTenantRegisterConflictBeforeDomainCheck(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "mit.edu")
	f.seedUser(t, institution, "eve@gmail.com", "StrongPass1", model.RoleMember)

	// An email that is both taken and outside the domain reports the conflict.
	_, err := f.svc.TenantRegister(context.Background(), institution, "Eve", "eve@gmail.com", "StrongPass1")
	assertKind(t, err, apperr.KindConflict)
}

func TestTenantRegisterSuccess(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "mit.edu")

	result, err := f.svc.TenantRegister(context.Background(), institution, "Dana", "Dana@MIT.edu", "StrongPass1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, result.User.Role)
	assert.Equal(t, "dana@mit.edu", result.User.Email)
	assert.NotEmpty(t, result.AccessToken)
	assert.Empty(t, result.RefreshToken, "member registration issues no refresh token")
}

func TestTenantRegisterNoDomainRestriction(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")

	_, err := f.svc.TenantRegister(context.Background(), institution, "Dana", "dana@anywhere.org", "StrongPass1")
	assert.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	user := f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	refresh, err := f.tokens.IssueRefresh(user)
	require.NoError(t, err)

	access, err := f.svc.Refresh(context.Background(), refresh)
	require.NoError(t, err)

	claims, err := f.tokens.ParseAccess(access)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, institution.ID.Hex(), claims.InstitutionID)
}

func TestRefreshRejectsInvalidToken(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.svc.Refresh(context.Background(), "garbage")
	assertKind(t, err, apperr.KindAuthorization)
}

func TestRefreshRejectsDeletedUser(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	user := f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	refresh, err := f.tokens.IssueRefresh(user)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(context.Background(), user.ID))

	_, err = f.svc.Refresh(context.Background(), refresh)
	assertKind(t, err, apperr.KindAuthentication)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	user := f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	err := f.svc.ChangePassword(context.Background(), user, "StrongPass1", "FreshPass2")
	require.NoError(t, err)

	stored := f.users.get(user.ID)
	assert.True(t, util.VerifyPassword("FreshPass2", stored.PasswordHash))
	assert.Equal(t, 1, stored.TokenVersion, "a password change must rotate tokenVersion")
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	user := f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	err := f.svc.ChangePassword(context.Background(), user, "WrongPass1", "FreshPass2")
	assertKind(t, err, apperr.KindAuthentication)
	assert.EqualError(t, err, "Incorrect current password")
	assert.Zero(t, f.users.get(user.ID).TokenVersion)
}

func TestChangePasswordPolicy(t *testing.T) {
	f := newAuthFixture(t)
	institution := f.seedInstitution(t, "abc123", "")
	user := f.seedUser(t, institution, "dana@mit.edu", "StrongPass1", model.RoleMember)

	err := f.svc.ChangePassword(context.Background(), user, "StrongPass1", "weak")
	assertKind(t, err, apperr.KindValidation)
}
