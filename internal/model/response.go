package model

// ErrorResponse is the uniform error body
type ErrorResponse struct {
	Message string `json:"message"`
}

// NewErrorResponse builds an error body with a user-safe message
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Message: message}
}

// AuthResponse is returned by registration and login endpoints. The refresh
// token is never part of this body; it travels only in the HTTP-only cookie.
type AuthResponse struct {
	Success         bool   `json:"success"`
	Token           string `json:"token"`
	Role            string `json:"role"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	InstitutionCode string `json:"institutionCode"`
	Redirect        string `json:"redirect"`
}

// RegisterInstitutionRequest creates a tenant plus its first admin
type RegisterInstitutionRequest struct {
	Name          string `json:"name"`
	EmailDomain   string `json:"emailDomain"`
	AdminName     string `json:"adminName"`
	AdminEmail    string `json:"adminEmail"`
	AdminPassword string `json:"adminPassword"`
}

// LoginRequest is shared by global and tenant-scoped login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the tenant-scoped member registration body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RequestResetRequest starts the password reset flow
type RequestResetRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest consumes a reset token
type ResetPasswordRequest struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Password string `json:"password"`
}

// ChangePasswordRequest updates the password of an authenticated user
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// DeleteAccountRequest re-confirms the password before deletion
type DeleteAccountRequest struct {
	Password string `json:"password"`
}
