package handler

import (
	"net/http"
	"strings"

	"campushub/internal/config"
	"campushub/internal/middleware"
	"campushub/internal/model"
	"campushub/internal/service"
	"campushub/pkg/util"

	"github.com/gin-gonic/gin"
)

// RefreshCookieName is the HTTP-only cookie carrying the refresh token
const RefreshCookieName = "jwt"

// AuthHandler handles registration, login, session, and reset endpoints
type AuthHandler struct {
	auth  *service.AuthService
	reset *service.ResetService
	cfg   *config.Config
}

func NewAuthHandler(auth *service.AuthService, reset *service.ResetService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, reset: reset, cfg: cfg}
}

// RegisterInstitution creates a tenant plus its first admin
// @Router /institutions/register [post]
func (h *AuthHandler) RegisterInstitution(c *gin.Context) {
	var req model.RegisterInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}

	// Input-shape checks run before any persistence call
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Institution name is required"))
		return
	}
	if strings.TrimSpace(req.AdminName) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Admin name is required"))
		return
	}
	if strings.TrimSpace(req.AdminEmail) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Admin email is required"))
		return
	}
	if req.AdminPassword == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password is required"))
		return
	}
	if len(req.AdminPassword) < util.MinPasswordLength {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password must be at least 8 characters long"))
		return
	}
	if !util.IsValidEmail(util.NormalizeEmail(req.AdminEmail)) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Please enter a valid email address"))
		return
	}

	result, err := h.auth.RegisterInstitution(c.Request.Context(),
		strings.TrimSpace(req.Name), strings.TrimSpace(req.EmailDomain),
		strings.TrimSpace(req.AdminName), req.AdminEmail, req.AdminPassword)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusCreated, authResponse(result))
}

// GlobalLogin authenticates by email regardless of institution
// @Router /auth/login [post]
func (h *AuthHandler) GlobalLogin(c *gin.Context) {
	req, ok := h.bindLogin(c)
	if !ok {
		return
	}

	result, err := h.auth.GlobalLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, authResponse(result))
}

// TenantLogin authenticates against the institution resolved from the path
// @Router /:code/auth/login [post]
func (h *AuthHandler) TenantLogin(c *gin.Context) {
	institution, ok := middleware.GetInstitution(c)
	if !ok {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid institution code. Please check and try again."))
		return
	}
	req, bound := h.bindLogin(c)
	if !bound {
		return
	}

	result, err := h.auth.TenantLogin(c.Request.Context(), institution, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setRefreshCookie(c, result.RefreshToken)
	c.JSON(http.StatusOK, authResponse(result))
}

// TenantRegister creates a MEMBER under the institution resolved from the path
// @Router /:code/auth/register [post]
func (h *AuthHandler) TenantRegister(c *gin.Context) {
	institution, ok := middleware.GetInstitution(c)
	if !ok {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid institution code. Please check and try again."))
		return
	}

	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Name is required"))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Email is required"))
		return
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password is required"))
		return
	}
	if !util.IsValidEmail(util.NormalizeEmail(req.Email)) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Please enter a valid email address"))
		return
	}
	if len(req.Password) < util.MinPasswordLength {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password must be at least 8 characters long"))
		return
	}
	if err := util.ValidatePasswordPolicy(req.Password); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password must include uppercase, lowercase, and a number"))
		return
	}

	result, err := h.auth.TenantRegister(c.Request.Context(), institution,
		strings.TrimSpace(req.Name), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse(result))
}

// Refresh mints a new access token from the refresh cookie. Verification
// failure is 403; it never downgrades to a lesser form of trust.
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	refreshToken, err := c.Cookie(RefreshCookieName)
	if err != nil {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Unauthorized"))
		return
	}

	accessToken, err := h.auth.Refresh(c.Request.Context(), refreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": accessToken})
}

// Logout clears the refresh cookie; 204 when there was none.
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if _, err := c.Cookie(RefreshCookieName); err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	h.clearRefreshCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Cookie cleared"})
}

// RequestReset starts the password reset flow. The response is identical
// whether or not the email exists.
// @Router /auth/request-reset [post]
func (h *AuthHandler) RequestReset(c *gin.Context) {
	var req model.RequestResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Email is required"))
		return
	}

	if err := h.reset.Request(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": service.GenericResetMessage})
}

// ValidateReset is the read-only UI helper checking a reset link.
// @Router /auth/validate-reset [get]
func (h *AuthHandler) ValidateReset(c *gin.Context) {
	token := c.Query("token")
	id := c.Query("id")
	if token == "" || id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": "Missing token or id"})
		return
	}

	if err := h.reset.Validate(c.Request.Context(), id, token); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "message": userMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"valid": true})
}

// ResetPassword consumes a reset token and sets the new password.
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req model.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	if req.Token == "" || req.ID == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Invalid request"))
		return
	}

	if err := h.reset.Consume(c.Request.Context(), req.ID, req.Token, req.Password); err != nil {
		// Reset consumption failures surface as 400s regardless of kind so
		// the flow stays indistinguishable from other bad requests.
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(userMessage(err)))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Password reset successfully. Please login with your new password.",
	})
}

// ChangePassword updates the password of the authenticated user
// @Router /:code/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.NewErrorResponse("Not authorized"))
		return
	}

	var req model.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return
	}
	if req.CurrentPassword == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Current and new password are required"))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Password updated successfully"})
}

func (h *AuthHandler) bindLogin(c *gin.Context) (model.LoginRequest, bool) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse(err.Error()))
		return req, false
	}
	if strings.TrimSpace(req.Email) == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Email is required"))
		return req, false
	}
	if req.Password == "" {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Password is required"))
		return req, false
	}
	if !util.IsValidEmail(util.NormalizeEmail(req.Email)) {
		c.JSON(http.StatusBadRequest, model.NewErrorResponse("Please enter a valid email address"))
		return req, false
	}
	return req, true
}

func (h *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, token,
		int(h.cfg.JWT.RefreshTTL.Seconds()), "/", "", h.cfg.IsProduction(), true)
}

func (h *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", h.cfg.IsProduction(), true)
}

func authResponse(result *service.AuthResult) model.AuthResponse {
	return model.AuthResponse{
		Success:         true,
		Token:           result.AccessToken,
		Role:            result.User.Role,
		Name:            result.User.Name,
		Email:           result.User.Email,
		InstitutionCode: result.Institution.Code,
		Redirect:        result.Redirect,
	}
}
