package service

import (
	"fmt"
	"time"

	"campushub/internal/config"
	"campushub/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims bind a token to a (user, institution, role, tokenVersion)
// tuple. A tokenVersion mismatch at verification time means the session was
// invalidated by a password change elsewhere.
type AccessClaims struct {
	UserID        string `json:"userId"`
	InstitutionID string `json:"institutionId"`
	Role          string `json:"role"`
	TokenVersion  int    `json:"tokenVersion"`
	jwt.RegisteredClaims
}

// RefreshClaims carry minimal identity. Institution and role are re-resolved
// fresh on each refresh so role changes take effect on the next refresh
// instead of persisting inside a long-lived token.
type RefreshClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// TokenService mints and verifies the two token kinds. Secrets and TTLs are
// injected at construction, never read from process-wide state.
type TokenService struct {
	cfg config.JWTConfig
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	return &TokenService{cfg: cfg}
}

// IssueAccess mints a short-lived access token for the user.
func (s *TokenService) IssueAccess(user *model.User, institution *model.Institution) (string, error) {
	claims := AccessClaims{
		UserID:        user.ID.Hex(),
		InstitutionID: institution.ID.Hex(),
		Role:          user.Role,
		TokenVersion:  user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.AccessTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// IssueRefresh mints a long-lived refresh token carrying only the user id.
func (s *TokenService) IssueRefresh(user *model.User) (string, error) {
	claims := RefreshClaims{
		UserID: user.ID.Hex(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.cfg.RefreshTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.RefreshSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return signed, nil
}

// ParseAccess verifies signature and expiry of an access token.
func (s *TokenService) ParseAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := s.parse(tokenStr, claims, []byte(s.cfg.Secret)); err != nil {
		return nil, err
	}
	return claims, nil
}

// ParseRefresh verifies signature and expiry of a refresh token.
func (s *TokenService) ParseRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := s.parse(tokenStr, claims, []byte(s.cfg.RefreshSecret)); err != nil {
		return nil, err
	}
	return claims, nil
}

func (s *TokenService) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims,
		func(t *jwt.Token) (interface{}, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.cfg.Issuer),
	)
	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid token")
	}
	return nil
}
