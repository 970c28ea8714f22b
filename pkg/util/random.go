package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// InstitutionCodeBytes yields a 6-character hex institution code
	InstitutionCodeBytes = 3
	// ResetTokenBytes is the entropy of a password reset token
	ResetTokenBytes = 48
)

// GenerateInstitutionCode generates a short random institution code.
// Collisions are possible and must be handled by the caller.
func GenerateInstitutionCode() (string, error) {
	return randomHex(InstitutionCodeBytes)
}

// GenerateResetToken generates a high-entropy single-use reset token.
func GenerateResetToken() (string, error) {
	return randomHex(ResetTokenBytes)
}

// HashResetToken derives the storable hash of a reset token. The raw token
// exceeds bcrypt's 72-byte input limit, so it is digested with SHA-256 first
// and the digest is bcrypt-hashed. Only this hash is ever persisted.
func HashResetToken(token string) (string, error) {
	digest := sha256.Sum256([]byte(token))
	hash, err := bcrypt.GenerateFromPassword([]byte(hex.EncodeToString(digest[:])), BCryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash reset token: %w", err)
	}
	return string(hash), nil
}

// VerifyResetToken compares a presented reset token with its stored hash.
func VerifyResetToken(token, hash string) bool {
	digest := sha256.Sum256([]byte(token))
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(hex.EncodeToString(digest[:])))
	return err == nil
}

func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
