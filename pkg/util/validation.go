package util

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	// MaxNameLength is the maximum length of a display name
	MaxNameLength = 100
	// MaxEmailLength is the maximum length of an email address
	MaxEmailLength = 254
)

// NormalizeEmail lowercases and trims an email address. All email lookups
// and persistence go through this so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValidEmail reports whether the address matches the platform email format.
func IsValidEmail(email string) bool {
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	return emailRegex.MatchString(email)
}

// EmailDomain returns the lowercase domain part of an email address, or ""
// if the address has no @.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}
