package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/asaskevich/govalidator"
)

const (
	MaxEmailLength    = 255
	MaxNameLength     = 100
	MinPasswordLength = 8
	// bcrypt ignores everything after 72 bytes.
	MaxPasswordLength = 72
)

var usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.\-]{3,50}$`)

// IsValidEmail checks if the string is a valid email format
func IsValidEmail(email string) bool {
	if len(email) > MaxEmailLength {
		return false
	}
	return govalidator.IsEmail(email)
}

// IsValidUsername accepts 3-50 letters, digits, dots, dashes and underscores.
func IsValidUsername(username string) bool {
	return usernameRegex.MatchString(username)
}

// IsValidUUID checks if the string is a valid UUID format
func IsValidUUID(id string) bool {
	return govalidator.IsUUID(id)
}

// IsValidPassword checks password length limits.
func IsValidPassword(password string) (bool, string) {
	if len(password) < MinPasswordLength {
		return false, "Password must be at least 8 characters"
	}
	if len(password) > MaxPasswordLength {
		return false, "Password must be at most 72 bytes"
	}
	return true, ""
}

// SanitizeString removes potentially dangerous characters for display
func SanitizeString(s string) string {
	// Remove null bytes
	s = strings.ReplaceAll(s, "\x00", "")

	// Remove control characters except newlines and tabs
	var result strings.Builder
	for _, r := range s {
		if r == '\n' || r == '\r' || r == '\t' || !unicode.IsControl(r) {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}
