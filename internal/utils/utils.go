package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IsValidEmail is deliberately permissive: a non-empty local part, an @, and
// a non-empty domain.
func IsValidEmail(email string) bool {
	at := strings.Index(email, "@")
	return at > 0 && at < len(email)-1
}

// IsValidUUID reports whether s parses as a UUID.
func IsValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
