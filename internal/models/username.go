package models

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minUsernameLength = 1
	maxUsernameLength = 39
)

// Alphanumeric with single hyphens between runs, never at the edges
var usernamePattern = regexp.MustCompile(`(?i)^[a-z0-9](?:-?[a-z0-9])*$`)

var reservedUsernames = map[string]bool{
	"api":     true,
	"www":     true,
	"admin":   true,
	"root":    true,
	"support": true,
}

// ValidateUsername checks whether a string is an acceptable GitHub username.
// Returns a descriptive error suitable for direct display to the caller.
func ValidateUsername(username string) error {
	trimmed := strings.TrimSpace(username)

	if len(trimmed) < minUsernameLength {
		return fmt.Errorf("username is required")
	}

	if len(trimmed) > maxUsernameLength {
		return fmt.Errorf("username is too long (max %d characters)", maxUsernameLength)
	}

	if !usernamePattern.MatchString(trimmed) {
		return fmt.Errorf("username can only contain alphanumeric characters and hyphens, cannot start or end with a hyphen")
	}

	if reservedUsernames[strings.ToLower(trimmed)] {
		return fmt.Errorf("this username is not allowed")
	}

	return nil
}
