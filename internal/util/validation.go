package util

import (
	"regexp"
)

// Scratch usernames: 3-20 characters from letters, digits, underscore, hyphen.
var usernameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{3,20}$`)

func IsValidUsername(s string) bool {
	return usernameRegex.MatchString(s)
}
