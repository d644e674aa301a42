package auth

import (
	"regexp"
	"strings"

	"github.com/nerrad567/devicelink/internal/fault"
)

const minPasswordLength = 8

// emailRegex accepts the usual addr-spec shape: a dotted or quoted local
// part, then a bracketed IPv4 literal or a dotted domain ending in 2+ letters.
var emailRegex = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)

// passwordCharset is the alphabet passwords are drawn from. The "one letter
// and one digit" part is checked separately since RE2 has no lookahead.
var passwordCharset = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// required trims s and fails when nothing is left.
func required(field, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fault.Invalid(field, "is empty or blank")
	}
	return s, nil
}

// ValidateEmail checks the addr-spec shape of an already trimmed email.
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fault.Invalid("email", "is not a valid address")
	}
	return nil
}

// ValidatePassword checks the format of an already trimmed password.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength || !passwordCharset.MatchString(password) {
		return fault.Invalid("password", "must be at least 8 letters or digits")
	}
	if !strings.ContainsAny(password, "0123456789") ||
		strings.IndexFunc(password, isASCIILetter) < 0 {
		return fault.Invalid("password", "must contain at least one letter and one digit")
	}
	return nil
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
