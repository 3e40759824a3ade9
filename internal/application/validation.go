package application

import (
	"regexp"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

const (
	passwordMinLen = 8
	passwordMaxLen = 16

	// bcrypt only accepts this many bytes
	passwordMaxBytes = 72
)

// ValidateEmailFormat checks the local@domain.tld shape; the tld needs two or more letters.
func ValidateEmailFormat(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrInvalidEmailFormat
	}
	return nil
}

// ValidatePassword requires 8 to 16 characters with at least one ASCII digit,
// one lowercase and one uppercase letter. Line terminators are not allowed.
func ValidatePassword(password string) error {
	if !utf8.ValidString(password) {
		return ErrInvalidPasswordFormat
	}
	n := utf8.RuneCountInString(password)
	if n < passwordMinLen || n > passwordMaxLen {
		return ErrInvalidPasswordFormat
	}
	var digit, lower, upper bool
	for _, r := range password {
		switch {
		case isLineTerminator(r):
			return ErrInvalidPasswordFormat
		case r >= '0' && r <= '9':
			digit = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		}
	}
	if !digit || !lower || !upper {
		return ErrInvalidPasswordFormat
	}
	return nil
}

func isLineTerminator(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
