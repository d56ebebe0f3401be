package api

import (
	"fmt"
	"regexp"
	"strings"
)

const maxEmailLocalPart = 64

// emailRegex matches dotted local parts and a domain whose last label has at
// least two letters. The local-part length is checked separately.
var emailRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+(\.[A-Za-z0-9_-]+)*@[^-][A-Za-z0-9-]+(\.[A-Za-z0-9-]+)*(\.[A-Za-z]{2,})$`)

func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("%w: email cannot be empty", ErrInvalidInput)
	}

	at := strings.IndexByte(email, '@')
	if at < 1 || at > maxEmailLocalPart {
		return fmt.Errorf("%w: invalid email format: %s", ErrInvalidInput, email)
	}

	if !emailRegex.MatchString(email) {
		return fmt.Errorf("%w: invalid email format: %s", ErrInvalidInput, email)
	}
	return nil
}

func validateName(field, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidInput, field)
	}
	if len(name) > 100 {
		return fmt.Errorf("%w: %s too long (max 100 characters)", ErrInvalidInput, field)
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: password must be at least 8 characters", ErrInvalidInput)
	}
	// bcrypt ignores input beyond 72 bytes
	if len(password) > 72 {
		return fmt.Errorf("%w: password too long (max 72 bytes)", ErrInvalidInput)
	}
	return nil
}
