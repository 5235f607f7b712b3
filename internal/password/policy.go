// Package password holds the password strength policy and the bcrypt
// hashing used for stored credentials.
package password

import (
	"fmt"
	"strings"

	"github.com/Jonatndm/API-Authenticate/internal/model"
)

const (
	DefaultMinLength = 8

	// SpecialCharacters is the set a password must draw at least one character from.
	SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

	bannedWord = "password"
)

type Policy struct {
	MinLength int
}

func NewPolicy(minLength int) Policy {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	return Policy{MinLength: minLength}
}

// Validate checks every rule independently and reports all violations in a
// fixed order.
func (p Policy) Validate(password string) model.PasswordValidation {
	minLength := p.MinLength
	if minLength <= 0 {
		minLength = DefaultMinLength
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	length := 0
	for _, r := range password {
		length++
		// Letter and digit classes are ASCII only.
		switch {
		case 'A' <= r && r <= 'Z':
			hasUpper = true
		case 'a' <= r && r <= 'z':
			hasLower = true
		case '0' <= r && r <= '9':
			hasDigit = true
		}
		if strings.ContainsRune(SpecialCharacters, r) {
			hasSpecial = true
		}
	}

	errs := make([]string, 0, 6)
	if length < minLength {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters long", minLength))
	}
	if !hasUpper {
		errs = append(errs, "password must include at least one uppercase letter")
	}
	if !hasLower {
		errs = append(errs, "password must include at least one lowercase letter")
	}
	if !hasDigit {
		errs = append(errs, "password must include at least one number")
	}
	if !hasSpecial {
		errs = append(errs, "password must include at least one special character")
	}
	if strings.Contains(strings.ToLower(password), bannedWord) {
		errs = append(errs, `password must not contain the word "password"`)
	}

	return model.PasswordValidation{IsValid: len(errs) == 0, Errors: errs}
}
