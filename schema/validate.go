package schema

import (
	"fmt"
	"strings"
)

// Length limits for contact fields.
const (
	MinNameLen  = 2
	MaxNameLen  = 49
	MinPhoneLen = 10
	MaxPhoneLen = 14
	MinEmailLen = 5
	MaxEmailLen = 49
)

// ValidationError reports the first field of an input that failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the fields in the order name, phone, email and returns the
// first failure. The name is validated in its normalized form.
func (in ContactInput) Validate() error {
	if err := ValidateName(NormalizeName(in.Name)); err != nil {
		return err
	}
	if err := ValidatePhone(in.Phone); err != nil {
		return err
	}
	return ValidateEmail(in.Email)
}

// ValidateName accepts 2-49 ASCII letters and spaces.
func ValidateName(name string) error {
	if len(name) < MinNameLen || len(name) > MaxNameLen {
		return &ValidationError{Field: FieldName, Reason: fmt.Sprintf("length must be %d-%d characters", MinNameLen, MaxNameLen)}
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !isLetter(c) && c != ' ' {
			return &ValidationError{Field: FieldName, Reason: "only letters and spaces are allowed"}
		}
	}
	return nil
}

// ValidatePhone accepts 10-14 characters of digits, '+' and '-'.
func ValidatePhone(phone string) error {
	if len(phone) < MinPhoneLen || len(phone) > MaxPhoneLen {
		return &ValidationError{Field: FieldPhone, Reason: fmt.Sprintf("length must be %d-%d characters", MinPhoneLen, MaxPhoneLen)}
	}
	for i := 0; i < len(phone); i++ {
		c := phone[i]
		if (c < '0' || c > '9') && c != '+' && c != '-' {
			return &ValidationError{Field: FieldPhone, Reason: "only digits, '+' and '-' are allowed"}
		}
	}
	return nil
}

// ValidateEmail requires an '@' strictly before the last '.', and at least
// one character after that '.'.
func ValidateEmail(email string) error {
	if len(email) < MinEmailLen || len(email) > MaxEmailLen {
		return &ValidationError{Field: FieldEmail, Reason: fmt.Sprintf("length must be %d-%d characters", MinEmailLen, MaxEmailLen)}
	}
	at := strings.IndexByte(email, '@')
	dot := strings.LastIndexByte(email, '.')
	if at < 0 || dot < 0 || dot < at || dot == len(email)-1 {
		return &ValidationError{Field: FieldEmail, Reason: "must look like user@domain.tld"}
	}
	return nil
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}
