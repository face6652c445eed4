package schema

import (
	"strings"
	"time"
)

// Field names, in the order they are persisted.
const (
	FieldID        = "id"
	FieldName      = "name"
	FieldPhone     = "phone"
	FieldEmail     = "email"
	FieldIsDeleted = "isDeleted"
	FieldDeletedAt = "deletedAt"
)

// Columns is the persisted field order of a contact row.
var Columns = []string{FieldID, FieldName, FieldPhone, FieldEmail, FieldIsDeleted, FieldDeletedAt}

// Contact is a single directory entry.
//
// DeletedAt is the zero time whenever IsDeleted is false.
type Contact struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	IsDeleted bool      `json:"is_deleted"`
	DeletedAt time.Time `json:"deleted_at,omitempty"`
}

// ContactInput carries the user-supplied fields of a new contact.
type ContactInput struct {
	Name  string
	Phone string
	Email string
}

// Live reports whether the contact is not soft-deleted.
func (c Contact) Live() bool {
	return !c.IsDeleted
}

// DeletedFor returns how long the contact has been in the recycle bin at now.
// Zero for live contacts.
func (c Contact) DeletedFor(now time.Time) time.Duration {
	if !c.IsDeleted {
		return 0
	}
	return now.Sub(c.DeletedAt)
}

// NormalizeName trims surrounding spaces and collapses inner runs of spaces
// to one. Only ASCII spaces are touched; tabs and other whitespace are kept
// so validation rejects them. Case is preserved.
func NormalizeName(name string) string {
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool { return r == ' ' }), " ")
}
