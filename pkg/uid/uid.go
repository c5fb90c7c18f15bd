// Package uid generates and validates the string identifiers used for
// inventory items, pull sheets and their line items.
package uid

import "github.com/google/uuid"

// New returns a fresh identifier. Both database backends store these as
// opaque text.
func New() string {
	return uuid.New().String()
}

// IsValid reports whether id parses as a UUID.
func IsValid(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
