package kernel

import (
	"fmt"

	"orderflow/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrUUIDIsNotConstructed is returned by Validate for the zero UUID, that is
// a UUID that bypassed NewUUID and UUIDFromString.
var ErrUUIDIsNotConstructed = errs.NewValueIsRequiredError("UUID must be created via NewUUID or UUIDFromString")

// UUID is the value object identifying generated documents and outbox
// events. Orders and discrepancy reports use database assigned numeric ids
// instead, and order numbers borrow the first eight hex digits of a UUID.
//
// UUID wraps github.com/google/uuid so that the domain never handles the nil
// identifier: the zero value is invalid and fails Validate. Values are
// immutable and safe for concurrent use.
//
// Example usage:
//
//	// Identify a document about to be stored
//	docID := kernel.NewUUID()
//
//	// Rebuild an identifier read from a row or a URL
//	id, err := kernel.UUIDFromString(c.Param("id"))
//	if err != nil {
//	    return err
//	}
//
//	// Compare identifiers
//	if docID.IsEqual(id) {
//	    // same document
//	}
type UUID struct {
	id uuid.UUID
}

// NewUUID returns a random version 4 identifier. It is the way to create
// identifiers for new documents and events.
//
// Example:
//
//	eventID := kernel.NewUUID()
//	fmt.Println(eventID.String()) // e.g. "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
func NewUUID() UUID {
	return UUID{id: uuid.New()}
}

// UUIDFromString parses an identifier received from storage or a client.
// It accepts the forms google/uuid accepts:
//   - "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
//   - "{9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d}"
//   - "urn:uuid:9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"
//   - "9b1deb4d3b7d4bad9bdd2b0d7b3dcb6d"
//
// Malformed input and the nil UUID are rejected.
//
// Example:
//
//	id, err := kernel.UUIDFromString("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d")
//	if err != nil {
//	    return fmt.Errorf("invalid document id: %w", err)
//	}
func UUIDFromString(s string) (UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return UUID{}, fmt.Errorf("invalid UUID format: %w", err)
	}
	parsed := UUID{id: id}
	if err = parsed.Validate(); err != nil {
		return UUID{}, err
	}
	return parsed, nil
}

// MustUUIDFromString is UUIDFromString for trusted input such as rows
// written by this service. It panics on malformed input.
//
// Example:
//
//	doc.ID = kernel.MustUUIDFromString(dto.ID)
func MustUUIDFromString(s string) UUID {
	id, err := UUIDFromString(s)
	if err != nil {
		panic(err)
	}
	return id
}

// String returns the canonical lowercase hyphenated form, which is also the
// stored and wire form.
//
// Example:
//
//	key := "documents/" + doc.ID.String()
func (u UUID) String() string {
	return u.id.String()
}

// Bytes returns the wrapped google/uuid value for storage adapters.
func (u UUID) Bytes() uuid.UUID {
	return u.id
}

// Short returns the first eight hex digits.
//
// Example:
//
//	fmt.Sprintf("ORD-%s-%s", day, strings.ToUpper(kernel.NewUUID().Short())) // "ORD-20251016-0A1B2C3D"
func (u UUID) Short() string {
	return u.id.String()[:8]
}

// IsEqual reports whether both identifiers hold the same value.
//
// Example:
//
//	if !stored.ID.IsEqual(requested) {
//	    return errs.NewObjectNotFoundError("documentId", requested)
//	}
func (u UUID) IsEqual(other UUID) bool {
	return u.id == other.id
}

// Validate returns ErrUUIDIsNotConstructed for the zero value.
//
// Example:
//
//	var id kernel.UUID
//	err := id.Validate() // ErrUUIDIsNotConstructed
func (u UUID) Validate() error {
	if u.id == uuid.Nil {
		return ErrUUIDIsNotConstructed
	}
	return nil
}
