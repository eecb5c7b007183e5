// Package kernel holds the value objects shared by every aggregate of the
// ordering domain.
//
// The package includes:
//   - UUID: identifier for documents and outbox events
//   - Money: exact two-place decimal amount backed by shopspring/decimal
//   - Actor: the authenticated caller, a role plus the party or user it acts for
//
// All values are immutable and safe for concurrent use. Zero values are
// invalid where noted and must be obtained through the constructors.
package kernel
