// Package errs provides the error taxonomy shared by the order lifecycle core.
//
// Every error type follows the same pattern: a sentinel variable usable with
// errors.Is, a struct carrying the details, constructors and an Unwrap method
// returning the sentinel. Adapters map the sentinels to transport codes:
//   - ObjectNotFoundError: unknown order, report or document id
//   - InvalidTransitionError: action not legal from the current status or role
//   - ValidationError: malformed payload, reported field by field
//   - ConflictError: a concurrent status change won the compare-and-swap
//   - AccessDeniedError: the actor is not a party of the object
//   - ValueIsRequired/ValueIsInvalid/ValueIsOutOfRange: value object guards
package errs
