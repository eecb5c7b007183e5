// Package services provides domain services that span more than one
// aggregate of the ordering domain.
//
// The package includes:
//   - SideEffectPlanner: enumerates the notifications and documents a
//     committed transition owes
//
// Services are stateless and hold no infrastructure; callers persist and
// execute what they return.
package services
