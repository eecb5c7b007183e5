// Package order implements the Order aggregate of the B2B ordering platform
// and the rules that move it through its lifecycle.
//
// The package includes:
//   - Order and Item: the aggregate root and its price snapshotted lines
//   - Status: the closed status set with the label and tone lookup shared by all portals
//   - Action and Rule: the transition table, the only place legal moves are defined
//   - AvailableActions: the role scoped action gate derived from the table
//
// Key business rules:
//   - an order is created in PENDING_CONFIRMATION and never deleted
//   - monetary totals are derived from the items and never edited directly
//   - a transition is legal only for the listed roles and source statuses
//   - suppliers and customers act only on orders they are a party of
//   - REJECTED, CLOSED and CANCELLED are terminal
package order
