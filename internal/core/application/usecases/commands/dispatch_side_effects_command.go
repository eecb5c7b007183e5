package commands

import (
	"errors"
	"math"

	"orderflow/internal/pkg/errs"
	"orderflow/internal/pkg/guard"
)

var ErrDispatchSideEffectsCommandIsNotConstructed = errors.New(
	"DispatchSideEffectsCommand must be created via NewDispatchSideEffectsCommand constructor",
)

// DispatchSideEffectsCommand relays one batch of outbox events.
type DispatchSideEffectsCommand struct { //nolint:recvcheck //using for validation
	batchSize   int
	maxAttempts int

	guard guard.ConstructorGuard
}

func NewDispatchSideEffectsCommand(batchSize, maxAttempts int) (DispatchSideEffectsCommand, error) {
	if batchSize <= 0 {
		return DispatchSideEffectsCommand{}, errs.NewValueIsOutOfRangeError("batchSize", batchSize, 1, math.MaxInt)
	}
	if maxAttempts <= 0 {
		return DispatchSideEffectsCommand{}, errs.NewValueIsOutOfRangeError("maxAttempts", maxAttempts, 1, math.MaxInt)
	}
	return DispatchSideEffectsCommand{
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchSideEffectsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchSideEffectsCommandIsNotConstructed)
}

func (c DispatchSideEffectsCommand) BatchSize() int { return c.batchSize }

func (c DispatchSideEffectsCommand) MaxAttempts() int { return c.maxAttempts }
