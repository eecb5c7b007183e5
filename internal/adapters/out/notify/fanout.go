// Package notify combines notification channels.
package notify

import (
	"context"
	"errors"
	"fmt"

	"orderflow/internal/core/domain/model/effect"
	"orderflow/internal/core/ports"
)

// Fanout delivers every effect to all channels. Every channel is tried even
// when an earlier one fails.
type Fanout struct {
	channels map[string]ports.Notifier
	order    []string
}

func NewFanout() *Fanout {
	return &Fanout{channels: make(map[string]ports.Notifier)}
}

// With adds a named channel. A nil notifier is skipped.
func (f *Fanout) With(name string, n ports.Notifier) *Fanout {
	if n == nil {
		return f
	}
	if _, ok := f.channels[name]; !ok {
		f.order = append(f.order, name)
	}
	f.channels[name] = n
	return f
}

func (f *Fanout) Notify(ctx context.Context, e effect.Effect) error {
	var problems []error
	for _, name := range f.order {
		if err := f.channels[name].Notify(ctx, e); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(problems...)
}
