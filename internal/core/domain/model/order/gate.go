package order

import (
	"slices"

	"orderflow/internal/core/domain/model/kernel"
)

// AvailableActions returns the actions actor may request on o, in table
// order. It is empty for terminal statuses and for actors that are not a
// party of the order.
func AvailableActions(o *Order, actor kernel.Actor) []Action {
	if o == nil || o.status.IsTerminal() {
		return nil
	}
	role, ok := o.PartyRole(actor)
	if !ok {
		return nil
	}
	var out []Action
	for _, r := range transitions {
		if r.Allows(role, o.status) {
			out = append(out, r.Action)
		}
	}
	return out
}

// Can reports whether actor may request action on o.
func Can(o *Order, actor kernel.Actor, action Action) bool {
	return slices.Contains(AvailableActions(o, actor), action)
}
