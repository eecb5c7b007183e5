// Package effect models the follow-up work a committed transition owes:
// notifications to the parties and documents to render.
package effect

import (
	"encoding/json"
	"fmt"

	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"
)

type Kind string

const (
	KindNotify           Kind = "NOTIFY"
	KindGenerateDocument Kind = "GENERATE_DOCUMENT"
)

// Effect is one unit of follow-up work. Notify effects address a single
// audience; document effects name the kind to generate. AudienceID is the
// party id of the addressed supplier or customer and zero for admins.
type Effect struct {
	Kind        Kind          `json:"kind"`
	OrderID     int64         `json:"orderId"`
	OrderNumber string        `json:"orderNumber"`
	Action      order.Action  `json:"action"`
	Status      order.Status  `json:"status"`
	Actor       Actor         `json:"actor"`
	Audience    kernel.Role   `json:"audience,omitempty"`
	AudienceID  int64         `json:"audienceId,omitempty"`
	Document    document.Kind `json:"document,omitempty"`
	ReportID    int64         `json:"reportId,omitempty"`
	Message     string        `json:"message,omitempty"`
}

// Actor is the serialized form of the actor that caused the effect.
type Actor struct {
	Role kernel.Role `json:"role"`
	ID   int64       `json:"id"`
}

func (e Effect) Validate() error {
	switch e.Kind {
	case KindNotify:
		if err := e.Audience.Validate(); err != nil {
			return err
		}
	case KindGenerateDocument:
		if _, err := document.KindFromString(string(e.Document)); err != nil {
			return err
		}
	default:
		return errs.NewValueIsInvalidErrorWithCause("effect kind", fmt.Errorf("%q is unknown", string(e.Kind)))
	}
	if e.OrderID <= 0 {
		return errs.NewValueIsRequiredError("orderId")
	}
	return nil
}

// Encode returns the JSON payload stored in the outbox.
func (e Effect) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// Decode parses and validates a stored payload.
func Decode(b []byte) (Effect, error) {
	var e Effect
	if err := json.Unmarshal(b, &e); err != nil {
		return Effect{}, errs.NewValueIsInvalidErrorWithCause("effect payload", err)
	}
	if err := e.Validate(); err != nil {
		return Effect{}, err
	}
	return e, nil
}

// String is used in logs.
func (e Effect) String() string {
	if e.Kind == KindNotify {
		return fmt.Sprintf("%s(%s) order=%d", e.Kind, e.Audience, e.OrderID)
	}
	return fmt.Sprintf("%s(%s) order=%d", e.Kind, e.Document, e.OrderID)
}
