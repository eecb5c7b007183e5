package order_test

import (
	"encoding/json"
	"testing"

	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_RoundTripThroughCode(t *testing.T) {
	for _, s := range order.Statuses() {
		t.Run(s.String(), func(t *testing.T) {
			parsed, err := order.StatusFromString(s.String())

			require.NoError(t, err)
			assert.Equal(t, s, parsed)
			assert.NotEmpty(t, s.Label())
			assert.NotEmpty(t, s.Tone())
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	terminal := map[order.Status]bool{order.Rejected: true, order.Closed: true, order.Cancelled: true}

	for _, s := range order.Statuses() {
		assert.Equal(t, terminal[s], s.IsTerminal(), s.String())
	}
}

func TestStatus_Invalid(t *testing.T) {
	_, err := order.StatusFromString("IN_TRANSIT")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
	assert.Equal(t, "UNKNOWN", order.Status(42).String())
}

func TestStatus_JSON(t *testing.T) {
	b, err := json.Marshal(map[string]order.Status{"status": order.PendingPaymentVerification})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"PENDING_PAYMENT_VERIFICATION"}`, string(b))

	var decoded struct {
		Status order.Status `json:"status"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"status":"PAID"}`), &decoded))
	assert.Equal(t, order.Paid, decoded.Status)

	require.Error(t, json.Unmarshal([]byte(`{"status":"paid"}`), &decoded))
}

func TestStatus_Presentation(t *testing.T) {
	p := order.Shipped.Presentation()

	assert.Equal(t, order.Presentation{Code: "SHIPPED", Label: "В пути", Tone: order.ToneCyan}, p)
}
