package order

import (
	"strings"
	"time"

	"orderflow/internal/core/domain/model/kernel"
)

// NewNumber returns a fresh human readable order number, ORD-<yyyymmdd>-<8 hex>.
func NewNumber(now time.Time) string {
	return "ORD-" + now.UTC().Format("20060102") + "-" + strings.ToUpper(kernel.NewUUID().Short())
}
