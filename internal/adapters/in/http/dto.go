package http

import (
	"fmt"
	"strings"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

type CheckoutItem struct {
	ProductID    int64           `json:"productId"`
	SupplierID   int64           `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	ProductName  string          `json:"productName"`
	ProductSKU   string          `json:"productSku"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	VATRate      decimal.Decimal `json:"vatRate"`
}

type CheckoutRequest struct {
	CustomerName        string         `json:"customerName"`
	DeliveryAddress     string         `json:"deliveryAddress"`
	DesiredDeliveryDate string         `json:"desiredDeliveryDate"`
	Notes               string         `json:"notes"`
	Items               []CheckoutItem `json:"items"`
}

func (r CheckoutRequest) lines() []commands.CheckoutLine {
	lines := make([]commands.CheckoutLine, len(r.Items))
	for i, it := range r.Items {
		lines[i] = commands.CheckoutLine{
			ProductID:    it.ProductID,
			SupplierID:   it.SupplierID,
			SupplierName: it.SupplierName,
			ProductName:  it.ProductName,
			ProductSKU:   it.ProductSKU,
			Quantity:     it.Quantity,
			UnitPrice:    it.UnitPrice,
			VATRate:      it.VATRate,
		}
	}
	return lines
}

type OrderItemRequest struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName"`
	ProductSKU  string          `json:"productSku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	VATRate     decimal.Decimal `json:"vatRate"`
}

type ReplaceItemsRequest struct {
	Items []OrderItemRequest `json:"items"`
}

func (r ReplaceItemsRequest) inputs() []commands.ItemInput {
	inputs := make([]commands.ItemInput, len(r.Items))
	for i, it := range r.Items {
		inputs[i] = commands.ItemInput{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			ProductSKU:  it.ProductSKU,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     it.VATRate,
		}
	}
	return inputs
}

type DiscrepancyItem struct {
	OrderItemID    int64  `json:"orderItemId"`
	ActualQuantity int64  `json:"actualQuantity"`
	Reason         string `json:"reason"`
}

func discrepancyLines(items []DiscrepancyItem) []order.DiscrepancyLine {
	lines := make([]order.DiscrepancyLine, len(items))
	for i, it := range items {
		lines[i] = order.DiscrepancyLine{OrderItemID: it.OrderItemID, ActualQuantity: it.ActualQuantity, Reason: it.Reason}
	}
	return lines
}

// TransitionRequest is the optional body of a transition. Each action reads
// only the fields it needs.
type TransitionRequest struct {
	Reason             string            `json:"reason"`
	DocumentReference  string            `json:"documentReference"`
	PaymentReference   string            `json:"paymentReference"`
	Notes              string            `json:"notes"`
	GenerateWaybill    bool              `json:"generateWaybill"`
	ActualDeliveryDate string            `json:"actualDeliveryDate"`
	Items              []DiscrepancyItem `json:"items"`
}

func (r TransitionRequest) payload() (order.Payload, error) {
	p := order.Payload{
		Reason:            r.Reason,
		DocumentReference: r.DocumentReference,
		PaymentReference:  r.PaymentReference,
		Notes:             r.Notes,
		GenerateWaybill:   r.GenerateWaybill,
		DiscrepancyLines:  discrepancyLines(r.Items),
	}
	if strings.TrimSpace(r.ActualDeliveryDate) != "" {
		d, err := parseDate("actualDeliveryDate", r.ActualDeliveryDate)
		if err != nil {
			return order.Payload{}, err
		}
		p.ActualDeliveryDate = &d
	}
	return p, nil
}

type DiscrepancyReportRequest struct {
	Notes string            `json:"notes"`
	Items []DiscrepancyItem `json:"items"`
}

type DocumentRequest struct {
	Kind     string `json:"kind"`
	ReportID int64  `json:"reportId"`
}

// parseDate accepts calendar dates and RFC 3339 timestamps.
func parseDate(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errs.NewValidationError(field, "is required")
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d.UTC(), nil
	}
	return time.Time{}, errs.NewValidationError(field, fmt.Sprintf("%q is not a date (YYYY-MM-DD)", s))
}
