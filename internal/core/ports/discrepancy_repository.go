package ports

import (
	"context"

	"orderflow/internal/core/domain/model/discrepancy"
)

// DiscrepancyRepository stores immutable discrepancy reports.
type DiscrepancyRepository interface {
	// Add inserts the report and its items and assigns the report id.
	Add(ctx context.Context, report *discrepancy.Report) error

	Get(ctx context.Context, id int64) (*discrepancy.Report, error)

	// Position is the 1-based ordinal of report reportID among the reports
	// of orderID, in filing order.
	Position(ctx context.Context, orderID, reportID int64) (int64, error)
}
