package postgres

import (
	"orderflow/internal/adapters/out/postgres/discrepancyrepo"
	"orderflow/internal/adapters/out/postgres/documentrepo"
	"orderflow/internal/adapters/out/postgres/historyrepo"
	"orderflow/internal/adapters/out/postgres/orderrepo"
	"orderflow/internal/adapters/out/postgres/outboxrepo"

	"gorm.io/gorm"
)

func models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&historyrepo.EntryDTO{},
		&discrepancyrepo.ReportDTO{},
		&discrepancyrepo.ItemDTO{},
		&documentrepo.DocumentDTO{},
		&outboxrepo.EventDTO{},
	}
}

// Migrate creates or updates every table of the service.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models()...)
}

// Tables lists the table names created by Migrate.
func Tables() []string {
	return []string{
		"orders",
		"order_items",
		"order_history",
		"discrepancy_reports",
		"discrepancy_report_items",
		"generated_documents",
		"outbox_events",
	}
}
