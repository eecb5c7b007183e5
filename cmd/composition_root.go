package cmd

import (
	"log/slog"

	httpadapter "orderflow/internal/adapters/in/http"
	"orderflow/internal/adapters/out/postgres"
	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/jobs"

	"gorm.io/gorm"
)

// Adapters are the outbound dependencies built by main.
type Adapters struct {
	Renderer ports.DocumentRenderer
	Storage  ports.DocumentStorage
	Notifier ports.Notifier
	Observer commands.DispatchObserver
}

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	adapters   Adapters
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, adapters Adapters, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		adapters:   adapters,
		logger:     logger,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) uoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() *commands.CheckoutCommandHandler {
	h := commands.NewCheckoutCommandHandler(c.orderUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateReplaceItemsCommandHandler() *commands.ReplaceItemsCommandHandler {
	h := commands.NewReplaceItemsCommandHandler(c.orderUoWFactory())
	return &h
}

func (c *CompositionRoot) CreateApplyTransitionCommandHandler() *commands.ApplyTransitionCommandHandler {
	h := commands.NewApplyTransitionCommandHandler(c.uoWFactory(), services.NewSideEffectPlanner(), c.logger)
	return &h
}

func (c *CompositionRoot) CreateCreateDiscrepancyReportCommandHandler() *commands.CreateDiscrepancyReportCommandHandler {
	h := commands.NewCreateDiscrepancyReportCommandHandler(c.CreateApplyTransitionCommandHandler())
	return &h
}

func (c *CompositionRoot) CreateGenerateDocumentCommandHandler() *commands.GenerateDocumentCommandHandler {
	h := commands.NewGenerateDocumentCommandHandler(c.uoWFactory(), c.adapters.Renderer, c.adapters.Storage)
	return &h
}

func (c *CompositionRoot) CreateDispatchSideEffectsCommandHandler() *commands.DispatchSideEffectsCommandHandler {
	h := commands.NewDispatchSideEffectsCommandHandler(
		c.uoWFactory(),
		c.adapters.Notifier,
		c.CreateGenerateDocumentCommandHandler(),
		c.adapters.Observer,
		c.logger,
	)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDiscrepancyReportsQueryHandler() queries.ListDiscrepancyReportsQueryHandler {
	return queries.NewListDiscrepancyReportsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListDocumentsQueryHandler() queries.ListDocumentsQueryHandler {
	return queries.NewListDocumentsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateDocumentURLQueryHandler() queries.DocumentURLQueryHandler {
	return queries.NewDocumentURLQueryHandler(c.gormDB, c.adapters.Storage, c.configs.DocumentURLTTL)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(httpadapter.Handlers{
		Checkout:          c.CreateCheckoutCommandHandler(),
		Transition:        c.CreateApplyTransitionCommandHandler(),
		ReplaceItems:      c.CreateReplaceItemsCommandHandler(),
		DiscrepancyReport: c.CreateCreateDiscrepancyReportCommandHandler(),
		Document:          c.CreateGenerateDocumentCommandHandler(),
		Order:             c.CreateGetOrderQueryHandler(),
		Orders:            c.CreateListOrdersQueryHandler(),
		Reports:           c.CreateListDiscrepancyReportsQueryHandler(),
		Documents:         c.CreateListDocumentsQueryHandler(),
		History:           c.CreateGetOrderHistoryQueryHandler(),
		DocumentURL:       c.CreateDocumentURLQueryHandler(),
		Statuses:          queries.NewListStatusesQueryHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.CreateDispatchSideEffectsCommandHandler(), jobs.RelayConfig{
		BatchSize:   c.configs.RelayBatchSize,
		MaxAttempts: c.configs.RelayMaxAttempts,
	}, c.logger)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
