package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/discrepancy"
	"orderflow/internal/core/domain/model/document"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	CheckoutHandler interface {
		Handle(ctx context.Context, cmd commands.CheckoutCommand) ([]*order.Order, error)
	}
	TransitionHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyTransitionCommand) (commands.TransitionResult, error)
	}
	ReplaceItemsHandler interface {
		Handle(ctx context.Context, cmd commands.ReplaceItemsCommand) (*order.Order, error)
	}
	DiscrepancyReportHandler interface {
		Handle(ctx context.Context, cmd commands.CreateDiscrepancyReportCommand) (*discrepancy.Report, error)
	}
	DocumentHandler interface {
		Handle(ctx context.Context, cmd commands.GenerateDocumentCommand) (*document.Document, error)
	}
	OrderQueryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderDetail, error)
	}
	OrderListHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.Page[queries.OrderSummary], error)
	}
	ReportListHandler interface {
		Handle(ctx context.Context, query queries.ListDiscrepancyReportsQuery) ([]queries.DiscrepancyReportView, error)
	}
	DocumentListHandler interface {
		Handle(ctx context.Context, query queries.ListDocumentsQuery) ([]queries.DocumentView, error)
	}
	HistoryHandler interface {
		Handle(ctx context.Context, query queries.GetOrderHistoryQuery) ([]queries.HistoryEntry, error)
	}
	DocumentURLHandler interface {
		Handle(ctx context.Context, query queries.DocumentURLQuery) (queries.DocumentURL, error)
	}
)

// Handlers are the use cases the server exposes.
type Handlers struct {
	Checkout          CheckoutHandler
	Transition        TransitionHandler
	ReplaceItems      ReplaceItemsHandler
	DiscrepancyReport DiscrepancyReportHandler
	Document          DocumentHandler

	Order       OrderQueryHandler
	Orders      OrderListHandler
	Reports     ReportListHandler
	Documents   DocumentListHandler
	History     HistoryHandler
	DocumentURL DocumentURLHandler
	Statuses    queries.ListStatusesQueryHandler
}

// Server translates HTTP requests into commands and queries. Every route
// requires an authenticated actor; mutating responses are re-read through
// the queries so clients always get the same view they list.
type Server struct {
	h Handlers
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts the API on g. Authentication and idempotency middleware
// are expected on g already.
func (s *Server) Register(g *echo.Group) {
	g.GET("/statuses", s.ListStatuses)

	g.POST("/checkout", s.Checkout, RequireRole(kernel.RoleCustomer))

	g.GET("/orders", s.ListOrders)
	g.GET("/orders/by-number/:number", s.GetOrderByNumber)
	g.GET("/orders/:id", s.GetOrder)
	g.GET("/orders/:id/actions", s.GetAvailableActions)
	g.POST("/orders/:id/transitions/:action", s.ApplyTransition)
	g.PUT("/orders/:id/items", s.ReplaceItems, RequireRole(kernel.RoleCustomer))
	g.GET("/orders/:id/history", s.GetHistory)

	g.GET("/orders/:id/discrepancy-reports", s.ListDiscrepancyReports)
	g.POST("/orders/:id/discrepancy-reports", s.CreateDiscrepancyReport, RequireRole(kernel.RoleCustomer))

	g.GET("/orders/:id/documents", s.ListDocuments)
	g.POST("/orders/:id/documents", s.GenerateDocument)
	g.GET("/documents/:id/url", s.GetDocumentURL)
}

// ListStatuses handles GET /api/v1/statuses.
func (s *Server) ListStatuses(c echo.Context) error {
	return c.JSON(http.StatusOK, s.h.Statuses.Handle())
}

// Checkout handles POST /api/v1/checkout - one order per supplier in the cart.
func (s *Server) Checkout(c echo.Context) error {
	var req CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	var desired time.Time
	if strings.TrimSpace(req.DesiredDeliveryDate) != "" {
		d, err := parseDate("desiredDeliveryDate", req.DesiredDeliveryDate)
		if err != nil {
			return err
		}
		desired = d
	}

	actor := actorFrom(c)
	cmd, err := commands.NewCheckoutCommand(actor, req.CustomerName, req.lines(), req.DeliveryAddress, desired, req.Notes)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	created, err := s.h.Checkout.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	response := make([]queries.OrderDetail, 0, len(created))
	for _, o := range created {
		detail, err := s.orderDetail(ctx, actor, o.ID())
		if err != nil {
			return err
		}
		response = append(response, detail)
	}
	return c.JSON(http.StatusCreated, response)
}

// ListOrders handles GET /api/v1/orders?status=&page=&size=.
func (s *Server) ListOrders(c echo.Context) error {
	status := order.Unknown
	if code := c.QueryParam("status"); code != "" {
		parsed, err := order.StatusFromString(strings.ToUpper(code))
		if err != nil {
			return errs.NewValidationError("status", "is not a known status")
		}
		status = parsed
	}
	page, err := intQuery(c, "page", 1)
	if err != nil {
		return err
	}
	size, err := intQuery(c, "size", 0)
	if err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(actorFrom(c), status, page, size)
	if err != nil {
		return err
	}
	result, err := s.h.Orders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	detail, err := s.orderDetail(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// GetOrderByNumber handles GET /api/v1/orders/by-number/:number.
func (s *Server) GetOrderByNumber(c echo.Context) error {
	query, err := queries.NewGetOrderByNumberQuery(actorFrom(c), c.Param("number"))
	if err != nil {
		return err
	}
	detail, err := s.h.Order.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// GetAvailableActions handles GET /api/v1/orders/:id/actions.
func (s *Server) GetAvailableActions(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	detail, err := s.orderDetail(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":  detail.Status,
		"actions": detail.AvailableActions,
	})
}

// ApplyTransition handles POST /api/v1/orders/:id/transitions/:action.
func (s *Server) ApplyTransition(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	var req TransitionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return invalidBody()
		}
	}
	payload, err := req.payload()
	if err != nil {
		return err
	}

	actor := actorFrom(c)
	cmd, err := commands.NewApplyTransitionCommand(actor, id, order.Action(c.Param("action")), payload)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := s.h.Transition.Handle(ctx, cmd); err != nil {
		return err
	}

	detail, err := s.orderDetail(ctx, actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// ReplaceItems handles PUT /api/v1/orders/:id/items.
func (s *Server) ReplaceItems(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	var req ReplaceItemsRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	actor := actorFrom(c)
	cmd, err := commands.NewReplaceItemsCommand(actor, id, req.inputs())
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if _, err := s.h.ReplaceItems.Handle(ctx, cmd); err != nil {
		return err
	}

	detail, err := s.orderDetail(ctx, actor, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}

// GetHistory handles GET /api/v1/orders/:id/history.
func (s *Server) GetHistory(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderHistoryQuery(actorFrom(c), id)
	if err != nil {
		return err
	}
	entries, err := s.h.History.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entries)
}

// ListDiscrepancyReports handles GET /api/v1/orders/:id/discrepancy-reports.
func (s *Server) ListDiscrepancyReports(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	reports, err := s.reports(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reports)
}

// CreateDiscrepancyReport handles POST /api/v1/orders/:id/discrepancy-reports.
func (s *Server) CreateDiscrepancyReport(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	var req DiscrepancyReportRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	actor := actorFrom(c)
	cmd, err := commands.NewCreateDiscrepancyReportCommand(actor, id, discrepancyLines(req.Items), req.Notes)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	report, err := s.h.DiscrepancyReport.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	reports, err := s.reports(ctx, actor, id)
	if err != nil {
		return err
	}
	for _, r := range reports {
		if r.ID == report.ID() {
			return c.JSON(http.StatusCreated, r)
		}
	}
	return errs.NewObjectNotFoundError("reportId", report.ID())
}

// ListDocuments handles GET /api/v1/orders/:id/documents.
func (s *Server) ListDocuments(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	docs, err := s.documents(c.Request().Context(), actorFrom(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, docs)
}

// GenerateDocument handles POST /api/v1/orders/:id/documents. Generating a
// document that already exists returns the stored one.
func (s *Server) GenerateDocument(c echo.Context) error {
	id, err := orderID(c)
	if err != nil {
		return err
	}
	var req DocumentRequest
	if err := c.Bind(&req); err != nil {
		return invalidBody()
	}

	actor := actorFrom(c)
	cmd, err := commands.NewGenerateDocumentCommand(actor, document.Kind(strings.ToUpper(req.Kind)), id, req.ReportID)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	doc, err := s.h.Document.Handle(ctx, cmd)
	if err != nil {
		return err
	}

	docs, err := s.documents(ctx, actor, id)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.ID == doc.ID.String() {
			return c.JSON(http.StatusCreated, d)
		}
	}
	return errs.NewObjectNotFoundError("documentId", doc.ID.String())
}

// GetDocumentURL handles GET /api/v1/documents/:id/url.
func (s *Server) GetDocumentURL(c echo.Context) error {
	query, err := queries.NewDocumentURLQuery(actorFrom(c), c.Param("id"))
	if err != nil {
		return err
	}
	link, err := s.h.DocumentURL.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, link)
}

func (s *Server) orderDetail(ctx context.Context, actor kernel.Actor, id int64) (queries.OrderDetail, error) {
	query, err := queries.NewGetOrderQuery(actor, id)
	if err != nil {
		return queries.OrderDetail{}, err
	}
	return s.h.Order.Handle(ctx, query)
}

func (s *Server) reports(ctx context.Context, actor kernel.Actor, id int64) ([]queries.DiscrepancyReportView, error) {
	query, err := queries.NewListDiscrepancyReportsQuery(actor, id)
	if err != nil {
		return nil, err
	}
	return s.h.Reports.Handle(ctx, query)
}

func (s *Server) documents(ctx context.Context, actor kernel.Actor, id int64) ([]queries.DocumentView, error) {
	query, err := queries.NewListDocumentsQuery(actor, id)
	if err != nil {
		return nil, err
	}
	return s.h.Documents.Handle(ctx, query)
}

func orderID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errs.NewValidationError("orderId", "must be a positive integer")
	}
	return id, nil
}

func intQuery(c echo.Context, name string, fallback int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewValidationError(name, "must be an integer")
	}
	return v, nil
}

func invalidBody() error {
	return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
}
