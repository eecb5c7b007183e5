package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"orderflow/internal/core/ports"

	"github.com/labstack/echo/v4"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderReplayed       = "Idempotent-Replayed"
	maxIdempotencyKeyLen = 128
)

// Idempotency replays the first response of a request that repeats its
// Idempotency-Key. Keys are scoped to the actor and the route, and responses
// with a 5xx status are not remembered. Safe methods and requests without
// the header pass through.
func Idempotency(store ports.IdempotencyStore, logger *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := c.Request().Header.Get(HeaderIdempotencyKey)
			if raw == "" || isSafe(c.Request().Method) {
				return next(c)
			}
			if len(raw) > maxIdempotencyKeyLen {
				return echo.NewHTTPError(http.StatusBadRequest, "Idempotency-Key is too long")
			}

			ctx := c.Request().Context()
			key := fmt.Sprintf("%s:%s:%s:%s", actorFrom(c), c.Request().Method, c.Request().URL.Path, raw)
			stored, err := store.Begin(ctx, key)
			if err != nil {
				return err
			}
			if stored != nil {
				c.Response().Header().Set(HeaderReplayed, "true")
				return c.Blob(stored.Status, stored.ContentType, stored.Body)
			}

			rec := &recorder{ResponseWriter: c.Response().Writer}
			c.Response().Writer = rec
			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			if status >= http.StatusInternalServerError {
				if err := store.Abort(ctx, key); err != nil {
					logger.WarnContext(ctx, "Releasing idempotency key failed", "error", err)
				}
				return nil
			}
			resp := ports.StoredResponse{
				Status:      status,
				ContentType: c.Response().Header().Get(echo.HeaderContentType),
				Body:        rec.body.Bytes(),
			}
			if err := store.Complete(ctx, key, resp); err != nil {
				logger.WarnContext(ctx, "Storing idempotent response failed", "error", err)
			}
			return nil
		}
	}
}

type recorder struct {
	http.ResponseWriter
	body bytes.Buffer
}

func (r *recorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func isSafe(method string) bool {
	return method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions
}
