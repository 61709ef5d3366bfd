package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/service/intake"
	"printshop/internal/storage"
)

type OrderImporter interface {
	Import(ctx context.Context, raws []storage.RawOrder) (intake.ImportResult, error)
}

type TempCommitter interface {
	Commit(ctx context.Context) (intake.CommitResult, error)
}

type ImportRequest struct {
	Orders []storage.RawOrder `json:"orders"`
}

// ImportOrders кладёт загруженные строки во временную зону.
func ImportOrders(log *slog.Logger, imp OrderImporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.ImportOrders"

		var req ImportRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.Orders) == 0 {
			http.Error(w, "no orders in request", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		res, err := imp.Import(ctx, req.Orders)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}

// CommitOrders переносит временную зону в daily_orders.
func CommitOrders(log *slog.Logger, c TempCommitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.CommitOrders"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		res, err := c.Commit(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
