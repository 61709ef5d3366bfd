package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/storage"
)

type QueueProvider interface {
	ErrorQueue(ctx context.Context) ([]storage.OrderRecord, error)
	ConversionQueue(ctx context.Context) ([]storage.OrderRecord, error)
}

// GetErrorQueue - заказы со статусом Error в daily_orders.
func GetErrorQueue(log *slog.Logger, q QueueProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pending.GetErrorQueue"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := q.ErrorQueue(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, orders)
	}
}

// GetConversionQueue - заказы, отправленные на исправление при конвертации.
func GetConversionQueue(log *slog.Logger, q QueueProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.pending.GetConversionQueue"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := q.ConversionQueue(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, orders)
	}
}
