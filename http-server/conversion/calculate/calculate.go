package calculate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/service/convert"
)

type BatchConverter interface {
	ConvertBatch(ctx context.Context, ids []int64) (convert.BatchResult, error)
	Preview(ctx context.Context, ids []int64) (convert.BatchResult, error)
}

type Request struct {
	OrderIDs []int64 `json:"order_ids"`
}

// ConvertOrders раскладывает выбранные заказы на операции и сохраняет их.
func ConvertOrders(log *slog.Logger, c BatchConverter) http.HandlerFunc {
	return handle(log, "handlers.conversion.ConvertOrders", c.ConvertBatch)
}

// PreviewOrders считает то же самое без записи.
func PreviewOrders(log *slog.Logger, c BatchConverter) http.HandlerFunc {
	return handle(log, "handlers.conversion.PreviewOrders", c.Preview)
}

func handle(log *slog.Logger, op string, run func(ctx context.Context, ids []int64) (convert.BatchResult, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if len(req.OrderIDs) == 0 {
			http.Error(w, "order_ids is empty", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		res, err := run(ctx, req.OrderIDs)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
