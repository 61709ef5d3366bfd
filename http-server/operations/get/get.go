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

type OperationLister interface {
	List(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error)
}

// GetOrderOperations - операции заказа по порядку sequence.
func GetOrderOperations(log *slog.Logger, l OperationLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operations.GetOrderOperations"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ops, err := l.List(ctx, id)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, ops)
	}
}
