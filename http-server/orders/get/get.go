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

type TempLister interface {
	ListTemp(ctx context.Context) ([]storage.OrderRecord, error)
}

func GetTempOrders(log *slog.Logger, l TempLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.GetTempOrders"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := l.ListTemp(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, orders)
	}
}
