package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
)

type TempDeleter interface {
	DeleteTemp(ctx context.Context, id int64) error
}

func DeleteTempOrder(log *slog.Logger, d TempDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.DeleteTempOrder"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := d.DeleteTemp(ctx, id); err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "deleted"})
	}
}
