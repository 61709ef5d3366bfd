package delete

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/storage"
)

type OperationDeleter interface {
	Delete(ctx context.Context, id int64) ([]storage.ConvertedOperation, error)
}

// DeleteOperation удаляет операцию, номера остальных не меняются.
func DeleteOperation(log *slog.Logger, d OperationDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operations.DeleteOperation"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ops, err := d.Delete(ctx, id)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, ops)
	}
}
