package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/storage"
)

type TempUpdater interface {
	UpdateTemp(ctx context.Context, id int64, patch storage.OrderPatch) (storage.OrderRecord, error)
}

// UpdateTempOrder правит строку временной зоны и возвращает её после повторной проверки.
func UpdateTempOrder(log *slog.Logger, u TempUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.UpdateTempOrder"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var patch storage.OrderPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		o, err := u.UpdateTemp(ctx, id, patch)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, o)
	}
}
