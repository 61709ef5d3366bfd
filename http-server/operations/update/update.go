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

type SequenceRepairer interface {
	Repair(ctx context.Context, sourceOrderID int64) ([]storage.ConvertedOperation, error)
}

// RepairSequence пронумеровывает операции заказа заново: 10, 20, 30...
func RepairSequence(log *slog.Logger, rep SequenceRepairer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operations.RepairSequence"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ops, err := rep.Repair(ctx, id)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, ops)
	}
}
