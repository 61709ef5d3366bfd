package save

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/service/sequence"
	"printshop/internal/storage"
)

type OperationInserter interface {
	Insert(ctx context.Context, sourceOrderID int64, point sequence.InsertionPoint, req sequence.NewOperation) ([]storage.ConvertedOperation, error)
}

type Request struct {
	sequence.InsertionPoint
	sequence.NewOperation
}

// InsertOperation вставляет операцию в начало, в конец или после указанной
// и перенумеровывает весь список заказа.
func InsertOperation(log *slog.Logger, ins OperationInserter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.operations.InsertOperation"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req Request
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		req.OpName = strings.TrimSpace(req.OpName)
		if req.OpName == "" {
			http.Error(w, "op_name is required", http.StatusBadRequest)
			return
		}
		if req.Position == "" {
			req.Position = sequence.PositionEnd
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ops, err := ins.Insert(ctx, id, req.InsertionPoint, req.NewOperation)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, ops)
	}
}
