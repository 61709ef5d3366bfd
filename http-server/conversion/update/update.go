package update

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
)

type ConversionUpdater interface {
	MoveToCorrection(ctx context.Context, id int64, reason string) error
	Revert(ctx context.Context, id int64) error
}

// MoveToCorrection отправляет заказ в очередь неудачных конвертаций.
func MoveToCorrection(log *slog.Logger, u ConversionUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.conversion.MoveToCorrection"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var req struct {
			Reason string `json:"reason"`
		}
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		req.Reason = strings.TrimSpace(req.Reason)
		if req.Reason == "" {
			http.Error(w, "reason is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := u.MoveToCorrection(ctx, id, req.Reason); err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "moved"})
	}
}

// RevertConversion снимает флаг конвертации и удаляет операции заказа.
func RevertConversion(log *slog.Logger, u ConversionUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.conversion.RevertConversion"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := u.Revert(ctx, id); err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "reverted"})
	}
}
