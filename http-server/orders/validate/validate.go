package validate

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"printshop/internal/service/normalize"
	validatesvc "printshop/internal/service/validate"
	"printshop/internal/storage"
)

type OrderValidator interface {
	Validate(o storage.OrderRecord) validatesvc.Result
}

// ValidateOrder проверяет одну строку без записи, для подсветки в интерфейсе.
func ValidateOrder(log *slog.Logger, v OrderValidator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.orders.ValidateOrder"

		var req storage.RawOrder
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.With(slog.String("op", op)).Warn("invalid JSON", slog.String("error", err.Error()))
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		render.JSON(w, r, v.Validate(normalize.FromRaw(req)))
	}
}
