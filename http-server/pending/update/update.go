package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/storage"
)

type QueueFixer interface {
	ReturnToTemp(ctx context.Context, dailyID int64, patch storage.OrderPatch) (storage.OrderRecord, error)
	FixConversion(ctx context.Context, dailyID int64, patch storage.OrderPatch) (storage.OrderRecord, error)
}

type fixFunc func(ctx context.Context, dailyID int64, patch storage.OrderPatch) (storage.OrderRecord, error)

// ReturnToTemp - исправленный заказ с ошибкой уходит обратно во временную зону.
func ReturnToTemp(log *slog.Logger, f QueueFixer) http.HandlerFunc {
	return handle(log, "handlers.pending.ReturnToTemp", f.ReturnToTemp)
}

// FixConversion - исправленный заказ снова ждёт конвертации.
func FixConversion(log *slog.Logger, f QueueFixer) http.HandlerFunc {
	return handle(log, "handlers.pending.FixConversion", f.FixConversion)
}

func handle(log *slog.Logger, op string, fix fixFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// пустое тело - возврат без правок
		var patch storage.OrderPatch
		if err := render.DecodeJSON(r.Body, &patch); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		o, err := fix(ctx, id, patch)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		log.Info("order left correction queue", slog.String("op", op), slog.Int64("id", id), slog.String("status", string(o.Status)))
		render.JSON(w, r, o)
	}
}
