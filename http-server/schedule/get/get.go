package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/storage"
)

type PoolProvider interface {
	Unassigned(ctx context.Context) ([]storage.ConvertedOperation, error)
	Section(ctx context.Context, section string) ([]storage.ConvertedOperation, error)
}

// GetUnassigned - операции, ещё не разложенные по участкам.
func GetUnassigned(log *slog.Logger, p PoolProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.GetUnassigned"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ops, err := p.Unassigned(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, ops)
	}
}

// GetSection - операции участка, ждущие станка и дня.
func GetSection(log *slog.Logger, p PoolProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.GetSection"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ops, err := p.Section(ctx, chi.URLParam(r, "section"))
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, ops)
	}
}
