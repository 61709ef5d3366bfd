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

type SettingsProvider interface {
	Machines(ctx context.Context) ([]storage.Machine, error)
	Calendar(ctx context.Context, from, to string) ([]storage.CalendarOverride, error)
}

func GetMachines(log *slog.Logger, p SettingsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetMachines"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		machines, err := p.Machines(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, machines)
	}
}

// GetCalendar - записи заводского календаря за окно дат.
func GetCalendar(log *slog.Logger, p SettingsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.GetCalendar"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		days, err := p.Calendar(ctx, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, days)
	}
}
