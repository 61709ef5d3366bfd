package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/storage"
)

type SettingsWriter interface {
	SaveMachines(ctx context.Context, machines []storage.Machine) error
	SaveCalendar(ctx context.Context, days []storage.CalendarOverride) error
}

func SaveMachines(log *slog.Logger, s SettingsWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.SaveMachines"

		var machines []storage.Machine
		if err := render.DecodeJSON(r.Body, &machines); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.SaveMachines(ctx, machines); err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "saved"})
	}
}

func SaveCalendar(log *slog.Logger, s SettingsWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.machines.SaveCalendar"

		var days []storage.CalendarOverride
		if err := render.DecodeJSON(r.Body, &days); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := s.SaveCalendar(ctx, days); err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]string{"status": "saved"})
	}
}
