package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/service/capacity"
	"printshop/internal/service/schedule"
)

type CapacityProvider interface {
	Board(ctx context.Context, from, to string, skipHolidays bool) (schedule.Board, error)
	CapacitySnapshot(ctx context.Context, machineID int64, date string) (capacity.Usage, error)
}

// GetBoard - загрузка станков за окно дат, по умолчанию две недели с понедельника.
func GetBoard(log *slog.Logger, p CapacityProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.capacity.GetBoard"

		q := r.URL.Query()
		skip, _ := strconv.ParseBool(q.Get("skip_holidays"))

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		board, err := p.Board(ctx, q.Get("from"), q.Get("to"), skip)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, board)
	}
}

// GetSnapshot - загрузка одного станка за один день.
func GetSnapshot(log *slog.Logger, p CapacityProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.capacity.GetSnapshot"

		machineID, err := api.IDParam(r, "machineID")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		u, err := p.CapacitySnapshot(ctx, machineID, chi.URLParam(r, "date"))
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, u)
	}
}
