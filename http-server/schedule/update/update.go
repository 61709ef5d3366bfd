package update

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/service/schedule"
)

type Scheduler interface {
	Assign(ctx context.Context, bySection map[string][]int64) (int64, error)
	Unassign(ctx context.Context, ids []int64) (int64, error)
	Schedule(ctx context.Context, id int64, slot schedule.Slot) (schedule.ScheduleResult, error)
}

type AssignRequest struct {
	Sections map[string][]int64 `json:"sections"`
}

type UnassignRequest struct {
	OperationIDs []int64 `json:"operation_ids"`
}

// AssignSections раскладывает операции по участкам.
func AssignSections(log *slog.Logger, s Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.AssignSections"

		var req AssignRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		n, err := s.Assign(ctx, req.Sections)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]int64{"updated": n})
	}
}

// UnassignSections возвращает операции в общий пул.
func UnassignSections(log *slog.Logger, s Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.UnassignSections"

		var req UnassignRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		n, err := s.Unassign(ctx, req.OperationIDs)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, map[string]int64{"updated": n})
	}
}

// ScheduleOperation ставит операцию на станок и день или снимает с плана.
// В ответе загрузка затронутых ячеек.
func ScheduleOperation(log *slog.Logger, s Scheduler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.schedule.ScheduleOperation"

		id, err := api.IDParam(r, "id")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var slot schedule.Slot
		if err := render.DecodeJSON(r.Body, &slot); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		res, err := s.Schedule(ctx, id, slot)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, res)
	}
}
