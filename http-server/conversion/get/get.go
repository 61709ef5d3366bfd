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

type CandidateProvider interface {
	Candidates(ctx context.Context) ([]storage.OrderRecord, error)
}

func GetCandidates(log *slog.Logger, p CandidateProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.conversion.GetCandidates"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		orders, err := p.Candidates(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, orders)
	}
}
