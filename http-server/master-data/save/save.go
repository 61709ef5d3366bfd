package save

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printshop/internal/lib/api"
	"printshop/internal/service/masterdata"
	"printshop/internal/storage"
)

type MasterDataWriter interface {
	Import(ctx context.Context, set storage.MasterDataSet) (masterdata.Stats, error)
	Reload(ctx context.Context) (masterdata.Stats, error)
}

// ImportMasterData перезаписывает справочники и перечитывает снимок.
func ImportMasterData(log *slog.Logger, m MasterDataWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.masterdata.ImportMasterData"

		var set storage.MasterDataSet
		if err := render.DecodeJSON(r.Body, &set); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		stats, err := m.Import(ctx, set)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, stats)
	}
}

// ReloadMasterData перечитывает снимок из базы.
func ReloadMasterData(log *slog.Logger, m MasterDataWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.masterdata.ReloadMasterData"

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		stats, err := m.Reload(ctx)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		render.JSON(w, r, stats)
	}
}
