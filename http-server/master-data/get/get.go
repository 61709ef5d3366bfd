package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"printshop/internal/service/masterdata"
)

type SnapshotProvider interface {
	Current() *masterdata.Snapshot
}

// GetStats - размеры текущего снимка справочников и время загрузки.
func GetStats(log *slog.Logger, p SnapshotProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, p.Current().Stats())
	}
}
