// Package api - общие мелочи HTTP-обработчиков.
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"printshop/internal/service/convert"
	"printshop/internal/service/intake"
	"printshop/internal/service/masterdata"
	"printshop/internal/service/schedule"
	"printshop/internal/service/sequence"
	"printshop/internal/storage"
)

// IDParam читает положительный int64 из параметра пути.
func IDParam(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

// Status - HTTP-код для ошибки сервиса.
func Status(err error) int {
	switch {
	case errors.Is(err, storage.ErrOrderNotFound),
		errors.Is(err, storage.ErrOperationNotFound),
		errors.Is(err, storage.ErrMachineNotFound),
		errors.Is(err, sequence.ErrAnchorNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicate),
		errors.Is(err, storage.ErrClaimLost),
		errors.Is(err, intake.ErrNotInQueue),
		errors.Is(err, convert.ErrOrderBusy):
		return http.StatusConflict
	case errors.Is(err, masterdata.ErrInvalidMasterData),
		errors.Is(err, sequence.ErrUnknownPosition),
		errors.Is(err, sequence.ErrUnknownOperation),
		errors.Is(err, schedule.ErrUnknownSection),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, schedule.ErrInvalidWindow),
		errors.Is(err, schedule.ErrNoOperations),
		errors.Is(err, schedule.ErrInvalidMachine):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Fail пишет ошибку сервиса в лог и в ответ. Текст 500-х наружу не отдаётся.
func Fail(w http.ResponseWriter, log *slog.Logger, op string, err error) {
	code := Status(err)
	if code == http.StatusInternalServerError {
		log.With(slog.String("op", op), slog.String("error", err.Error())).Error("request failed")
		http.Error(w, "Internal server error", code)
		return
	}

	log.With(slog.String("op", op), slog.String("error", err.Error())).Warn("request rejected")
	http.Error(w, Message(err), code)
}

// Message - текст ошибки без префиксов op.
func Message(err error) string {
	msg := err.Error()
	for strings.HasPrefix(msg, "service.") || strings.HasPrefix(msg, "storage.") {
		_, rest, ok := strings.Cut(msg, ": ")
		if !ok {
			break
		}
		msg = rest
	}
	return msg
}
