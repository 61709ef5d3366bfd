package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"printshop/internal/lib/api"
	genexcel "printshop/internal/service/generate-excel"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, filter genexcel.Filter) ([]byte, error)
}

// GenerateReportExcel отдаёт книгу с планом и загрузкой станков за окно дат.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		filter := genexcel.Filter{
			From: r.URL.Query().Get("from"),
			To:   r.URL.Query().Get("to"),
		}

		// на Excel можно побольше времени
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, filter)
		if err != nil {
			api.Fail(w, log, op, err)
			return
		}

		fileName := fmt.Sprintf("Schedule_Report_%s.xlsx", time.Now().Format("2006-01-02_150405"))

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
