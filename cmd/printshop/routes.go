package main

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	getcapacity "printshop/http-server/capacity/get"
	convcalc "printshop/http-server/conversion/calculate"
	getconversion "printshop/http-server/conversion/get"
	upconversion "printshop/http-server/conversion/update"
	report "printshop/http-server/generate-report/generate-excel"
	getmachines "printshop/http-server/machines/get"
	savemachines "printshop/http-server/machines/save"
	getmasterdata "printshop/http-server/master-data/get"
	savemasterdata "printshop/http-server/master-data/save"
	deleteops "printshop/http-server/operations/delete"
	getops "printshop/http-server/operations/get"
	saveops "printshop/http-server/operations/save"
	upops "printshop/http-server/operations/update"
	deleteorders "printshop/http-server/orders/delete"
	getorders "printshop/http-server/orders/get"
	saveorders "printshop/http-server/orders/save"
	uporders "printshop/http-server/orders/update"
	"printshop/http-server/orders/validate"
	getpending "printshop/http-server/pending/get"
	uppending "printshop/http-server/pending/update"
	getschedule "printshop/http-server/schedule/get"
	upschedule "printshop/http-server/schedule/update"
	"printshop/internal/config"
)

func routes(cfg config.Config, log *slog.Logger, svc services) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// приём заказов и временная таблица
	router.Post("/api/orders/validate", validate.ValidateOrder(log, svc.intake))
	router.Post("/api/orders/import", saveorders.ImportOrders(log, svc.intake))
	router.Get("/api/orders/temp", getorders.GetTempOrders(log, svc.intake))
	router.Put("/api/orders/temp/{id}", uporders.UpdateTempOrder(log, svc.intake))
	router.Delete("/api/orders/temp/{id}", deleteorders.DeleteTempOrder(log, svc.intake))
	router.Post("/api/orders/commit", saveorders.CommitOrders(log, svc.intake))

	// очереди исправления
	router.Get("/api/pending/errors", getpending.GetErrorQueue(log, svc.intake))
	router.Get("/api/pending/conversion", getpending.GetConversionQueue(log, svc.intake))
	router.Post("/api/pending/errors/{id}/return", uppending.ReturnToTemp(log, svc.intake))
	router.Post("/api/pending/conversion/{id}/fix", uppending.FixConversion(log, svc.intake))

	// конвертация в операции
	router.Get("/api/conversion/candidates", getconversion.GetCandidates(log, svc.convert))
	router.Post("/api/conversion", convcalc.ConvertOrders(log, svc.convert))
	router.Post("/api/conversion/preview", convcalc.PreviewOrders(log, svc.convert))
	router.Post("/api/conversion/{id}/fail", upconversion.MoveToCorrection(log, svc.convert))
	router.Post("/api/conversion/{id}/revert", upconversion.RevertConversion(log, svc.convert))

	// операции заказа
	router.Get("/api/orders/{id}/operations", getops.GetOrderOperations(log, svc.sequence))
	router.Post("/api/orders/{id}/operations", saveops.InsertOperation(log, svc.sequence))
	router.Post("/api/orders/{id}/operations/reindex", upops.RepairSequence(log, svc.sequence))
	router.Delete("/api/operations/{id}", deleteops.DeleteOperation(log, svc.sequence))

	// планирование
	router.Get("/api/schedule/unassigned", getschedule.GetUnassigned(log, svc.schedule))
	router.Get("/api/schedule/sections/{section}", getschedule.GetSection(log, svc.schedule))
	router.Post("/api/schedule/sections", upschedule.AssignSections(log, svc.schedule))
	router.Delete("/api/schedule/sections", upschedule.UnassignSections(log, svc.schedule))
	router.Put("/api/schedule/operations/{id}", upschedule.ScheduleOperation(log, svc.schedule))

	router.Get("/api/capacity", getcapacity.GetBoard(log, svc.schedule))
	router.Get("/api/capacity/{machineID}/{date}", getcapacity.GetSnapshot(log, svc.schedule))

	router.Get("/api/report/excel", report.GenerateReportExcel(log, svc.excel))

	// справочники и настройки
	router.Get("/api/master-data", getmasterdata.GetStats(log, svc.snapshots))
	router.Post("/api/master-data", savemasterdata.ImportMasterData(log, svc.snapshots))
	router.Post("/api/master-data/reload", savemasterdata.ReloadMasterData(log, svc.snapshots))

	router.Get("/api/machines", getmachines.GetMachines(log, svc.schedule))
	router.Post("/api/machines", savemachines.SaveMachines(log, svc.schedule))
	router.Get("/api/calendar", getmachines.GetCalendar(log, svc.schedule))
	router.Post("/api/calendar", savemachines.SaveCalendar(log, svc.schedule))

	serveFrontend(router, log, cfg.FrontendDir)

	return router
}

// serveFrontend отдаёт статику фронтенда, остальные пути уходят в index.html.
func serveFrontend(router *chi.Mux, log *slog.Logger, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		log.Warn("frontend dir not found, serving API only", slog.String("path", dir))
		return
	}

	index := filepath.Join(dir, "index.html")
	root := http.Dir(dir)

	router.HandleFunc("/*", func(w http.ResponseWriter, r *http.Request) {
		if f, err := root.Open(r.URL.Path); err == nil {
			info, statErr := f.Stat()
			f.Close()
			if statErr == nil && !info.IsDir() {
				http.ServeFile(w, r, filepath.Join(dir, filepath.FromSlash(r.URL.Path)))
				return
			}
		}
		http.ServeFile(w, r, index)
	})
}
