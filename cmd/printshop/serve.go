package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"printshop/internal/config"
	"printshop/internal/service/capacity"
	"printshop/internal/service/convert"
	genexcel "printshop/internal/service/generate-excel"
	"printshop/internal/service/intake"
	"printshop/internal/service/masterdata"
	"printshop/internal/service/schedule"
	"printshop/internal/service/sequence"
	"printshop/internal/storage/sqlstore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and background jobs",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

type services struct {
	snapshots *masterdata.Holder
	intake    *intake.Service
	convert   *convert.Service
	sequence  *sequence.Service
	schedule  *schedule.Service
	excel     *genexcel.GenerateExcelService
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.MustConfig()
	log := setupLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storage, err := sqlstore.New(*cfg)
	if err != nil {
		log.Error("failed to open db", slog.String("error", err.Error()))
		return err
	}
	defer storage.Close()

	if err := storage.Migrate(ctx); err != nil {
		log.Error("failed to migrate db", slog.String("error", err.Error()))
		return err
	}

	snapshots := masterdata.NewHolder(log, storage)
	if stats, err := snapshots.Reload(ctx); err != nil {
		// пустой снимок: все заказы уйдут в Error, пока справочники не загрузят
		log.Warn("master data not loaded", slog.String("error", err.Error()))
	} else {
		log.Info("master data loaded", slog.Int("items", stats.Items), slog.Int("routes", stats.Routes))
	}

	scheduleSvc := schedule.NewService(log, storage, capacity.NewAggregator(cfg.Capacity.DefaultDailyMinutes))
	svc := services{
		snapshots: snapshots,
		intake:    intake.NewService(log, storage, snapshots),
		convert:   convert.NewService(log, storage, snapshots, cfg.Conversion.Workers),
		sequence:  sequence.NewService(log, storage, snapshots),
		schedule:  scheduleSvc,
		excel:     genexcel.NewGenerateService(scheduleSvc),
	}

	scheduler, err := startJobs(ctx, log, *cfg, svc)
	if err != nil {
		log.Error("failed to start background jobs", slog.String("error", err.Error()))
		return err
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      routes(*cfg, log, svc),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout + 30*time.Second,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", cfg.Address), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := scheduler.Shutdown(); err != nil {
			log.Warn("scheduler shutdown", slog.String("error", err.Error()))
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.String("error", err.Error()))
		return err
	}

	log.Info("server stopped")
	return nil
}

// startJobs регистрирует периодическую перезагрузку справочников и снятие зависших захватов.
func startJobs(ctx context.Context, log *slog.Logger, cfg config.Config, svc services) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	if cfg.MasterData.ReloadInterval > 0 {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.MasterData.ReloadInterval),
			gocron.NewTask(func() {
				if _, err := svc.snapshots.Reload(ctx); err != nil {
					log.Error("master data reload failed", slog.String("error", err.Error()))
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	if cfg.Conversion.ClaimTTL > 0 {
		_, err = scheduler.NewJob(
			gocron.DurationJob(cfg.Conversion.ClaimTTL),
			gocron.NewTask(func() {
				n, err := svc.convert.ReleaseStaleClaims(ctx, cfg.Conversion.ClaimTTL)
				if err != nil {
					log.Error("release stale claims failed", slog.String("error", err.Error()))
					return
				}
				if n > 0 {
					log.Warn("stale conversion claims released", slog.Int64("count", n))
				}
			}),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, err
		}
	}

	scheduler.Start()
	return scheduler, nil
}
