package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lysyi3m/lis-comb/app/amendment"
	"github.com/lysyi3m/lis-comb/app/api"
	"github.com/lysyi3m/lis-comb/app/cfg"
	"github.com/lysyi3m/lis-comb/app/database"
	"github.com/lysyi3m/lis-comb/app/scrape"
	"github.com/lysyi3m/lis-comb/app/tasks"
)

func main() {
	appCfg, err := cfg.Load(os.Args[1:])
	if err != nil {
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting LIS Comb", "version", appCfg.Version, "command", appCfg.Command)

	db, err := database.Open(appCfg.DBPath)
	if err != nil {
		slog.Error("Failed to open database", "path", appCfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Debug("Database ready", "path", appCfg.DBPath, "schema_version", version, "dirty", dirty)

	recordRepo := database.NewRecordRepository(db)
	runRepo := database.NewRunRepository(db)

	switch appCfg.Command {
	case cfg.CommandImport:
		err = runImport(appCfg, recordRepo)
	case cfg.CommandScrape:
		err = runScrape(appCfg, recordRepo, runRepo)
	case cfg.CommandServe:
		err = runServe(appCfg, recordRepo, runRepo)
	default:
		err = fmt.Errorf("unknown command: %s", appCfg.Command)
	}

	if err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		db.Close()
		os.Exit(1)
	}
}

func loadInputs(appCfg *cfg.Cfg) (*cfg.Pipeline, []amendment.Member, error) {
	pipeline, err := cfg.LoadPipeline(appCfg.PipelinePath)
	if err != nil {
		return nil, nil, err
	}

	roster, err := cfg.LoadRoster(appCfg.RosterPath)
	if err != nil {
		return nil, nil, err
	}

	slog.Info("Loaded pipeline", "path", appCfg.PipelinePath, "partitions", len(pipeline.Partitions), "members", len(roster))
	return pipeline, roster, nil
}

func newDriver(appCfg *cfg.Cfg, pipeline *cfg.Pipeline, roster []amendment.Member, records database.RecordStore, runs database.RunStore) (*scrape.Driver, error) {
	parser, err := amendment.NewParser(pipeline.LISBaseURL)
	if err != nil {
		return nil, err
	}

	fetcher := scrape.NewFetcher(&http.Client{}, pipeline.LISBaseURL, appCfg.UserAgent, pipeline.Timeout)
	limiter := scrape.NewLimiter(pipeline.RequestDelay)

	return scrape.NewDriver(pipeline, roster, fetcher, parser, amendment.NewDetailExtractor(), limiter, records, runs), nil
}

func runScrape(appCfg *cfg.Cfg, records database.RecordStore, runs database.RunStore) error {
	pipeline, roster, err := loadInputs(appCfg)
	if err != nil {
		return err
	}

	partitions := pipeline.Select(appCfg.Scrape.Year, appCfg.Scrape.Bill)
	if len(partitions) == 0 {
		return fmt.Errorf("no configured partition matches year=%d bill=%q", appCfg.Scrape.Year, appCfg.Scrape.Bill)
	}

	driver, err := newDriver(appCfg, pipeline, roster, records, runs)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var failed int
	for _, partition := range partitions {
		if err := runs.RegisterPartition(ctx, partition.Year, partition.Bill); err != nil {
			return err
		}

		run, err := driver.RunPartition(ctx, partition)
		if err != nil {
			slog.Error("Partition scrape failed", "partition", partition.String(), "error", err)
			failed++
			if ctx.Err() != nil {
				break
			}
			continue
		}

		slog.Info("Partition complete",
			"partition", partition.String(),
			"status", run.Status,
			"records", run.Records,
			"output", partition.OutputFileName())
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d partitions failed", failed, len(partitions))
	}
	return nil
}

func runImport(appCfg *cfg.Cfg, records database.RecordStore) error {
	f, err := os.Open(appCfg.Import.File)
	if err != nil {
		return fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	imported, err := amendment.ReadRecords(f)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", appCfg.Import.File, err)
	}

	for i, r := range imported {
		if r.SessionYear != appCfg.Import.Year || r.BillNumber != appCfg.Import.Bill {
			return fmt.Errorf("record %d (%s) belongs to %d/%s, not %d/%s",
				i+1, r.ID, r.SessionYear, r.BillNumber, appCfg.Import.Year, appCfg.Import.Bill)
		}
	}

	if err := records.ReplacePartition(context.Background(), appCfg.Import.Year, appCfg.Import.Bill, imported); err != nil {
		return err
	}

	slog.Info("Records imported",
		"file", appCfg.Import.File,
		"year", appCfg.Import.Year,
		"bill", appCfg.Import.Bill,
		"records", len(imported))

	return nil
}

func runServe(appCfg *cfg.Cfg, records database.RecordStore, runs database.RunStore) error {
	pipeline, roster, err := loadInputs(appCfg)
	if err != nil {
		return err
	}

	driver, err := newDriver(appCfg, pipeline, roster, records, runs)
	if err != nil {
		return err
	}

	slog.Info("Starting background scheduler", "workers", appCfg.WorkerCount, "partitions", len(pipeline.Partitions))
	scheduler := tasks.NewScheduler(pipeline, runs, driver,
		time.Duration(appCfg.SchedulerInterval)*time.Second, appCfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(records, runs, pipeline, roster, scheduler, appCfg.BaseUrl, appCfg.Port, appCfg.Version)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Warn("HTTP server shutdown error", "error", err)
	}

	slog.Info("LIS Comb server shutdown complete")
	return serveErr
}
