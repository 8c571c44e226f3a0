package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"macroflow/catalog"
	"macroflow/config"
	"macroflow/internal/table"
	"macroflow/logger"
	"macroflow/mapping"
	"macroflow/processor"
	"macroflow/writer"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "", "Path to configuration file (defaults to the APP_ENV specific file)")
	universePath := flag.String("universe", "config/universe.yml", "Path to the instrument universe file")
	full := flag.Bool("full", false, "Ignore the saved master table and download the full history")

	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}

	if err := log.Configure(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output, cfg.Logging.MaxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	env := config.AppEnvironment()
	log.WithFields(logger.Fields{
		"service":     cfg.Macroflow.Name,
		"version":     cfg.Macroflow.Version,
		"environment": env,
	}).Info("starting macroflow")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	if cfg.Logging.CloudWatch.Enabled {
		logger.InitCloudWatch(ctx, cfg.Logging.CloudWatch.Region, cfg.Logging.CloudWatch.Namespace)
	}

	code := run(ctx, cfg, env, *universePath, *full)
	stop()
	logger.LogReport(context.Background(), log)
	log.Info("macroflow stopped")
	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, env, universePath string, full bool) int {
	log := logger.GetLogger().WithComponent("main")

	cat, err := catalog.Default()
	if err != nil {
		log.WithError(err).Error("invalid variable catalog")
		return 1
	}
	summary := cat.Summary()
	log.WithFields(logger.Fields{
		"definitions": summary.Total,
		"providers":   len(summary.ByProvider),
	}).Info("catalog loaded")

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		log.WithError(err).Error("failed to set up exports")
		return 1
	}

	if err := exporter.SaveCatalog(ctx, cat.ListDefinitions()); err != nil {
		log.WithError(err).Error("failed to export catalog")
		return 1
	}

	universe, err := config.LoadUniverse(universePath)
	if err != nil {
		log.WithError(err).Error("failed to load instrument universe")
		return 1
	}
	records, warnings := mapping.NewEngine(cat).MapUniverse(universe.Instruments)
	for _, w := range warnings {
		var unmapped *mapping.UnmappedInstrumentWarning
		if errors.As(w, &unmapped) {
			log.WithFields(logger.Fields{"ticker": unmapped.Ticker}).Warn("instrument matched only global macro variables")
			continue
		}
		log.WithError(w).Warn("mapping warning")
	}
	if err := exporter.SaveMapping(ctx, records); err != nil {
		log.WithError(err).Error("failed to export mapping")
		return 1
	}

	creds := cfg.Credentials()
	if len(creds) == 0 {
		if config.IsProductionLike(env) {
			// No credentials in a production-like environment aborts the batch.
			creds = nil
		}
		log.WithFields(logger.Fields{"environment": env}).Warn("no provider credentials configured")
	}

	downloader := processor.NewDownloader(processor.OptionsFromConfig(cfg))

	var existing *table.MasterTable
	if !full {
		tbl, found, err := exporter.LoadMaster(ctx)
		if err != nil {
			log.WithError(err).Error("failed to load saved master table")
			return 1
		}
		if found {
			existing = tbl
		}
	}

	var res *processor.Result
	if existing != nil {
		log.WithFields(logger.Fields{"columns": len(existing.Columns()), "dates": existing.Len()}).Info("updating saved master table")
		res, err = downloader.UpdateExisting(ctx, existing, cat, creds)
	} else {
		log.Info("downloading full history")
		res, err = downloader.DownloadAll(ctx, cat, creds)
	}
	if err != nil {
		log.WithError(err).Error("download batch aborted")
		return 1
	}

	// Exports run after the deadline or a signal, so they get their own
	// context.
	saveCtx := context.WithoutCancel(ctx)
	if err := exporter.SaveMaster(saveCtx, res.Table); err != nil {
		log.WithError(err).Error("failed to export master table")
		return 1
	}
	if err := exporter.SaveAudit(saveCtx, res.RunID, res.Audit); err != nil {
		log.WithError(err).Error("failed to export audit log")
		return 1
	}

	if cfg.Storage.Kafka.Enabled {
		publishAudit(saveCtx, cfg.Storage.Kafka, res)
	}

	for _, f := range res.Failures() {
		log.WithFields(logger.Fields{
			"code":     f.Code,
			"provider": f.Provider,
			"attempts": f.Attempts,
			"cause":    f.Cause,
		}).Warn("variable not downloaded")
	}
	log.WithFields(logger.Fields{
		"run_id":    res.RunID,
		"mode":      res.Mode,
		"succeeded": res.Succeeded,
		"failed":    res.Failed,
		"timed_out": res.TimedOut,
		"columns":   len(res.Table.Columns()),
		"dates":     res.Table.Len(),
	}).Info("download finished")

	if res.Succeeded == 0 {
		return 1
	}
	return 0
}

func newExporter(ctx context.Context, cfg *config.Config) (*writer.Exporter, error) {
	primary := writer.FileStore{Dir: cfg.Writer.OutputDir}
	if !cfg.Storage.S3.Enabled {
		logger.GetLogger().WithComponent("main").Info("S3 storage disabled; writing local files only")
		return writer.NewExporter(cfg.Writer, primary), nil
	}
	s3Store, err := writer.NewS3Store(ctx, cfg.Storage.S3, cfg.Macroflow.Version)
	if err != nil {
		return nil, err
	}
	return writer.NewExporter(cfg.Writer, primary, s3Store), nil
}

// publishAudit is best effort; the audit CSV is already saved.
func publishAudit(ctx context.Context, cfg config.KafkaConfig, res *processor.Result) {
	log := logger.GetLogger().WithComponent("main")
	publisher, err := writer.NewAuditPublisher(cfg)
	if err != nil {
		log.WithError(err).Warn("kafka publisher unavailable")
		return
	}
	defer publisher.Close()
	if err := publisher.Publish(ctx, res.Audit); err != nil {
		log.WithError(err).Warn("audit events not published")
	}
}
