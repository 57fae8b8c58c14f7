package main

import (
	"os"

	"collapse/internal/amqp"
	"collapse/internal/cli"
	"collapse/internal/ledger"
	"collapse/internal/log"
	"collapse/internal/report"
	"collapse/internal/services"
	gsheet "collapse/internal/sheets/google"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	cli.LoadEnvFile()

	os.Exit(run())
}

// run wires and executes one pipeline pass. Deferred cleanups complete
// before the exit code reaches main.
func run() int {
	cfg, logger := cli.LoadAndValidateConfig()
	logger.Info("Starting collapse",
		log.FieldOperation, log.OpStartup,
		log.FieldPath, cfg.LedgerPath,
		log.FieldWorkers, cfg.AggregateWorkers)

	ctx, stop := cli.SignalContext()
	defer stop()

	// Optional AMQP notifications
	var notifier services.Notifier
	if cfg.AMQPEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPRoutingKey, logger)
		if err != nil {
			logger.Warn("AMQP notifications disabled", log.FieldError, err)
		} else {
			defer client.Close()
			notifier = client
		}
	} else {
		logger.Info("AMQP notifications disabled - no AMQP_URL provided")
	}

	// Optional Google Sheets export
	var exports []report.Renderer
	if cfg.SheetsEnabled() {
		creds, err := gsheet.LoadCredentials(cfg.GoogleServiceAccountJSON, cfg.GoogleServiceAccountFile)
		if err == nil {
			var exporter *gsheet.Exporter
			exporter, err = gsheet.NewExporter(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName, creds, logger)
			if err == nil {
				exports = append(exports, exporter)
			}
		}
		if err != nil {
			logger.Warn("Google Sheets export disabled", log.FieldError, err)
		}
	}

	pipeline := services.NewPipeline(
		services.PipelineConfig{
			LedgerURL:  cfg.LedgerURL,
			LedgerPath: cfg.LedgerPath,
			SkipSync:   cfg.SkipSync,
			Workers:    cfg.AggregateWorkers,
		},
		ledger.NewSyncer(cfg.LedgerFetchTimeout, logger),
		services.OpenSQLiteStore,
		report.NewTextRenderer(os.Stdout),
		exports,
		notifier,
		logger,
	)

	if _, err := pipeline.Run(ctx); err != nil {
		logger.Error("Run failed", log.FieldError, err)
		return 1
	}
	return 0
}
