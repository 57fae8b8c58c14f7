// Command ledger-init creates an empty ledger with the evenements schema,
// for local development and offline runs.
package main

import (
	"os"

	"collapse/internal/cli"
	"collapse/internal/log"
	"collapse/internal/storage"
)

func main() {
	cli.LoadEnvFile()

	cfg, logger := cli.LoadAndValidateConfig()

	if err := storage.InitLedger(cfg.LedgerPath); err != nil {
		logger.Error("Failed to initialize ledger",
			log.FieldPath, cfg.LedgerPath,
			log.FieldError, err)
		os.Exit(1)
	}

	logger.Info("Ledger ready", log.FieldPath, cfg.LedgerPath)
}
