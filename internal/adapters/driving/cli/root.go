// Package cli implements the readysync command line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/uwfpm/readysync/internal/adapters/driven/auth"
	fileconfig "github.com/uwfpm/readysync/internal/adapters/driven/config/file"
	"github.com/uwfpm/readysync/internal/adapters/driven/storage/csvfile"
	"github.com/uwfpm/readysync/internal/adapters/driven/storage/sqlite"
	"github.com/uwfpm/readysync/internal/adapters/driven/transport/ready"
	"github.com/uwfpm/readysync/internal/core/ports/driven"
	"github.com/uwfpm/readysync/internal/core/ports/driving"
	"github.com/uwfpm/readysync/internal/core/services"
	"github.com/uwfpm/readysync/internal/logger"
)

// version is set by Execute from the build.
var version = "dev"

// Flag values bound to the root command.
var (
	cfgFile     string
	dataDirFlag string
	verbose     bool
)

// Services consumed by commands. Wired lazily by initServices so tests
// can inject their own implementations first.
var (
	reconciler  driving.Reconciler
	backfiller  driving.Backfiller
	runHistory  driven.RunHistoryStore
	historyKeep = fileconfig.DefaultHistoryKeep
)

var rootCmd = &cobra.Command{
	Use:   "readysync",
	Short: "Mirror AssetWorks ReADY work-order requests into daily flat files",
	Long: `readysync incrementally reconciles the request lifecycle from the
AssetWorks ReADY reporting API into flat files: each run captures the
requests currently open, detects requests that closed since the last
run, refetches their final state, and writes a verified daily snapshot.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default ~/.readysync/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "",
		"data directory for daily files and the baseline (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose logging")
}

// Execute runs the root command. v is the build version string.
func Execute(v string) error {
	version = v
	return rootCmd.Execute()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig() (*fileconfig.Config, error) {
	cfg, err := fileconfig.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	return cfg, nil
}

// initServices wires the production adapters behind the driving ports.
// It is a no-op when a test has already injected services.
func initServices() error {
	if reconciler != nil && backfiller != nil && runHistory != nil {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	dataDir, err := cfg.ResolveDataDir()
	if err != nil {
		return err
	}

	provider := auth.NewFernetEnvProvider(cfg.Credentials.KeyEnv, cfg.Credentials.CredsEnv)
	client, err := ready.NewClient(ready.Config{
		BaseURL:           cfg.EndpointURL(),
		Timeout:           cfg.Timeout(),
		RequestsPerSecond: cfg.RequestsPerSecond,
	}, provider)
	if err != nil {
		return fmt.Errorf("configuring API client: %w", err)
	}

	records := csvfile.NewRecordStore(dataDir)
	baseline := csvfile.NewBaselineStore(dataDir)

	if runHistory == nil {
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return fmt.Errorf("opening run history: %w", err)
		}
		runHistory = store.RunHistoryStore()
	}
	historyKeep = cfg.HistoryKeep

	openSet := services.NewOpenSetBuilder(client, cfg.Templates)
	if reconciler == nil {
		reconciler = services.NewReconciler(openSet, client, records, baseline, runHistory)
	}
	if backfiller == nil {
		backfiller = services.NewBackfiller(openSet, records)
	}
	return nil
}
