package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/frherrer/mdconform/internal/config"
)

var (
	cfgFile string
	verbose bool
	log     = logrus.New()
	logFile *os.File
)

// rootCmd is the base command for mdconform.
var rootCmd = &cobra.Command{
	Use:   "mdconform",
	Short: "Run literate Markdown conformance specs against an engine",
	Long: `mdconform reads literate specification documents (Markdown, AsciiDoc),
classifies every annotated example into variant and scenario runs, and checks
the output of a built engine fixture against the expected trace.

Everything is driven by a YAML configuration file (mdconform.yaml).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLogFile()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "mdconform.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Execute runs the root command. An interrupt cancels in-flight checks.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	// PersistentPostRun is skipped when a command fails.
	defer closeLogFile()
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads and validates the config file, then applies its logging
// section. A missing default config file falls back to the defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) && !cmd.Flags().Changed("config") {
		log.Debugf("No %s found, using defaults", cfgFile)
		cfg = config.DefaultConfig()
	} else {
		if cfg, err = config.Load(cfgFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	return cfg, nil
}

// setupLogging applies cfg.Logging unless --verbose already raised the level.
func setupLogging(cfg *config.Config) error {
	if !verbose && cfg.Logging.Level != "" {
		level, err := logrus.ParseLevel(cfg.Logging.Level)
		if err != nil {
			return fmt.Errorf("invalid logging.level: %w", err)
		}
		log.SetLevel(level)
	}
	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		closeLogFile()
		logFile = f
		log.SetOutput(f)
	}
	return nil
}

// closeLogFile closes the configured log file, if any, and sends further
// output back to stderr.
func closeLogFile() {
	if logFile == nil {
		return
	}
	log.SetOutput(os.Stderr)
	if err := logFile.Close(); err != nil {
		log.Warnf("Failed to close log file: %v", err)
	}
	logFile = nil
}

// prepare loads, validates and applies the configuration. overrides runs
// between loading and validation so flags are validated too.
func prepare(cmd *cobra.Command, overrides func(cfg *config.Config)) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if overrides != nil {
		overrides(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := setupLogging(cfg); err != nil {
		return nil, err
	}
	log.Debugf("Loaded config: %+v", cfg)
	return cfg, nil
}
