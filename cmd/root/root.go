// Package root contains the root command for the application
package root

import (
	"errors"

	"fjacquet/transfer-assistant/internal/common"
	"fjacquet/transfer-assistant/internal/config"
	"fjacquet/transfer-assistant/internal/container"
	"fjacquet/transfer-assistant/internal/logging"

	"github.com/spf13/cobra"
)

// GlobalFlags are the flags shared by every command.
type GlobalFlags struct {
	ConfigFile string
	LogLevel   string
	LogFormat  string
}

var (
	// Log is the shared logger instance for commands
	Log = logging.NewLogrusAdapter("info", "text")

	// AppConfig is the configuration loaded before any command runs
	AppConfig *config.Config

	// AppContainer is the container built by the running command, if any
	AppContainer *container.Container

	// Flags holds the values of the persistent flags
	Flags = GlobalFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "transfer-assistant",
		Short: "Extract and validate bank transfers described in free text.",
		Long: `transfer-assistant turns free-text transfer instructions such as
"Перевести 15000 рублей Иванову счет 40817810123456789012" or
"Transfer 2500 USD to John Smith account 1234567890" into structured
transactions and checks them against business rules.

Texts are structured by a generative model when one is configured, and by
pattern extraction otherwise.`,
		SilenceUsage: true,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to transfer-assistant!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer == nil {
				return
			}
			if err := AppContainer.Close(); err != nil {
				Log.WithError(err).Warn("Failed to close resources")
			}
			AppContainer = nil
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&Flags.ConfigFile, "config", "c", "", "Config file (default searches ./config.yaml, ./.transfer-assistant, $HOME/.transfer-assistant)")
	Cmd.PersistentFlags().StringVar(&Flags.LogLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&Flags.LogFormat, "log-format", "", "Log format (text, json)")
}

// initialize loads .env and the configuration and sets up logging.
func initialize(cmd *cobra.Command, args []string) error {
	config.LoadEnv(Log)

	cfg, err := config.Load(Flags.ConfigFile)
	if err != nil {
		return err
	}
	if Flags.LogLevel != "" {
		cfg.Log.Level = Flags.LogLevel
	}
	if Flags.LogFormat != "" {
		cfg.Log.Format = Flags.LogFormat
	}

	Log = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	common.SetDelimiter([]rune(cfg.CSV.Delimiter)[0])
	AppConfig = cfg

	Log.Debug("Configuration loaded",
		logging.F("generation_enabled", cfg.Generation.Enabled),
		logging.F("store_enabled", cfg.Store.Enabled))
	return nil
}

// BuildContainer wires the application from AppConfig. Overrides are applied
// to a copy of the configuration, so command flags never leak into
// AppConfig.
func BuildContainer(overrides ...func(*config.Config)) (*container.Container, error) {
	if AppConfig == nil {
		return nil, errors.New("configuration not initialized")
	}

	cfg := *AppConfig
	for _, override := range overrides {
		override(&cfg)
	}

	c, err := container.NewContainerWithLogger(&cfg, Log)
	if err != nil {
		return nil, err
	}
	AppContainer = c
	return c, nil
}

// GetLogger returns the configured logger.
func GetLogger() logging.Logger {
	return Log
}

// GetConfig returns the loaded configuration, or nil before initialization.
func GetConfig() *config.Config {
	return AppConfig
}

// GetContainer returns the container built by the running command.
func GetContainer() *container.Container {
	return AppContainer
}
