package main

import (
	"os"

	"xrayvision/internal/config"
	"xrayvision/internal/logging"
	"xrayvision/internal/ui"
	"xrayvision/processing/remote"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "xrayvision",
	Short: "Desktop client for X-ray enhancement and classification",
	Long: `xrayvision uploads an X-ray image to the enhancement service, requests a
prediction for it and shows the original and enhanced images side by side.

The service address is read from the settings file (api_base) and falls back
to http://127.0.0.1:5000.

Examples:
  xrayvision
  xrayvision --config settings.yaml --log-level debug`,
	Args: cobra.NoArgs,
	Run:  runMain,
}

func init() {
	rootCmd.Flags().StringVarP(&configFlag, "config", "c", config.DefaultConfigPath, "Settings file (.json, .yaml or .yml)")
	rootCmd.Flags().StringVar(&logLevelFlag, "log-level", "", "Log level: debug, info, warn, error (overrides the settings file)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runMain(cmd *cobra.Command, args []string) {
	logging.Init(config.DefaultLogLevel)

	cfg := config.LoadConfigFile(configFlag)

	level := cfg.GetLogLevel()
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	logging.Init(level)

	base := cfg.BaseURL()
	client := remote.NewClient(base, cfg.GetTimeout())

	log.Info().
		Str("config", configFlag).
		Str("api_base", base).
		Dur("timeout", cfg.GetTimeout()).
		Str("picker", string(cfg.GetPicker())).
		Msg("starting")

	app := ui.CreateApp(cfg, configFlag, client)
	app.Run()
}
