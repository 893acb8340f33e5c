package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "atreedemo",
	Short: "Drive an A-Tree boolean-matching index from a JSON scenario file",
	Long: `atreedemo loads a scenario file describing attribute declarations,
subscriptions, and events, builds an A-Tree from it, and reports which
subscriptions match each event.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		configureLogging(viper.GetString("log-level"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("scenario", "scenario.json", "path to the scenario JSON file")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	_ = viper.BindPFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(dotCmd)
}

func configureLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func initConfig() {
	viper.SetEnvPrefix("atreedemo")
	viper.AutomaticEnv()
}

func scenarioPath() string {
	return viper.GetString("scenario")
}
