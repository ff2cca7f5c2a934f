package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/san-kum/protolab/internal/storage"
	"github.com/san-kum/protolab/internal/viz"
)

var configHome string

// main registers commands, opens the preset picker when no subcommand is
// given and exits 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:   "protolab",
		Short: "heat diffusion and particle initial-condition lab",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("data", ".protolab", "data directory")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.StringVar(&configHome, "config-home", "", "directory holding config.yaml (default $HOME/.protolab)")
	viper.BindPFlag("data", flags.Lookup("data"))
	viper.BindPFlag("log_level", flags.Lookup("log-level"))

	cobra.OnInitialize(initSettings)

	rootCmd.AddCommand(
		runCmd(), liveCmd(), sweepCmd(), benchCmd(),
		listCmd(), plotCmd(), exportCmd(), exportJSONCmd(), analyzeCmd(), chartCmd(),
		presetsCmd(), serveCmd(), galaxyCmd(), solarSystemCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// initSettings reads config.yaml from the config home, then PROTOLAB_*
// variables on top.
func initSettings() {
	dir := configHome
	if dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, ".protolab")
		}
	}
	if dir != "" {
		viper.AddConfigPath(dir)
	}
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PROTOLAB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintln(os.Stderr, "settings:", err)
		}
	}
}

func setupLogging() error {
	level, err := log.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	return nil
}

func logger() *log.Entry {
	return log.WithField("app", "protolab")
}

func store() *storage.Store {
	return storage.New(viper.GetString("data"))
}

// signalContext is cancelled on interrupt.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
