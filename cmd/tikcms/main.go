// Package main provides the tikcms CLI: a live comment console and read-only
// views of the CMS admin API.
package main

import (
	"fmt"
	"os"

	"github.com/minhduc152001/tik-live-cms/internal/archive"
	"github.com/minhduc152001/tik-live-cms/internal/client"
	"github.com/minhduc152001/tik-live-cms/internal/config"
	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:     "tikcms",
	Short:   "Watch TikTok live comments and browse the CMS admin API",
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file")

	rootCmd.AddCommand(newConsoleCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newQRCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "tikcms: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}
	return config.Load(configPath)
}

func newAPI(cfg *config.Config) *client.HTTPClient {
	return client.NewHTTPClient(cfg.API.BaseURL, client.NewSession(cfg.API.Token), cfg.API.Timeout)
}

// openRecorder opens the archive when one is configured. Both return values
// are nil when archiving is off.
func openRecorder(cfg *config.Config) (*archive.Archive, *archive.Recorder, error) {
	if cfg.Archive.Path == "" {
		return nil, nil, nil
	}
	a, err := archive.Open(cfg.Archive.Path)
	if err != nil {
		return nil, nil, err
	}
	return a, archive.NewRecorder(a, cfg.Archive.BatchSize, cfg.Archive.FlushInterval), nil
}
