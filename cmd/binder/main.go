// Command binder serves the collection and deck tracker backed by a
// spreadsheet.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-binder/internal/version"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "binder",
	Short: "Track a Magic: The Gathering collection and decks in a spreadsheet",
	Long: "binder keeps a card collection and decks in a Google Sheets spreadsheet, " +
		"and serves a local API for browsing, deck building, combos and commander synergy.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: serve
		return serveCmd.RunE(cmd, args)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("binder %s\n", version.GetVersion())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.mtg-binder/config.toml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
