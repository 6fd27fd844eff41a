package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-binder/internal/config"
)

func resolveConfigPath() (string, error) {
	if configPath != "" {
		return configPath, nil
	}
	return config.DefaultPath()
}

func loadConfig() (*config.Config, string, error) {
	path, err := resolveConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, "", err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, path, nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show where the config lives and what is missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Config: %s\n", path)
		if missing := cfg.MissingSheetsFields(); len(missing) > 0 {
			fmt.Printf("Spreadsheet not configured; missing: %s\n", strings.Join(missing, ", "))
			return nil
		}
		fmt.Printf("Spreadsheet: %s\n", cfg.Sheets.SpreadsheetID)
		fmt.Printf("Ranges: %s, %s\n", cfg.Sheets.CollectionRange, cfg.Sheets.DecksRange)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default values",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			if cfg, err := config.LoadFrom(path); err == nil && cfg.Sheets.SpreadsheetID != "" {
				return fmt.Errorf("%s already has a spreadsheet configured (use --force to overwrite)", path)
			}
		}

		if err := config.DefaultConfig().SaveTo(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		fmt.Println("Fill in spreadsheet_id, api_key and client_id under [sheets].")
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config")
	configCmd.AddCommand(configInitCmd)
}
