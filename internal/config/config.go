package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration.
type Config struct {
	// Spreadsheet connection
	Sheets SheetsConfig `toml:"sheets"`

	// Save scheduling
	Sync SyncConfig `toml:"sync"`

	// Upstream read-only services
	Services ServicesConfig `toml:"services"`

	// Local API server
	Server ServerConfig `toml:"server"`

	// Local cache database
	Storage StorageConfig `toml:"storage"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// SheetsConfig contains the spreadsheet connection parameters. All fields
// tagged required must be present for remote operations to run.
type SheetsConfig struct {
	SpreadsheetID   string `toml:"spreadsheet_id" validate:"required"`
	APIKey          string `toml:"api_key" validate:"required"`
	ClientID        string `toml:"client_id" validate:"required"`
	RedirectURL     string `toml:"redirect_url" validate:"omitempty,url"`
	AuthURL         string `toml:"auth_url" validate:"omitempty,url"`
	Scope           string `toml:"scope"`
	BaseURL         string `toml:"base_url" validate:"omitempty,url"`
	CollectionRange string `toml:"collection_range" validate:"required"`
	DecksRange      string `toml:"decks_range" validate:"required"`
}

// SyncConfig contains save scheduling settings.
type SyncConfig struct {
	Debounce string `toml:"debounce"` // Quiet interval before saving (e.g., "1.5s")
}

// ServicesConfig contains upstream API base URLs.
type ServicesConfig struct {
	ScryfallURL  string `toml:"scryfall_url"`
	SpellbookURL string `toml:"spellbook_url"`
	EDHRECURL    string `toml:"edhrec_url"`
}

// ServerConfig contains local API server settings.
type ServerConfig struct {
	Port        int  `toml:"port"`
	OpenBrowser bool `toml:"open_browser"` // Open the sign-in page with the system browser
}

// StorageConfig contains local database settings.
type StorageConfig struct {
	Path string `toml:"path"` // SQLite file; empty uses ~/.mtg-binder/cache.db
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

var validate = validator.New()

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sheets: SheetsConfig{
			RedirectURL:     "http://localhost:8080/auth/callback",
			CollectionRange: "Collection!A2:H",
			DecksRange:      "Decks!A2:E",
		},
		Sync: SyncConfig{
			Debounce: "1.5s",
		},
		Services: ServicesConfig{
			ScryfallURL:  "https://api.scryfall.com",
			SpellbookURL: "https://backend.commanderspellbook.com",
			EDHRECURL:    "https://json.edhrec.com/pages",
		},
		Server: ServerConfig{
			Port:        8080,
			OpenBrowser: true,
		},
	}
}

// DefaultPath returns the path to the configuration file.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".mtg-binder", "config.toml"), nil
}

// Load loads the configuration from the default path.
func Load() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom loads the configuration from path. Missing keys keep their
// defaults; a missing file yields the default config.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// SaveTo writes the configuration to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values. Missing spreadsheet
// parameters are not an error here; see Configured.
func (c *Config) Validate() error {
	if _, err := c.DebounceInterval(); err != nil {
		return err
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	return nil
}

// Configured reports whether every required spreadsheet parameter is set.
func (c *Config) Configured() bool {
	return c.MissingSheetsFields() == nil
}

// MissingSheetsFields lists the spreadsheet settings that fail validation.
func (c *Config) MissingSheetsFields() []string {
	err := validate.Struct(c.Sheets)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return fields
}

// DebounceInterval returns the save debounce as a duration.
func (c *Config) DebounceInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Sync.Debounce)
	if err != nil {
		return 0, fmt.Errorf("invalid debounce %q: %w", c.Sync.Debounce, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("debounce must be positive: %s", c.Sync.Debounce)
	}
	return d, nil
}

// StoragePath returns the cache database path.
func (c *Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".mtg-binder", "cache.db"), nil
}
