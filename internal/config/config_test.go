package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Configured())

	d, err := cfg.DebounceInterval()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, d)
	assert.ElementsMatch(t, []string{"SpreadsheetID", "APIKey", "ClientID"}, cfg.MissingSheetsFields())
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "absent.toml"))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFrom_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[sheets]
spreadsheet_id = "sheet"
api_key = "key"
client_id = "client.apps.googleusercontent.com"

[sync]
debounce = "250ms"
`), 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.True(t, cfg.Configured())
	assert.Equal(t, "Collection!A2:H", cfg.Sheets.CollectionRange)
	d, err := cfg.DebounceInterval()
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, d)
}

func TestLoadFrom_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[sheets\n"), 0o600))

	_, err := LoadFrom(path)
	assert.Error(t, err)
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Sheets.SpreadsheetID = "abc"
	cfg.Server.Port = 9090

	require.NoError(t, cfg.SaveTo(path))

	loaded, err := LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sync.Debounce = "soon"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Sync.Debounce = "0s"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())
}

func TestConfigured_RejectsBadURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sheets.SpreadsheetID = "s"
	cfg.Sheets.APIKey = "k"
	cfg.Sheets.ClientID = "c"
	cfg.Sheets.BaseURL = "not a url"

	assert.False(t, cfg.Configured())
	assert.Equal(t, []string{"BaseURL"}, cfg.MissingSheetsFields())
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, DefaultConfig().SaveTo(path))

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	cfg := DefaultConfig()
	cfg.Sheets.SpreadsheetID = "s"
	cfg.Sheets.APIKey = "k"
	cfg.Sheets.ClientID = "c"
	require.NoError(t, cfg.SaveTo(path))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case got := <-changes:
			if got.Sheets.SpreadsheetID == "s" {
				return
			}
		case <-deadline:
			t.Fatal("watcher did not report the change")
		}
	}
}
