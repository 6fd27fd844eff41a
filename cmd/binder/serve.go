package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ramonehamilton/mtg-binder/internal/api"
	"github.com/ramonehamilton/mtg-binder/internal/config"
	"github.com/ramonehamilton/mtg-binder/internal/events"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/cards/scryfall"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/combos"
	"github.com/ramonehamilton/mtg-binder/internal/mtga/synergy"
	"github.com/ramonehamilton/mtg-binder/internal/sheets"
	"github.com/ramonehamilton/mtg-binder/internal/storage"
	"github.com/ramonehamilton/mtg-binder/internal/syncer"
)

// identityCacheAge bounds how long a cached color identity is trusted.
const identityCacheAge = 30 * 24 * time.Hour

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			cfg.Server.Port = port
		}
		return serve(cmd.Context(), cfg, path)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "API server port (overrides config)")
}

func serve(ctx context.Context, cfg *config.Config, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger(cfg.App.DebugMode)
	slog.SetDefault(logger)

	dbPath, err := cfg.StoragePath()
	if err != nil {
		return err
	}
	db, err := storage.Open(storage.DefaultConfig(dbPath))
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Warn("Error closing cache", "error", err)
		}
	}()
	logger.Info("Cache opened", "path", dbPath)

	scry := scryfall.NewClientWithURL(cfg.Services.ScryfallURL)
	scry.SetLogger(logger)
	identities := storage.NewIdentityCache(db, scry, identityCacheAge)
	journal := storage.NewJournal(db)

	dispatcher := events.NewEventDispatcher(logger)
	dispatcher.Register(events.NewLogObserver(logger))

	debounce, err := cfg.DebounceInterval()
	if err != nil {
		return err
	}

	remotes := newRemoteBuilder(cfg.Server.OpenBrowser, logger)
	controller := syncer.New(syncer.Config{
		Remote:     remotes.build(cfg),
		Debounce:   debounce,
		Journal:    journal,
		Dispatcher: dispatcher,
		Logger:     logger,
	})

	server := api.NewServer(&api.Config{
		Port:        cfg.Server.Port,
		OpenBrowser: cfg.Server.OpenBrowser,
		Logger:      logger,
	}, api.Dependencies{
		Controller: controller,
		Cards:      scry,
		Combos:     combos.NewMatcher(combos.NewSpellbookClient(cfg.Services.SpellbookURL), logger),
		Synergy:    synergy.NewMatcher(synergy.NewEDHRECClient(cfg.Services.EDHRECURL), identities, logger),
		History:    journal,
		Auth:       remotes,
	})
	dispatcher.Register(server.NewWebSocketObserver())

	if err := server.Start(); err != nil {
		return fmt.Errorf("start API server: %w", err)
	}

	if controller.Configured() {
		go func() {
			if err := controller.Load(ctx); err != nil {
				logger.Warn("Initial load failed", "error", err)
			}
		}()
	} else {
		logger.Warn("Spreadsheet not configured", "config", path, "missing", cfg.MissingSheetsFields())
	}

	watcher, err := config.NewWatcher(path, func(next *config.Config) {
		remote := remotes.build(next)
		if remote == nil {
			return
		}
		if err := controller.Reconfigure(ctx, remote); err != nil {
			logger.Warn("Reconfigure failed", "error", err)
		}
	}, logger)
	if err != nil {
		logger.Warn("Config watcher disabled", "error", err)
	} else {
		go watcher.Run(ctx)
	}

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := controller.Flush(shutdownCtx); err != nil && !errors.Is(err, syncer.ErrUnconfigured) {
		logger.Warn("Final save failed", "error", err)
	}
	return server.Shutdown(shutdownCtx)
}

// remoteBuilder turns spreadsheet settings into a syncer.Remote and keeps
// the current authorizer for the sign-in URL endpoint.
type remoteBuilder struct {
	openBrowser bool
	logger      *slog.Logger
	cache       *sheets.TokenCache

	mu         sync.Mutex
	authorizer *sheets.Authorizer
}

func newRemoteBuilder(openBrowser bool, logger *slog.Logger) *remoteBuilder {
	return &remoteBuilder{
		openBrowser: openBrowser,
		logger:      logger,
		cache:       sheets.NewTokenCache(),
	}
}

// build returns nil when cfg lacks a required spreadsheet setting.
func (b *remoteBuilder) build(cfg *config.Config) *syncer.Remote {
	if !cfg.Configured() {
		return nil
	}

	var nav sheets.Navigator = logNavigator{logger: b.logger}
	if b.openBrowser {
		nav = sheets.BrowserNavigator{}
	}

	// The token cache outlives reconfiguration so a valid sign-in survives
	// edits to unrelated settings.
	authorizer := sheets.NewAuthorizer(sheets.AuthConfig{
		ClientID:    cfg.Sheets.ClientID,
		RedirectURL: cfg.Sheets.RedirectURL,
		AuthURL:     cfg.Sheets.AuthURL,
		Scope:       cfg.Sheets.Scope,
		Navigator:   nav,
		Logger:      b.logger,
	}, b.cache)

	b.mu.Lock()
	b.authorizer = authorizer
	b.mu.Unlock()

	return &syncer.Remote{
		Store:           sheets.NewClient(cfg.Sheets.BaseURL, cfg.Sheets.SpreadsheetID, cfg.Sheets.APIKey),
		Tokens:          authorizer,
		CollectionRange: cfg.Sheets.CollectionRange,
		DecksRange:      cfg.Sheets.DecksRange,
	}
}

// AuthURL implements handlers.AuthURLSource.
func (b *remoteBuilder) AuthURL() (string, error) {
	b.mu.Lock()
	a := b.authorizer
	b.mu.Unlock()
	if a == nil {
		return "", syncer.ErrUnconfigured
	}
	return a.AuthURL()
}

// logNavigator prints the sign-in URL instead of opening a browser.
type logNavigator struct {
	logger *slog.Logger
}

func (n logNavigator) Navigate(authURL string) error {
	n.logger.Info("Sign in to continue", "url", authURL)
	return nil
}
