// Package syncer owns the in-memory collection and decks, applies mutations,
// and mirrors them to the remote spreadsheet with debounced saves.
package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bep/debounce"
	"golang.org/x/sync/errgroup"

	"github.com/ramonehamilton/mtg-binder/internal/collection"
	"github.com/ramonehamilton/mtg-binder/internal/events"
	"github.com/ramonehamilton/mtg-binder/internal/sheets"
	"github.com/ramonehamilton/mtg-binder/internal/storage"
	"github.com/ramonehamilton/mtg-binder/internal/tabular"
)

// DefaultDebounce is the quiet interval before a save fires.
const DefaultDebounce = 1500 * time.Millisecond

var (
	ErrUnconfigured     = errors.New("spreadsheet is not configured")
	ErrDeckNotFound     = errors.New("deck not found")
	ErrCardNotFound     = errors.New("card not in collection")
	ErrInvalidCommander = errors.New("commander must be a legendary creature in a Commander deck")
	ErrEmptyDeckName    = errors.New("deck name cannot be empty")
)

// State is the sync status.
type State string

const (
	StateIdle         State = "idle"
	StateLoading      State = "loading"
	StateSaving       State = "saving"
	StateError        State = "error"
	StateUnconfigured State = "unconfigured"
)

// Status is the current state with a display message.
type Status struct {
	State     State     `json:"state"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the range-addressed remote table API.
type Store interface {
	ReadRange(ctx context.Context, rng string) ([][]string, error)
	WriteRange(ctx context.Context, rng string, rows [][]string, token string) error
	ClearRange(ctx context.Context, rng string, token string) error
}

// TokenSource hands out bearer tokens for writes.
type TokenSource interface {
	Token(ctx context.Context, op sheets.PendingOperation) (string, error)
	Resume(fragment string) (sheets.PendingOperation, error)
	Invalidate()
}

// Journal records load and save attempts.
type Journal interface {
	RecordSync(ctx context.Context, rec storage.SyncRecord) error
}

// Remote groups everything needed to reach the spreadsheet. A nil Remote
// means the controller is unconfigured.
type Remote struct {
	Store           Store
	Tokens          TokenSource
	CollectionRange string
	DecksRange      string
}

func (r *Remote) valid() bool {
	return r != nil && r.Store != nil && r.Tokens != nil &&
		r.CollectionRange != "" && r.DecksRange != ""
}

// Config configures a Controller.
type Config struct {
	Remote     *Remote
	Debounce   time.Duration // Quiet interval before saving (default: 1.5s)
	Journal    Journal
	Dispatcher *events.EventDispatcher
	Logger     *slog.Logger
}

// Snapshot is a consistent view of the model and status.
type Snapshot struct {
	Collection collection.Collection `json:"collection"`
	Decks      []collection.Deck     `json:"decks"`
	Status     Status                `json:"status"`
}

// Controller is the single owner of the collection and decks. All state is
// replaced wholesale so previously returned snapshots are never mutated.
type Controller struct {
	mu     sync.Mutex
	remote *Remote
	coll   collection.Collection
	decks  []collection.Deck
	status Status

	debounced func(f func())
	pending   bool

	journal    Journal
	dispatcher *events.EventDispatcher
	logger     *slog.Logger
	now        func() time.Time
}

// New creates a controller with an empty model.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}

	c := &Controller{
		coll:       collection.Collection{},
		decks:      []collection.Deck{},
		debounced:  debounce.New(cfg.Debounce),
		journal:    cfg.Journal,
		dispatcher: cfg.Dispatcher,
		logger:     cfg.Logger,
		now:        time.Now,
	}

	if cfg.Remote.valid() {
		c.remote = cfg.Remote
		c.status = Status{State: StateIdle, UpdatedAt: c.now()}
	} else {
		c.status = Status{State: StateUnconfigured, Message: "Spreadsheet not configured", UpdatedAt: c.now()}
	}

	return c
}

// Status returns the current sync status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Snapshot returns the current collection, decks, and status.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Collection: c.coll, Decks: c.decks, Status: c.status}
}

// Configured reports whether remote operations are enabled.
func (c *Controller) Configured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote != nil
}

// Reconfigure swaps the remote and reloads. An invalid remote leaves the
// controller untouched. Pending changes are saved to the previous remote
// first; if that fails the local model is kept and saved to the new remote
// instead of being replaced by a reload.
func (c *Controller) Reconfigure(ctx context.Context, remote *Remote) error {
	if !remote.valid() {
		return ErrUnconfigured
	}

	flushErr := c.Flush(ctx)
	if flushErr != nil && !errors.Is(flushErr, ErrUnconfigured) {
		c.mu.Lock()
		c.remote = remote
		c.mu.Unlock()

		c.logger.Warn("Pending changes not saved before reconfigure; keeping local state", "error", flushErr)
		c.scheduleSave()
		return flushErr
	}

	c.mu.Lock()
	c.remote = remote
	c.mu.Unlock()

	c.logger.Info("Remote store configured",
		"collectionRange", remote.CollectionRange,
		"decksRange", remote.DecksRange)

	return c.Load(ctx)
}

// Load reads both ranges in parallel and replaces the model. On failure the
// previous model is kept.
func (c *Controller) Load(ctx context.Context) error {
	remote := c.currentRemote()
	if remote == nil {
		return ErrUnconfigured
	}

	started := c.now()
	c.setStatus(StateLoading, "Loading from spreadsheet...")

	var collRows, deckRows [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := remote.Store.ReadRange(gctx, remote.CollectionRange)
		if err != nil {
			return fmt.Errorf("read collection: %w", err)
		}
		collRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := remote.Store.ReadRange(gctx, remote.DecksRange)
		if err != nil {
			return fmt.Errorf("read decks: %w", err)
		}
		deckRows = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		c.logger.Error("Load failed", "error", err)
		c.setStatus(StateError, fmt.Sprintf("Load failed: %v", err))
		c.record(ctx, "load", started, 0, 0)
		return err
	}

	coll, droppedCards := tabular.DecodeCollection(collRows)
	decks, droppedDecks := tabular.DecodeDecks(deckRows, coll)
	if droppedCards > 0 || droppedDecks > 0 {
		c.logger.Warn("Dropped unreadable rows", "cards", droppedCards, "decks", droppedDecks)
	}

	c.mu.Lock()
	c.coll = coll
	c.decks = decks
	c.mu.Unlock()

	c.setStatus(StateIdle, fmt.Sprintf("Loaded %d cards and %d decks", len(coll), len(decks)))
	c.record(ctx, "load", started, len(collRows), len(deckRows))
	c.notify(true, true)

	return nil
}

// Save clears and rewrites both ranges from the current model. Empty tables
// are cleared without a write so deletions propagate.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	remote := c.remote
	coll := c.coll
	decks := c.decks
	c.mu.Unlock()

	if remote == nil {
		return ErrUnconfigured
	}

	started := c.now()
	c.setStatus(StateSaving, "Saving...")

	collRows := tabular.EncodeCollection(coll)
	deckRows := tabular.EncodeDecks(decks, coll)

	err := c.writeAll(ctx, remote, collRows, deckRows)
	if err != nil {
		msg := fmt.Sprintf("Save failed: %v", err)
		var redirect *sheets.AuthRedirectError
		if errors.As(err, &redirect) {
			msg = "Sign-in required to save; complete authorization and the save will resume"
		}
		c.logger.Error("Save failed", "error", err)
		c.setStatus(StateError, msg)
		c.record(ctx, "save", started, len(collRows), len(deckRows))
		return err
	}

	c.setStatus(StateIdle, fmt.Sprintf("Saved at %s", c.now().Format("15:04:05")))
	c.record(ctx, "save", started, len(collRows), len(deckRows))
	c.logger.Debug("Saved to spreadsheet", "cards", len(collRows), "decks", len(deckRows))

	return nil
}

func (c *Controller) writeAll(ctx context.Context, remote *Remote, collRows, deckRows [][]string) error {
	token, err := remote.Tokens.Token(ctx, sheets.PendingSave)
	if err != nil {
		return err
	}

	if err := writeTable(ctx, remote.Store, remote.CollectionRange, collRows, token); err != nil {
		return c.rejectToken(remote, fmt.Errorf("write collection: %w", err))
	}
	if err := writeTable(ctx, remote.Store, remote.DecksRange, deckRows, token); err != nil {
		return c.rejectToken(remote, fmt.Errorf("write decks: %w", err))
	}
	return nil
}

// rejectToken drops the cached token when the store refused it, so the
// next save starts the sign-in redirect.
func (c *Controller) rejectToken(remote *Remote, err error) error {
	if sheets.IsUnauthorized(err) {
		c.logger.Warn("Spreadsheet rejected the bearer token", "error", err)
		remote.Tokens.Invalidate()
	}
	return err
}

func writeTable(ctx context.Context, store Store, rng string, rows [][]string, token string) error {
	if err := store.ClearRange(ctx, rng, token); err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	return store.WriteRange(ctx, rng, rows, token)
}

// ResumeAuthorization completes a redirect sign-in and replays the pending
// save, if any, through the debounce.
func (c *Controller) ResumeAuthorization(fragment string) (sheets.PendingOperation, error) {
	remote := c.currentRemote()
	if remote == nil {
		return sheets.PendingNone, ErrUnconfigured
	}

	op, err := remote.Tokens.Resume(fragment)
	if err != nil {
		c.setStatus(StateError, fmt.Sprintf("Authorization failed: %v", err))
		return sheets.PendingNone, err
	}

	if op == sheets.PendingSave {
		c.logger.Info("Authorization complete, resuming save")
		c.scheduleSave()
	}
	return op, nil
}

// Flush runs a scheduled save immediately.
func (c *Controller) Flush(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.pending = false
	c.mu.Unlock()

	if !pending {
		return nil
	}
	c.debounced(func() {})
	return c.Save(ctx)
}

func (c *Controller) scheduleSave() {
	c.mu.Lock()
	c.pending = true
	c.mu.Unlock()

	c.debounced(func() {
		c.mu.Lock()
		if !c.pending {
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.mu.Unlock()

		if err := c.Save(context.Background()); err != nil && !errors.Is(err, ErrUnconfigured) {
			c.logger.Debug("Debounced save did not complete", "error", err)
		}
	})
}

func (c *Controller) currentRemote() *Remote {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remote
}

func (c *Controller) setStatus(state State, msg string) {
	c.mu.Lock()
	c.status = Status{State: state, Message: msg, UpdatedAt: c.now()}
	status := c.status
	c.mu.Unlock()

	c.dispatch(events.SyncStatus, events.SyncStatusEvent{
		State:     string(status.State),
		Message:   status.Message,
		UpdatedAt: status.UpdatedAt,
	})
}

func (c *Controller) record(ctx context.Context, kind string, started time.Time, collRows, deckRows int) {
	if c.journal == nil {
		return
	}

	status := c.Status()
	err := c.journal.RecordSync(context.WithoutCancel(ctx), storage.SyncRecord{
		Kind:           kind,
		State:          string(status.State),
		Message:        status.Message,
		CollectionRows: collRows,
		DeckRows:       deckRows,
		StartedAt:      started,
		FinishedAt:     c.now(),
	})
	if err != nil {
		c.logger.Warn("Failed to record sync", "kind", kind, "error", err)
	}
}

func (c *Controller) notify(collChanged, decksChanged bool) {
	c.mu.Lock()
	coll := c.coll
	deckCount := len(c.decks)
	c.mu.Unlock()

	if collChanged {
		total := 0
		for _, cc := range coll {
			total += cc.Quantity
		}
		c.dispatch(events.CollectionChanged, events.CollectionChangedEvent{Entries: len(coll), Cards: total})
	}
	if decksChanged {
		c.dispatch(events.DecksChanged, events.DecksChangedEvent{Count: deckCount})
	}
}

func (c *Controller) dispatch(eventType string, data any) {
	if c.dispatcher == nil {
		return
	}
	c.dispatcher.Dispatch(events.NewTypedEvent(context.Background(), eventType, data))
}
