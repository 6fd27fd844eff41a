package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ramonehamilton/mtg-binder/internal/api/response"
	"github.com/ramonehamilton/mtg-binder/internal/storage"
)

// HistorySource lists recent sync attempts.
type HistorySource interface {
	RecentSyncs(ctx context.Context, limit int) ([]storage.SyncRecord, error)
}

// SyncHandler exposes sync status and manual load/save triggers.
type SyncHandler struct {
	controller Controller
	history    HistorySource
}

// NewSyncHandler creates a new SyncHandler. history may be nil.
func NewSyncHandler(controller Controller, history HistorySource) *SyncHandler {
	return &SyncHandler{controller: controller, history: history}
}

// GetStatus returns the current sync status.
func (h *SyncHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.controller.Status())
}

// Load reloads the model from the spreadsheet.
func (h *SyncHandler) Load(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Load(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, h.controller.Status())
}

// Flush saves any pending changes now.
func (h *SyncHandler) Flush(w http.ResponseWriter, r *http.Request) {
	if err := h.controller.Flush(r.Context()); err != nil {
		writeError(w, err)
		return
	}
	response.Success(w, h.controller.Status())
}

// GetHistory returns recent sync attempts.
func (h *SyncHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		response.Success(w, []storage.SyncRecord{})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.history.RecentSyncs(r.Context(), limit)
	if err != nil {
		response.InternalError(w, err)
		return
	}
	response.Success(w, records)
}
