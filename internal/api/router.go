package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ramonehamilton/mtg-binder/internal/api/handlers"
	"github.com/ramonehamilton/mtg-binder/internal/api/response"
)

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint (no versioning)
	s.router.Get("/health", s.healthCheck)

	// WebSocket endpoint (no JSON content-type requirement)
	s.router.Get("/ws", s.wsHub.ServeWs)

	authHandler := handlers.NewAuthHandler(s.deps.Controller, s.deps.Auth)

	// Sign-in redirect target; the page posts its fragment back to the API
	s.router.Get("/auth/callback", authHandler.Callback)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Get("/url", authHandler.GetURL)
			r.Post("/resume", authHandler.Resume)
		})

		syncHandler := handlers.NewSyncHandler(s.deps.Controller, s.deps.History)
		r.Route("/sync", func(r chi.Router) {
			r.Get("/status", syncHandler.GetStatus)
			r.Get("/history", syncHandler.GetHistory)
			r.Post("/load", syncHandler.Load)
			r.Post("/flush", syncHandler.Flush)
		})

		collectionHandler := handlers.NewCollectionHandler(s.deps.Controller, s.deps.Cards)
		r.Get("/cards/search", collectionHandler.SearchCards)
		r.Route("/collection", func(r chi.Router) {
			r.Get("/", collectionHandler.GetCollection)
			r.Post("/", collectionHandler.AddCard)
			r.Delete("/{cardID}", collectionHandler.RemoveCard)
			r.Patch("/{cardID}/quantity", collectionHandler.SetQuantity)
		})

		deckHandler := handlers.NewDeckHandler(s.deps.Controller, s.deps.Combos, s.deps.Synergy)
		r.Route("/decks", func(r chi.Router) {
			r.Get("/", deckHandler.GetDecks)
			r.Post("/", deckHandler.CreateDeck)
			r.Route("/{deckID}", func(r chi.Router) {
				r.Get("/", deckHandler.GetDeck)
				r.Patch("/", deckHandler.UpdateDeck)
				r.Delete("/", deckHandler.DeleteDeck)
				r.Put("/commander", deckHandler.SetCommander)
				r.Post("/cards/toggle", deckHandler.ToggleCard)
				r.Patch("/cards/{cardID}/quantity", deckHandler.SetCardQuantity)
				r.Get("/groups", deckHandler.GetGroups)
				r.Get("/combos", deckHandler.GetCombos)
				r.Get("/synergy", deckHandler.GetSynergy)
				r.Get("/export", deckHandler.ExportDeck)
			})
		})
	})
}

// healthCheck returns server health status.
func (s *Server) healthCheck(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "mtg-binder-api",
	})
}
