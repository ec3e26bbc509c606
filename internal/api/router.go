package api

import (
	"github.com/gorilla/mux"

	"github.com/allana0-dev/refynely-backend/internal/api/recovery"
	"github.com/allana0-dev/refynely-backend/internal/services"
)

// Deps bundles the collaborators the router needs.
type Deps struct {
	Decks    *services.DeckService
	Slides   *services.SlideService
	Versions *services.VersionService
	Exports  *services.ExportService
	Health   HealthPinger
}

// NewRouter creates the HTTP router with all API routes.
func NewRouter(d Deps) *mux.Router {
	router := mux.NewRouter()

	// Global middlewares
	router.Use(recovery.Middleware)

	deckHandler := NewDeckHandler(d.Decks)
	slideHandler := NewSlideHandler(d.Slides)
	versionHandler := NewVersionHandler(d.Versions)
	exportHandler := NewExportHandler(d.Exports)
	healthHandler := NewHealthHandler(d.Health)

	// Health endpoints
	router.HandleFunc("/api/health", healthHandler.CheckHealth).Methods("GET")
	router.HandleFunc("/api/health/db", healthHandler.CheckStorageHealth).Methods("GET")

	// Deck endpoints
	router.HandleFunc("/api/decks", deckHandler.CreateDeck).Methods("POST")
	router.HandleFunc("/api/decks", deckHandler.ListDecks).Methods("GET")
	router.HandleFunc("/api/decks/{deckId}", deckHandler.GetDeck).Methods("GET")
	router.HandleFunc("/api/decks/{deckId}", deckHandler.RenameDeck).Methods("PATCH")
	router.HandleFunc("/api/decks/{deckId}", deckHandler.DeleteDeck).Methods("DELETE")
	router.HandleFunc("/api/decks/{deckId}/reorder", deckHandler.ReorderSlides).Methods("PUT")
	router.HandleFunc("/api/decks/{deckId}/export", exportHandler.ExportDeck).Methods("GET")

	// Slide endpoints
	router.HandleFunc("/api/decks/{deckId}/slides", slideHandler.CreateSlide).Methods("POST")
	router.HandleFunc("/api/decks/{deckId}/slides", slideHandler.BulkUpdateSlides).Methods("PATCH")
	router.HandleFunc("/api/decks/{deckId}/slides/{slideId}/regenerate", slideHandler.RegenerateSlide).Methods("POST")
	router.HandleFunc("/api/decks/{deckId}/slides/{slideId}/generate-image", deckHandler.GenerateSlideImage).Methods("POST")
	router.HandleFunc("/api/slides/{slideId}", slideHandler.UpdateSlide).Methods("PATCH")
	router.HandleFunc("/api/slides/{slideId}", slideHandler.DeleteSlide).Methods("DELETE")

	// Version ledger endpoints
	router.HandleFunc("/api/slides/{slideId}/versions", versionHandler.ListVersions).Methods("GET")
	router.HandleFunc("/api/slides/{slideId}/versions/{versionId}/revert", versionHandler.RevertVersion).Methods("POST")

	return router
}
