package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/allana0-dev/refynely-backend/internal/api/respond"
	"github.com/allana0-dev/refynely-backend/internal/services"
)

// DeckHandler is a thin HTTP transport over DeckService.
type DeckHandler struct {
	svc *services.DeckService
}

func NewDeckHandler(svc *services.DeckService) *DeckHandler { return &DeckHandler{svc: svc} }

// CreateDeck POST /api/decks
func (h *DeckHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title  string              `json:"title"`
		Slides []services.NewSlide `json:"slides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	deck, err := h.svc.CreateDeck(r.Context(), owner, req.Title, req.Slides)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, deck)
}

// ListDecks GET /api/decks
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	decks, err := h.svc.ListDecks(r.Context(), owner)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"decks": decks, "count": len(decks)})
}

// GetDeck GET /api/decks/{deckId}
func (h *DeckHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	deck, err := h.svc.GetDeck(r.Context(), owner, mux.Vars(r)["deckId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, deck)
}

// RenameDeck PATCH /api/decks/{deckId}
func (h *DeckHandler) RenameDeck(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	deck, err := h.svc.RenameDeck(r.Context(), owner, mux.Vars(r)["deckId"], req.Title)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, deck)
}

// DeleteDeck DELETE /api/decks/{deckId}
func (h *DeckHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteDeck(r.Context(), owner, mux.Vars(r)["deckId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ReorderSlides PUT /api/decks/{deckId}/reorder
func (h *DeckHandler) ReorderSlides(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req struct {
		SlideIDs []string `json:"slideIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	deckID := mux.Vars(r)["deckId"]
	if err := h.svc.Reorder(r.Context(), owner, deckID, req.SlideIDs); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	deck, err := h.svc.GetDeck(r.Context(), owner, deckID)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, deck)
}

// GenerateSlideImage POST /api/decks/{deckId}/slides/{slideId}/generate-image
func (h *DeckHandler) GenerateSlideImage(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if req.Prompt == "" {
		respond.WriteBadRequest(w, "prompt is required")
		return
	}
	vars := mux.Vars(r)
	slide, err := h.svc.GenerateSlideImage(r.Context(), owner, vars["deckId"], vars["slideId"], req.Prompt)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, slide)
}
