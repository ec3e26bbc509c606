package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/allana0-dev/refynely-backend/internal/api/respond"
	"github.com/allana0-dev/refynely-backend/internal/services"
)

// SlideHandler is a thin HTTP transport over SlideService.
type SlideHandler struct {
	svc *services.SlideService
}

func NewSlideHandler(svc *services.SlideService) *SlideHandler { return &SlideHandler{svc: svc} }

// CreateSlide POST /api/decks/{deckId}/slides
func (h *SlideHandler) CreateSlide(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Title        string `json:"title"`
		Content      string `json:"content"`
		SpeakerNotes string `json:"speakerNotes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	slide, err := h.svc.CreateSlide(r.Context(), owner, mux.Vars(r)["deckId"], req.Title, req.Content, req.SpeakerNotes)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, slide)
}

// UpdateSlide PATCH /api/slides/{slideId}
func (h *SlideHandler) UpdateSlide(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req services.SlideContentUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	slide, err := h.svc.UpdateContent(r.Context(), owner, mux.Vars(r)["slideId"], req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, slide)
}

// BulkUpdateSlides PATCH /api/decks/{deckId}/slides
func (h *SlideHandler) BulkUpdateSlides(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req struct {
		Slides []services.BulkSlideUpdate `json:"slides"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	slides, err := h.svc.BulkUpdate(r.Context(), owner, mux.Vars(r)["deckId"], req.Slides)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"slides": slides, "count": len(slides)})
}

// RegenerateSlide POST /api/decks/{deckId}/slides/{slideId}/regenerate
func (h *SlideHandler) RegenerateSlide(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	var req services.RegenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	vars := mux.Vars(r)
	slide, err := h.svc.Regenerate(r.Context(), owner, vars["deckId"], vars["slideId"], req)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, slide)
}

// DeleteSlide DELETE /api/slides/{slideId}
func (h *SlideHandler) DeleteSlide(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.svc.DeleteSlide(r.Context(), owner, mux.Vars(r)["slideId"]); err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
