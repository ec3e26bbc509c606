package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	respond "github.com/allana0-dev/refynely-backend/internal/api/respond"
	"github.com/allana0-dev/refynely-backend/internal/export"
	"github.com/allana0-dev/refynely-backend/internal/services"
)

// ExportHandler streams rendered deck artifacts.
type ExportHandler struct {
	svc *services.ExportService
}

func NewExportHandler(svc *services.ExportService) *ExportHandler { return &ExportHandler{svc: svc} }

// ExportDeck GET /api/decks/{deckId}/export?format=document|package
func (h *ExportHandler) ExportDeck(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = string(export.FormatDocument)
	}
	deckID := mux.Vars(r)["deckId"]
	out, mime, err := h.svc.Export(r.Context(), owner, deckID, format)
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", exportFilename(deckID, export.Format(format))))
	w.Header().Set("Content-Length", strconv.Itoa(len(out)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

func exportFilename(deckID string, f export.Format) string {
	if f == export.FormatPackage {
		return "deck-" + deckID + ".pptx"
	}
	return "deck-" + deckID + ".pdf"
}
