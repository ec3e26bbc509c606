package api

import (
	"net/http"

	"github.com/gorilla/mux"

	respond "github.com/allana0-dev/refynely-backend/internal/api/respond"
	"github.com/allana0-dev/refynely-backend/internal/services"
)

// VersionHandler exposes the slide version ledger.
type VersionHandler struct {
	svc *services.VersionService
}

func NewVersionHandler(svc *services.VersionService) *VersionHandler {
	return &VersionHandler{svc: svc}
}

// ListVersions GET /api/slides/{slideId}/versions
func (h *VersionHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	versions, err := h.svc.ListVersions(r.Context(), owner, mux.Vars(r)["slideId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"versions": versions, "count": len(versions)})
}

// RevertVersion POST /api/slides/{slideId}/versions/{versionId}/revert
func (h *VersionHandler) RevertVersion(w http.ResponseWriter, r *http.Request) {
	owner, ok := callerID(w, r)
	if !ok {
		return
	}
	vars := mux.Vars(r)
	slide, err := h.svc.RevertVersion(r.Context(), owner, vars["slideId"], vars["versionId"])
	if err != nil {
		respond.WriteServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, slide)
}
