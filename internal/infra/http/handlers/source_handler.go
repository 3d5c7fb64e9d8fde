package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
	"github.com/leadgen-io/leadgen-api/internal/usecase"
)

type SourceHandler struct {
	Sources *usecase.ManageSourcesUseCase
	Logger  *zap.Logger
}

func NewSourceHandler(sources *usecase.ManageSourcesUseCase, logger *zap.Logger) *SourceHandler {
	return &SourceHandler{Sources: sources, Logger: logger}
}

// HandleList — GET /api/sources?active=true
func (h *SourceHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	sources, err := h.Sources.List(r.Context(), activeOnly)
	if err != nil {
		h.Logger.Error("list sources failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": sources})
}

// HandleGet — GET /api/sources/{id}
func (h *SourceHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "source ID required")
		return
	}

	source, err := h.Sources.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": source})
}

// HandleCreate — POST /api/sources
func (h *SourceHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateSourceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	source, err := h.Sources.Create(r.Context(), input)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": source})
}

// HandleUpdate — PUT /api/sources/{id}
func (h *SourceHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "source ID required")
		return
	}

	var upd entity.LeadSourceUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	source, err := h.Sources.Update(r.Context(), id, upd)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": source})
}

// HandleDelete — DELETE /api/sources/{id}. Sources still referenced by
// leads are deactivated instead of removed.
func (h *SourceHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "source ID required")
		return
	}

	if err := h.Sources.Delete(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Source deleted successfully"})
}
