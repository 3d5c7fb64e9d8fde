package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/entity"
	"github.com/leadgen-io/leadgen-api/internal/infra/http/middleware"
	"github.com/leadgen-io/leadgen-api/internal/usecase"
)

type LeadHandler struct {
	Manage *usecase.ManageLeadsUseCase
	Import *usecase.ImportLeadsUseCase
	Export *usecase.ExportLeadsUseCase
	Logger *zap.Logger
}

func NewLeadHandler(manage *usecase.ManageLeadsUseCase, imp *usecase.ImportLeadsUseCase, exp *usecase.ExportLeadsUseCase, logger *zap.Logger) *LeadHandler {
	return &LeadHandler{Manage: manage, Import: imp, Export: exp, Logger: logger}
}

// filtersFromQuery interprets the flat optional key/value filter set.
// Empty or absent keys impose no constraint.
func filtersFromQuery(r *http.Request) entity.LeadFilters {
	q := r.URL.Query()

	f := entity.LeadFilters{
		Status:   q.Get("status"),
		Source:   q.Get("source"),
		Search:   q.Get("search"),
		DateFrom: q.Get("date_from"),
		DateTo:   q.Get("date_to"),
	}

	if raw := q.Get("is_verified"); raw != "" {
		v := raw == "true" || raw == "1"
		f.IsVerified = &v
	}

	return f
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// HandleList — GET /api/leads
func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", entity.DefaultPerPage)

	result, err := h.Manage.List(r.Context(), filtersFromQuery(r), page, perPage)
	if err != nil {
		h.Logger.Error("list leads failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    result.Data,
		"meta": map[string]any{
			"total":       result.Total,
			"page":        result.Page,
			"per_page":    result.PerPage,
			"total_pages": result.TotalPages,
		},
	})
}

// HandleGet — GET /api/leads/{id}
func (h *LeadHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lead ID required")
		return
	}

	lead, err := h.Manage.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": lead})
}

// HandleRecent — GET /api/leads/recent
func (h *LeadHandler) HandleRecent(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Manage.Recent(r.Context(), queryInt(r, "limit", 5))
	if err != nil {
		h.Logger.Error("recent leads failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": leads})
}

// HandleCreate — POST /api/leads
func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	lead, err := h.Manage.Create(r.Context(), input, middleware.ActorID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"message": "Lead created successfully",
		"data":    lead,
	})
}

// HandleUpdate — PUT /api/leads/{id}
func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lead ID required")
		return
	}

	var upd entity.LeadUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if upd.IsEmpty() {
		writeError(w, http.StatusBadRequest, "no data provided")
		return
	}

	lead, err := h.Manage.Update(r.Context(), id, upd, middleware.ActorID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Lead updated successfully",
		"data":    lead,
	})
}

// HandleDelete — DELETE /api/leads/{id}
func (h *LeadHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "lead ID required")
		return
	}

	deleted, err := h.Manage.Delete(r.Context(), id, middleware.ActorID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}

	middleware.RecordLeadsDeleted(1)
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Lead deleted successfully"})
}

// HandleBulkDelete — DELETE /api/leads
func (h *LeadHandler) HandleBulkDelete(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IDs []int64 `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	removed, err := h.Manage.BulkDelete(r.Context(), body.IDs, middleware.ActorID(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	middleware.RecordLeadsDeleted(removed)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Deleted %d leads", removed),
	})
}

// HandleImport — POST /api/leads/import, JSON body {leads: [...], source: "..."}
func (h *LeadHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Leads  []usecase.CreateLeadInput `json:"leads"`
		Source string                    `json:"source"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	h.runImport(w, r, body.Leads, body.Source)
}

// HandleImportFile — POST /api/leads/import/file, multipart upload of a
// .csv or .xlsx candidate file.
func (h *LeadHandler) HandleImportFile(w http.ResponseWriter, r *http.Request) {
	candidates, err := parseImportUpload(r)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.runImport(w, r, candidates, r.FormValue("source"))
}

func (h *LeadHandler) runImport(w http.ResponseWriter, r *http.Request, candidates []usecase.CreateLeadInput, source string) {
	result, err := h.Import.Execute(r.Context(), candidates, source, middleware.ActorID(r.Context()))
	if err != nil {
		h.Logger.Error("bulk import failed", zap.Int("candidates", len(candidates)), zap.Error(err))
		writeDomainError(w, err)
		return
	}

	middleware.RecordImport(result.Imported, result.Skipped)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Imported %d leads, skipped %d duplicates", result.Imported, result.Skipped),
		"data":    result,
	})
}

// HandleExport — GET /api/leads/export, streams the filtered view as a CSV
// attachment.
func (h *LeadHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	csv, err := h.Export.Execute(r.Context(), filtersFromQuery(r))
	if err != nil {
		h.Logger.Error("export failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}

	middleware.RecordExport()
	filename := fmt.Sprintf("leads_export_%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(csv))
}
