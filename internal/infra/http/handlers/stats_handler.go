package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/leadgen-io/leadgen-api/internal/usecase"
)

type StatsHandler struct {
	Stats  *usecase.LeadStatsUseCase
	Logger *zap.Logger
}

func NewStatsHandler(stats *usecase.LeadStatsUseCase, logger *zap.Logger) *StatsHandler {
	return &StatsHandler{Stats: stats, Logger: logger}
}

// HandleStatistics — GET /api/leads/statistics: overview, status counts and
// source performance in one payload.
func (h *StatsHandler) HandleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Stats.Statistics(r.Context())
	if err != nil {
		h.Logger.Error("statistics failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": stats})
}

// HandleTrends — GET /api/leads/trends?days=30: sparse daily creation
// counts, dates without leads are omitted.
func (h *StatsHandler) HandleTrends(w http.ResponseWriter, r *http.Request) {
	trend, err := h.Stats.DailyTrend(r.Context(), queryInt(r, "days", 30))
	if err != nil {
		h.Logger.Error("trends failed", zap.Error(err))
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": trend})
}
