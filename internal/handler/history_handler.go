package handler

import (
	"net/http"

	"pdf-toolkit/internal/domain"
)

// HistoryHandler serves the caller's conversion history
type HistoryHandler struct {
	historyService domain.HistoryService
	logger         domain.Logger
}

func NewHistoryHandler(historyService domain.HistoryService, logger domain.Logger) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
	}
}

// GetHistory returns {"history": [...]} newest first
func (h *HistoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := GetUserFromContext(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "User not found in context")
		return
	}

	entries, err := h.historyService.ListHistory(r.Context(), user)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}
