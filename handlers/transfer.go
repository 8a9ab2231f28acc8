package handlers

import (
	"errors"
	"net/http"

	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/userstate"
)

func attachment(w http.ResponseWriter, name string) {
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
}

// ExportData downloads notes, favorites and recent searches as one backup
func (h *HTTPHandlerImpl) ExportData(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	attachment(w, userstate.BackupFileName(now))
	h.RespondWithJSON(w, http.StatusOK, h.state.Export(now))
}

// ExportNotes downloads the notes only
func (h *HTTPHandlerImpl) ExportNotes(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	attachment(w, userstate.NotesFileName(now))
	h.RespondWithJSON(w, http.StatusOK, h.state.ExportNotes(now))
}

// ImportData replaces all user data with the posted backup document
func (h *HTTPHandlerImpl) ImportData(w http.ResponseWriter, r *http.Request) {
	body, ok := h.readBody(w, r)
	if !ok {
		return
	}

	summary, err := h.state.Import(r.Context(), body)
	if errors.Is(err, userstate.ErrInvalidImport) {
		logging.Warn("Rejected import file", "error", err)
		h.RespondWithError(w, http.StatusBadRequest, "Invalid file format: "+err.Error())
		return
	}
	if err != nil {
		logging.Error("Failed to persist imported data", "error", err)
	}

	h.RespondWithJSON(w, http.StatusOK, persistence(map[string]any{
		"notes":          summary.Notes,
		"favorites":      summary.Favorites,
		"recentSearches": summary.RecentSearches,
		"message":        summary.Message(),
	}, err))
}

// ClearAllData removes every note, favorite and recent search
func (h *HTTPHandlerImpl) ClearAllData(w http.ResponseWriter, r *http.Request) {
	err := h.state.ClearAll(r.Context())
	if err != nil {
		logging.Error("Failed to clear persisted data", "error", err)
	}
	h.RespondWithJSON(w, http.StatusOK, persistence(map[string]any{
		"cleared": true,
	}, err))
}
