package handlers

import (
	"net/http"
	"unicode/utf8"

	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/userstate"
	"github.com/go-chi/chi/v5"
)

// maxNoteLength caps a single note, in runes.
const maxNoteLength = 10000

// ListNotes returns every note keyed by condition id
func (h *HTTPHandlerImpl) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes := h.state.Notes()
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"notes": notes,
		"total": h.state.Stats().Notes,
	})
}

// GetNote returns the note of one condition and its saving indicator
func (h *HTTPHandlerImpl) GetNote(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conditionFromRequest(w, r)
	if !ok {
		return
	}
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"id":     c.ID,
		"note":   h.state.Note(c.ID),
		"saving": h.state.Flags.Get(userstate.FlagNotesSaving, c.ID),
	})
}

// PutNote replaces the note of one condition. An empty note clears it.
func (h *HTTPHandlerImpl) PutNote(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conditionFromRequest(w, r)
	if !ok {
		return
	}
	var req struct {
		Note *string `json:"note"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Note == nil {
		h.RespondWithError(w, http.StatusBadRequest, "Missing note field")
		return
	}
	if utf8.RuneCountInString(*req.Note) > maxNoteLength {
		h.RespondWithError(w, http.StatusBadRequest, "Note too long")
		return
	}

	err := h.state.SetNote(r.Context(), c.ID, *req.Note)
	if err != nil {
		logging.Error("Failed to persist note", "id", c.ID, "error", err)
	}
	h.RespondWithJSON(w, http.StatusOK, persistence(map[string]any{
		"id":     c.ID,
		"note":   h.state.Note(c.ID),
		"saving": h.state.Flags.Get(userstate.FlagNotesSaving, c.ID),
	}, err))
}

// ListFavorites returns the favorite condition ids in the order they were added
func (h *HTTPHandlerImpl) ListFavorites(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"favorites": h.state.FavoriteIDs(),
	})
}

// ToggleFavorite flips the favorite state of one condition
func (h *HTTPHandlerImpl) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conditionFromRequest(w, r)
	if !ok {
		return
	}

	favorite, err := h.state.ToggleFavorite(r.Context(), c.ID)
	if err != nil {
		logging.Error("Failed to persist favorites", "id", c.ID, "error", err)
	}
	h.RespondWithJSON(w, http.StatusOK, persistence(map[string]any{
		"id":       c.ID,
		"favorite": favorite,
	}, err))
}

// ListRecentSearches returns the recent searches, newest first
func (h *HTTPHandlerImpl) ListRecentSearches(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"recentSearches": h.state.RecentSearches(),
	})
}

// PushRecentSearch records a submitted query
func (h *HTTPHandlerImpl) PushRecentSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if err := h.validator.ValidateInput(req.Query); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	pushed, err := h.state.PushRecentSearch(r.Context(), req.Query)
	if err != nil {
		logging.Error("Failed to persist recent searches", "error", err)
	}
	h.RespondWithJSON(w, http.StatusOK, persistence(map[string]any{
		"pushed":         pushed,
		"recentSearches": h.state.RecentSearches(),
	}, err))
}

// ClearRecentSearches empties the recent search list
func (h *HTTPHandlerImpl) ClearRecentSearches(w http.ResponseWriter, r *http.Request) {
	err := h.state.ClearRecentSearches(r.Context())
	if err != nil {
		logging.Error("Failed to persist recent searches", "error", err)
	}
	h.RespondWithJSON(w, http.StatusOK, persistence(map[string]any{
		"recentSearches": h.state.RecentSearches(),
	}, err))
}

// ToggleUIFlag flips an expanded-section flag of one condition
func (h *HTTPHandlerImpl) ToggleUIFlag(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conditionFromRequest(w, r)
	if !ok {
		return
	}
	flag, err := userstate.ParseToggleFlag(chi.URLParam(r, "flag"))
	if err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"id":    c.ID,
		"flag":  flag,
		"value": h.state.Flags.Toggle(flag, c.ID),
	})
}
