package handlers

import (
	"net/http"
	"strings"

	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/suggest"
)

// Navigation events accepted by NavigateSuggestions.
const (
	NavFocus   = "focus"
	NavChange  = "change"
	NavDown    = "down"
	NavUp      = "up"
	NavEnter   = "enter"
	NavPick    = "pick"
	NavEscape  = "escape"
	NavOutside = "outside"
)

// NavigationRequest is one input event of the search box. Query is read by
// focus and change, Index by pick.
type NavigationRequest struct {
	Event string `json:"event"`
	Query string `json:"query,omitempty"`
	Index int    `json:"index,omitempty"`
}

// NavigationResponse is the dropdown state after the event. Committed is set
// when the event selected a suggestion.
type NavigationResponse struct {
	Open        bool                 `json:"open"`
	Selected    int                  `json:"selected"`
	Suggestions []suggest.Suggestion `json:"suggestions"`
	Committed   *suggest.Suggestion  `json:"committed,omitempty"`
}

// NavigateSuggestions applies a keyboard or pointer event to the suggestion
// dropdown. A committed suggestion is recorded as a recent search.
func (h *HTTPHandlerImpl) NavigateSuggestions(w http.ResponseWriter, r *http.Request) {
	var req NavigationRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	if req.Event == NavFocus || req.Event == NavChange {
		if strings.TrimSpace(req.Query) != "" {
			if err := h.validator.ValidateInput(req.Query); err != nil {
				h.RespondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
		}
	}

	h.navMu.Lock()
	defer h.navMu.Unlock()

	nav := h.navigator
	var (
		committed suggest.Suggestion
		ok        bool
	)
	switch req.Event {
	case NavFocus:
		nav.SetSuggestions(h.suggestionsFor(req.Query))
		nav.Focus()
	case NavChange:
		nav.Change(h.suggestionsFor(req.Query))
	case NavDown:
		nav.Down()
	case NavUp:
		nav.Up()
	case NavEnter:
		committed, ok = nav.Enter()
	case NavPick:
		committed, ok = nav.Pick(req.Index)
	case NavEscape:
		nav.Escape()
	case NavOutside:
		nav.OutsideClick()
	default:
		h.RespondWithError(w, http.StatusBadRequest, "Unknown navigation event")
		return
	}

	resp := NavigationResponse{
		Open:        nav.IsOpen(),
		Selected:    nav.Selected(),
		Suggestions: nav.Suggestions(),
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []suggest.Suggestion{}
	}
	if ok {
		resp.Committed = &committed
		if _, err := h.state.PushRecentSearch(r.Context(), committed.Value); err != nil {
			logging.Error("Failed to persist recent searches", "error", err)
		}
	}
	h.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *HTTPHandlerImpl) suggestionsFor(query string) []suggest.Suggestion {
	return suggest.Suggest(h.dataStore.GetConditions(), query, h.state.RecentSearches())
}
