package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/logging"
	"github.com/giygas/emergency-reference/scoring"
	"github.com/giygas/emergency-reference/search"
	"github.com/giygas/emergency-reference/suggest"
	"github.com/giygas/emergency-reference/userstate"
)

// ConditionSummary is a list row: the record plus what the user added to it.
type ConditionSummary struct {
	entities.Condition
	Severity   entities.Severity `json:"severity"`
	IsFavorite bool              `json:"isFavorite"`
	HasNote    bool              `json:"hasNote"`
}

// RelatedCondition is a compact link to another condition.
type RelatedCondition struct {
	ID        int                `json:"id"`
	Condition string             `json:"condition"`
	Specialty entities.Specialty `json:"specialty"`
	Severity  entities.Severity  `json:"severity"`
}

// ConditionDetail is the expanded view of one condition.
type ConditionDetail struct {
	ConditionSummary
	Note      string                  `json:"note"`
	AdultDose string                  `json:"adultDose"`
	PedsDose  string                  `json:"pedsDose,omitempty"`
	Tools     []scoring.Tool          `json:"tools"`
	Alerts    []scoring.Alert         `json:"alerts"`
	Related   []RelatedCondition      `json:"related"`
	Flags     map[userstate.Flag]bool `json:"flags"`
}

func (h *HTTPHandlerImpl) summarize(c *entities.Condition) ConditionSummary {
	return ConditionSummary{
		Condition:  *c,
		Severity:   c.Severity(),
		IsFavorite: h.state.IsFavorite(c.ID),
		HasNote:    h.state.HasNote(c.ID),
	}
}

func (h *HTTPHandlerImpl) summarizeAll(conditions []entities.Condition) []ConditionSummary {
	out := make([]ConditionSummary, len(conditions))
	for i := range conditions {
		out[i] = h.summarize(&conditions[i])
	}
	return out
}

// criteriaFromQuery reads the filter parameters, rejecting unknown values.
func (h *HTTPHandlerImpl) criteriaFromQuery(r *http.Request) (search.Criteria, string) {
	q := r.URL.Query()
	crit := search.Criteria{}.Cleared()
	crit.Query = q.Get("q")
	for param, dst := range map[string]*string{
		"specialty": &crit.Specialty,
		"ageGroup":  &crit.AgeGroup,
		"severity":  &crit.Severity,
	} {
		if v := q.Get(param); v != "" {
			*dst = v
		}
	}

	if strings.TrimSpace(crit.Query) != "" {
		if err := h.validator.ValidateInput(crit.Query); err != nil {
			return crit, err.Error()
		}
	}
	if isFilterValue(crit.Specialty) && !entities.Specialty(crit.Specialty).Valid() {
		return crit, "Unknown specialty"
	}
	if isFilterValue(crit.AgeGroup) && !entities.AgeGroup(crit.AgeGroup).Valid() {
		return crit, "Unknown age group"
	}
	if isFilterValue(crit.Severity) && !entities.Severity(crit.Severity).Valid() {
		return crit, "Unknown severity"
	}
	if raw := q.Get("favoritesOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return crit, "favoritesOnly must be true or false"
		}
		crit.FavoritesOnly = v
	}
	return crit, ""
}

func isFilterValue(v string) bool {
	return v != "" && v != search.All
}

// ListConditions returns the conditions matching the filter parameters
func (h *HTTPHandlerImpl) ListConditions(w http.ResponseWriter, r *http.Request) {
	crit, problem := h.criteriaFromQuery(r)
	if problem != "" {
		logging.Warn("Unusual user input", "query", r.URL.RawQuery, "problem", problem)
		h.RespondWithError(w, http.StatusBadRequest, problem)
		return
	}

	results := h.engine.Filter(crit)
	h.RespondWithJSON(w, http.StatusOK, map[string]any{
		"data":             h.summarizeAll(results),
		"total":            len(results),
		"datasetSize":      len(h.dataStore.GetConditions()),
		"hasActiveFilters": crit.HasActiveFilters(),
	})
}

// GetCondition returns the detail view of one condition
func (h *HTTPHandlerImpl) GetCondition(w http.ResponseWriter, r *http.Request) {
	c, ok := h.conditionFromRequest(w, r)
	if !ok {
		return
	}

	related := search.Related(h.dataStore.GetConditions(), c)
	links := make([]RelatedCondition, len(related))
	for i, rc := range related {
		links[i] = RelatedCondition{ID: rc.ID, Condition: rc.Condition, Specialty: rc.Specialty, Severity: rc.Severity()}
	}

	detail := ConditionDetail{
		ConditionSummary: h.summarize(c),
		Note:             h.state.Note(c.ID),
		AdultDose:        c.AdultTreatment.DisplayDose(false),
		Tools:            scoring.RelevantTools(c.Condition),
		Alerts:           scoring.AlertsFor(c.Condition),
		Related:          links,
		Flags:            h.state.Flags.Snapshot(c.ID),
	}
	if c.PedsTreatment != nil {
		detail.PedsDose = c.PedsTreatment.DisplayDose(true)
	}

	h.RespondWithJSON(w, http.StatusOK, detail)
}

// CriticalConditions returns the quick-access list
func (h *HTTPHandlerImpl) CriticalConditions(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, h.summarizeAll(search.MostCritical(h.dataStore.GetConditions())))
}

// ListSpecialties returns the specialty filter options
func (h *HTTPHandlerImpl) ListSpecialties(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, search.Specialties(h.dataStore.GetConditions()))
}

// Suggestions returns the autocomplete list for the q parameter
func (h *HTTPHandlerImpl) Suggestions(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) != "" {
		if err := h.validator.ValidateInput(query); err != nil {
			h.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	h.RespondWithJSON(w, http.StatusOK, suggest.Suggest(h.dataStore.GetConditions(), query, h.state.RecentSearches()))
}
