package search

import (
	"github.com/giygas/emergency-reference/conditionsparser/entities"
)

// All disables the filter it is assigned to.
const All = "All"

// Criteria is one filter combination. Empty strings behave like All.
type Criteria struct {
	Query         string `json:"query"`
	Specialty     string `json:"specialty"`
	AgeGroup      string `json:"ageGroup"`
	Severity      string `json:"severity"`
	FavoritesOnly bool   `json:"favoritesOnly"`
}

func active(v string) bool {
	return v != "" && v != All
}

// HasActiveFilters reports whether anything narrows the list.
func (c Criteria) HasActiveFilters() bool {
	return c.Query != "" || active(c.Specialty) || active(c.AgeGroup) || active(c.Severity) || c.FavoritesOnly
}

// Cleared returns the criteria with every filter reset.
func (c Criteria) Cleared() Criteria {
	return Criteria{Specialty: All, AgeGroup: All, Severity: All}
}

// admits applies the structured filters (everything except the query).
func (c Criteria) admits(cond *entities.Condition, isFavorite func(int) bool) bool {
	if active(c.Specialty) && string(cond.Specialty) != c.Specialty {
		return false
	}
	if active(c.AgeGroup) && string(cond.AgeGroup) != c.AgeGroup {
		return false
	}
	if active(c.Severity) && !entities.Severity(c.Severity).Admits(cond.OrderRank) {
		return false
	}
	if c.FavoritesOnly && !isFavorite(cond.ID) {
		return false
	}
	return true
}
