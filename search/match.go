// Package search filters the condition dataset by free text and structured
// criteria, memoizes filter results, and derives related and quick-access
// lists.
package search

import (
	"strings"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"golang.org/x/text/unicode/norm"
)

// MatchesSearch reports whether query occurs, ignoring case, in the name,
// presentation, a differential, a keyword, the adult or pediatric drug, the
// ICD-10 code, the abbreviation, or the user's note. The query is not
// trimmed; an empty query matches everything.
func MatchesSearch(c *entities.Condition, query, note string) bool {
	if query == "" {
		return true
	}
	q := foldQuery(query)
	contains := func(s string) bool {
		return s != "" && strings.Contains(strings.ToLower(s), q)
	}

	if contains(c.Condition) || contains(c.Presentation) {
		return true
	}
	for _, d := range c.Differentials {
		if contains(d) {
			return true
		}
	}
	for _, k := range c.Keywords {
		if contains(k) {
			return true
		}
	}
	if contains(c.AdultTreatment.DrugName) {
		return true
	}
	if c.PedsTreatment != nil && contains(c.PedsTreatment.DrugName) {
		return true
	}
	return contains(c.ICD10Code) || contains(c.Abbrev) || contains(note)
}

// foldQuery lower-cases the query and composes accents the same way the
// dataset text was composed at load time.
func foldQuery(q string) string {
	return strings.ToLower(norm.NFC.String(q))
}
