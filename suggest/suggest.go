// Package suggest builds the search-box autocomplete list and tracks the
// keyboard selection in it.
package suggest

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/metrics"
)

// Type tags where a suggestion came from.
type Type string

const (
	TypeCondition Type = "condition"
	TypeICD10     Type = "icd10"
	TypeDrug      Type = "drug"
	TypeKeyword   Type = "keyword"
	TypeRecent    Type = "recent"
)

const (
	// MinQueryLength is the trimmed length below which recent searches are
	// offered instead of dataset matches.
	MinQueryLength = 2
	MaxRecent      = 5
	MaxSuggestions = 8
)

// Suggestion is one autocomplete entry. Value is what gets written into the
// search box when the entry is picked; Label is what is displayed.
type Suggestion struct {
	Type        Type               `json:"type"`
	Value       string             `json:"value"`
	Label       string             `json:"label"`
	ConditionID int                `json:"conditionId,omitempty"`
	Specialty   entities.Specialty `json:"specialty,omitempty"`
	ICD10Code   string             `json:"icd10Code,omitempty"`
}

func fromCondition(t Type, value, label string, c *entities.Condition) Suggestion {
	return Suggestion{
		Type:        t,
		Value:       value,
		Label:       label,
		ConditionID: c.ID,
		Specialty:   c.Specialty,
		ICD10Code:   c.ICD10Code,
	}
}

// Suggest returns the suggestions for query. Short queries list up to
// MaxRecent recent searches; longer ones match condition names, ICD-10
// codes, drug names and keywords, in that order, deduplicated by type and
// value and capped at MaxSuggestions.
func Suggest(conditions []entities.Condition, query string, recent []string) []Suggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		metrics.SuggestionRequests.WithLabelValues("recent").Inc()
		return recentSuggestions(recent)
	}
	metrics.SuggestionRequests.WithLabelValues("dataset").Inc()

	needle := fold(query)
	candidates := make([]Suggestion, 0, MaxSuggestions)

	for i := range conditions {
		c := &conditions[i]
		if strings.Contains(fold(c.Condition), needle) {
			candidates = append(candidates, fromCondition(TypeCondition, c.Condition, c.Condition, c))
		}
	}
	for i := range conditions {
		c := &conditions[i]
		if strings.Contains(fold(c.ICD10Code), needle) {
			candidates = append(candidates, fromCondition(TypeICD10, c.ICD10Code, c.ICD10Code+" - "+c.Condition, c))
		}
	}
	for i := range conditions {
		c := &conditions[i]
		if drug := c.AdultTreatment.DrugName; drug != "" && strings.Contains(fold(drug), needle) {
			candidates = append(candidates, fromCondition(TypeDrug, drug, drug+" (for "+c.Condition+")", c))
		}
		if c.PedsTreatment == nil {
			continue
		}
		if drug := c.PedsTreatment.DrugName; drug != "" && strings.Contains(fold(drug), needle) {
			candidates = append(candidates, fromCondition(TypeDrug, drug, drug+" (pediatric for "+c.Condition+")", c))
		}
	}
	for i := range conditions {
		c := &conditions[i]
		for _, kw := range c.Keywords {
			if strings.Contains(fold(kw), needle) {
				candidates = append(candidates, fromCondition(TypeKeyword, kw, kw+" (related to "+c.Condition+")", c))
			}
		}
	}

	return dedupe(candidates, MaxSuggestions)
}

func recentSuggestions(recent []string) []Suggestion {
	n := min(len(recent), MaxRecent)
	out := make([]Suggestion, 0, n)
	for _, r := range recent[:n] {
		out = append(out, Suggestion{Type: TypeRecent, Value: r, Label: r})
	}
	return out
}

type dedupeKey struct {
	t     Type
	value string
}

// dedupe keeps the first suggestion for each (type, value) pair.
func dedupe(in []Suggestion, limit int) []Suggestion {
	seen := make(map[dedupeKey]struct{}, len(in))
	out := make([]Suggestion, 0, min(len(in), limit))
	for _, s := range in {
		k := dedupeKey{s.Type, s.Value}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
