package entities

import "strings"

// Treatment is one drug regimen attached to a condition. Dose fields are
// display strings; DoseMgPerKg and MaxDose carry a number somewhere in
// the text ("5 mg/kg", "max 150 mg").
type Treatment struct {
	DrugName    string  `json:"drugName"`
	DrugClass   string  `json:"drugClass"`
	Dose        string  `json:"dose,omitempty"`
	DoseMgPerKg string  `json:"doseMgPerKg,omitempty"`
	MaxDose     *string `json:"maxDose,omitempty"`
	Route       string  `json:"route"`
	Frequency   string  `json:"frequency"`
	Duration    *string `json:"duration,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// MaxDoseText returns the max dose string or "" when absent.
func (t Treatment) MaxDoseText() string {
	if t.MaxDose == nil {
		return ""
	}
	return *t.MaxDose
}

// DurationText returns the duration string or "" when absent.
func (t Treatment) DurationText() string {
	if t.Duration == nil {
		return ""
	}
	return *t.Duration
}

// DisplayDose is the dose line shown for the treatment. The pediatric view
// prefers the weight-based dose and appends the ceiling.
func (t Treatment) DisplayDose(pediatric bool) string {
	dose := t.Dose
	if pediatric && t.DoseMgPerKg != "" {
		dose = t.DoseMgPerKg
	}
	if dose == "" {
		return ""
	}
	if pediatric && strings.TrimSpace(t.MaxDoseText()) != "" {
		return dose + " (max " + t.MaxDoseText() + ")"
	}
	return dose
}
