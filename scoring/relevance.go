package scoring

import (
	"slices"
	"strings"
)

// RelevantTools returns the panels to surface for a condition, matched on
// its lowercased name. The allergy checklist and GCS always come first.
func RelevantTools(conditionName string) []Tool {
	name := strings.ToLower(conditionName)
	tools := []Tool{ToolAllergies, ToolGCS}

	if strings.Contains(name, "pneumonia") {
		tools = append(tools, ToolCURB65)
	}
	if strings.Contains(name, "sepsis") {
		tools = append(tools, ToolQSOFA, ToolSOFA)
	}
	// "pe" also catches unrelated names such as "appendicitis"
	if strings.Contains(name, "embolism") || strings.Contains(name, "pe") {
		tools = append(tools, ToolWellsPE)
	}
	if strings.Contains(name, "stroke") {
		tools = append(tools, ToolNIHSS, ToolCHA2DS2VASc)
	}
	if strings.Contains(name, "heart") || strings.Contains(name, "cardiac") {
		tools = append(tools, ToolCHA2DS2VASc)
	}

	return compactTools(tools)
}

func compactTools(tools []Tool) []Tool {
	out := make([]Tool, 0, len(tools))
	for _, t := range tools {
		if !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}

// Allergy is a drug allergy category on the cross-reference checklist.
type Allergy string

const (
	AllergyPenicillin Allergy = "penicillin"
	AllergySulfa      Allergy = "sulfa"
	AllergyNSAIDs     Allergy = "nsaids"
	AllergyOpioids    Allergy = "opioids"
	AllergyContrast   Allergy = "contrast"
)

// Allergies lists the checklist categories in display order.
var Allergies = []Allergy{AllergyPenicillin, AllergySulfa, AllergyNSAIDs, AllergyOpioids, AllergyContrast}

var allergyLabels = map[Allergy]string{
	AllergyPenicillin: "Penicillin",
	AllergySulfa:      "Sulfa",
	AllergyNSAIDs:     "NSAIDs",
	AllergyOpioids:    "Opioids",
	AllergyContrast:   "Contrast",
}

var allergyAlternatives = map[Allergy][]string{
	AllergyPenicillin: {"Cephalexin (if no cross-reactivity)", "Azithromycin", "Clindamycin", "Vancomycin"},
	AllergySulfa:      {"Avoid Bactrim, use Doxycycline", "Cephalexin", "Azithromycin"},
	AllergyNSAIDs:     {"Acetaminophen", "Topical analgesics", "Low-dose opioids if needed"},
	AllergyOpioids:    {"Acetaminophen", "NSAIDs (if not contraindicated)", "Tramadol", "Gabapentin"},
	AllergyContrast:   {"Pre-medication with steroids/antihistamines", "Use alternative imaging", "Non-contrast studies"},
}

// AllergyAlternative is the substitute list for one selected allergy.
type AllergyAlternative struct {
	Allergy      Allergy  `json:"allergy"`
	Label        string   `json:"label"`
	Alternatives []string `json:"alternatives"`
}

// AllergyAlternatives returns one entry per selected allergy, in checklist
// order. Unknown categories are ignored.
func AllergyAlternatives(selected map[Allergy]bool) []AllergyAlternative {
	out := make([]AllergyAlternative, 0, len(selected))
	for _, a := range Allergies {
		if !selected[a] {
			continue
		}
		out = append(out, AllergyAlternative{
			Allergy:      a,
			Label:        allergyLabels[a],
			Alternatives: slices.Clone(allergyAlternatives[a]),
		})
	}
	return out
}

// AlertType classifies a condition alert.
type AlertType string

const (
	AlertContraindication AlertType = "contraindication"
	AlertMonitoring       AlertType = "monitoring"
	AlertTimeCritical     AlertType = "time-critical"
)

// AlertSeverity ranks a condition alert.
type AlertSeverity string

const (
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a fixed warning attached to conditions whose name matches a rule.
type Alert struct {
	Type     AlertType     `json:"type"`
	Message  string        `json:"message"`
	Severity AlertSeverity `json:"severity"`
}

type alertRule struct {
	keywords []string
	alerts   []Alert
}

var alertRules = []alertRule{
	{
		keywords: []string{"asthma", "copd"},
		alerts: []Alert{
			{AlertContraindication, "Avoid beta-blockers - can trigger severe bronchospasm", SeverityHigh},
			{AlertMonitoring, "Monitor peak flow, oxygen saturation, and arterial blood gases", SeverityMedium},
		},
	},
	{
		keywords: []string{"heart", "cardiac", "coronary"},
		alerts: []Alert{
			{AlertContraindication, "Check renal function before ACE inhibitors/ARBs", SeverityHigh},
			{AlertMonitoring, "Serial ECGs and cardiac enzymes required", SeverityHigh},
		},
	},
	{
		keywords: []string{"stroke"},
		alerts: []Alert{
			{AlertTimeCritical, "Time is brain! Consider thrombolysis within 4.5 hours", SeverityCritical},
			{AlertContraindication, "Check for bleeding contraindications before thrombolysis", SeverityCritical},
		},
	},
	{
		keywords: []string{"sepsis"},
		alerts: []Alert{
			{AlertTimeCritical, "Hour-1 bundle: Blood cultures, lactate, antibiotics, fluids", SeverityCritical},
			{AlertMonitoring, "Serial lactate levels and organ function assessment", SeverityHigh},
		},
	},
	{
		keywords: []string{"embolism", "pe"},
		alerts: []Alert{
			{AlertContraindication, "Check bleeding risk before anticoagulation", SeverityHigh},
			{AlertMonitoring, "Monitor for signs of massive PE requiring thrombolysis", SeverityHigh},
		},
	},
	{
		keywords: []string{"diabetic", "dka", "hypoglycemia"},
		alerts: []Alert{
			{AlertMonitoring, "Frequent glucose, electrolytes, and ketone monitoring", SeverityHigh},
			{AlertContraindication, "Avoid rapid glucose correction - risk of cerebral edema", SeverityHigh},
		},
	},
}

// AlertsFor returns the alerts of every rule whose keywords appear in the
// lowercased condition name, in rule order.
func AlertsFor(conditionName string) []Alert {
	name := strings.ToLower(conditionName)
	out := make([]Alert, 0)
	for _, rule := range alertRules {
		if slices.ContainsFunc(rule.keywords, func(kw string) bool {
			return strings.Contains(name, kw)
		}) {
			out = append(out, rule.alerts...)
		}
	}
	return out
}
