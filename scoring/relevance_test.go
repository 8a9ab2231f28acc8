package scoring

import (
	"reflect"
	"testing"
)

func TestRelevantTools(t *testing.T) {
	tests := []struct {
		name string
		want []Tool
	}{
		{"Bacterial Meningitis", []Tool{ToolAllergies, ToolGCS}},
		{"Community-Acquired Pneumonia", []Tool{ToolAllergies, ToolGCS, ToolCURB65}},
		{"Sepsis", []Tool{ToolAllergies, ToolGCS, ToolQSOFA, ToolSOFA}},
		{"Pulmonary Embolism", []Tool{ToolAllergies, ToolGCS, ToolWellsPE}},
		{"Appendicitis", []Tool{ToolAllergies, ToolGCS, ToolWellsPE}},
		{"Acute Ischemic Stroke", []Tool{ToolAllergies, ToolGCS, ToolNIHSS, ToolCHA2DS2VASc}},
		{"Heart Failure", []Tool{ToolAllergies, ToolGCS, ToolCHA2DS2VASc}},
		{"Cardiac stroke", []Tool{ToolAllergies, ToolGCS, ToolNIHSS, ToolCHA2DS2VASc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RelevantTools(tt.name); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RelevantTools(%q) = %v, want %v", tt.name, got, tt.want)
			}
		})
	}
}

func TestAllergyAlternatives(t *testing.T) {
	got := AllergyAlternatives(map[Allergy]bool{
		AllergyContrast:   true,
		AllergyPenicillin: true,
		AllergySulfa:      false,
		Allergy("latex"):  true,
	})
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(got), got)
	}
	if got[0].Allergy != AllergyPenicillin || got[1].Allergy != AllergyContrast {
		t.Errorf("order = %s, %s", got[0].Allergy, got[1].Allergy)
	}
	if got[0].Label != "Penicillin" || len(got[0].Alternatives) != 4 || got[0].Alternatives[0] != "Cephalexin (if no cross-reactivity)" {
		t.Errorf("penicillin entry = %+v", got[0])
	}

	got[0].Alternatives[0] = "changed"
	if again := AllergyAlternatives(map[Allergy]bool{AllergyPenicillin: true}); again[0].Alternatives[0] == "changed" {
		t.Error("returned alternatives alias the static table")
	}

	if none := AllergyAlternatives(nil); none == nil || len(none) != 0 {
		t.Errorf("no selection = %#v", none)
	}
}

func TestAlertsFor(t *testing.T) {
	tests := []struct {
		name     string
		messages []string
	}{
		{"Bacterial Meningitis", nil},
		{"Acute Asthma Exacerbation", []string{
			"Avoid beta-blockers - can trigger severe bronchospasm",
			"Monitor peak flow, oxygen saturation, and arterial blood gases",
		}},
		{"Acute Ischemic Stroke", []string{
			"Time is brain! Consider thrombolysis within 4.5 hours",
			"Check for bleeding contraindications before thrombolysis",
		}},
		{"Hypertensive Emergency", []string{
			"Check bleeding risk before anticoagulation",
			"Monitor for signs of massive PE requiring thrombolysis",
		}},
		{"Diabetic Ketoacidosis", []string{
			"Frequent glucose, electrolytes, and ketone monitoring",
			"Avoid rapid glucose correction - risk of cerebral edema",
		}},
		{"Sepsis after cardiac surgery", []string{
			"Check renal function before ACE inhibitors/ARBs",
			"Serial ECGs and cardiac enzymes required",
			"Hour-1 bundle: Blood cultures, lactate, antibiotics, fluids",
			"Serial lactate levels and organ function assessment",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AlertsFor(tt.name)
			if len(got) != len(tt.messages) {
				t.Fatalf("got %d alerts, want %d: %+v", len(got), len(tt.messages), got)
			}
			for i, msg := range tt.messages {
				if got[i].Message != msg {
					t.Errorf("alert %d = %q, want %q", i, got[i].Message, msg)
				}
			}
		})
	}

	stroke := AlertsFor("stroke")
	if stroke[0].Type != AlertTimeCritical || stroke[0].Severity != SeverityCritical {
		t.Errorf("stroke alert = %+v", stroke[0])
	}
}
