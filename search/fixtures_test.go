package search

import (
	"time"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/interfaces"
)

func fixtureConditions() []entities.Condition {
	return []entities.Condition{
		{
			ID: 1, OrderRank: 1, Condition: "Sepsis / Septic Shock", ICD10Code: "A41.9", Abbrev: "Sepsis",
			Specialty: entities.SpecialtyCriticalCare, AgeGroup: entities.AgeGroupBoth,
			Presentation:   "Fever, hypotension and altered mental status",
			Differentials:  []string{"Anaphylaxis", "Cardiogenic shock"},
			Keywords:       []string{"infection", "shock", "lactate"},
			AdultTreatment: entities.Treatment{DrugName: "Piperacillin-Tazobactam"},
			PedsTreatment:  &entities.Treatment{DrugName: "Ceftriaxone"},
		},
		{
			ID: 3, OrderRank: 3, Condition: "Acute Ischemic Stroke", ICD10Code: "I63.9", Abbrev: "CVA",
			Specialty: entities.SpecialtyNeurology, AgeGroup: entities.AgeGroupAdult,
			Presentation:   "Sudden focal neurological deficit",
			Differentials:  []string{"Hypoglycemia", "Todd paresis"},
			Keywords:       []string{"stroke", "thrombolysis"},
			AdultTreatment: entities.Treatment{DrugName: "Alteplase"},
		},
		{
			ID: 6, OrderRank: 6, Condition: "Status Epilepticus", ICD10Code: "G41.9", Abbrev: "SE",
			Specialty: entities.SpecialtyNeurology, AgeGroup: entities.AgeGroupBoth,
			Presentation:   "Continuous seizure activity",
			Keywords:       []string{"seizure"},
			AdultTreatment: entities.Treatment{DrugName: "Lorazepam"},
			PedsTreatment:  &entities.Treatment{DrugName: "Midazolam"},
		},
		{
			ID: 11, OrderRank: 12, Condition: "Community-Acquired Pneumonia", ICD10Code: "J18.9", Abbrev: "CAP",
			Specialty: entities.SpecialtyInternalMedicine, AgeGroup: entities.AgeGroupBoth,
			Presentation:   "Cough, fever and focal crackles",
			Keywords:       []string{"infection", "cough"},
			AdultTreatment: entities.Treatment{DrugName: "Amoxicillin"},
		},
		{
			ID: 16, OrderRank: 40, Condition: "Croup", ICD10Code: "J05.0", Abbrev: "Croup",
			Specialty: entities.SpecialtyPediatrics, AgeGroup: entities.AgeGroupPediatric,
			Presentation:   "Barking cough and stridor",
			Keywords:       []string{"stridor", "cough"},
			AdultTreatment: entities.Treatment{DrugName: "Dexamethasone"},
		},
		{
			ID: 18, OrderRank: 75, Condition: "Migraine", ICD10Code: "G43.909", Abbrev: "Migraine",
			Specialty: entities.SpecialtyNeurology, AgeGroup: entities.AgeGroupBoth,
			Presentation:   "Unilateral throbbing headache",
			Keywords:       []string{"headache"},
			AdultTreatment: entities.Treatment{DrugName: "Metoclopramide"},
		},
	}
}

// mockDataStore serves a fixed snapshot.
type mockDataStore struct {
	conditions []entities.Condition
	revision   string
}

func (m *mockDataStore) GetConditions() []entities.Condition { return m.conditions }
func (m *mockDataStore) GetConditionsMap() map[int]*entities.Condition {
	out := make(map[int]*entities.Condition)
	for i := range m.conditions {
		out[m.conditions[i].ID] = &m.conditions[i]
	}
	return out
}
func (m *mockDataStore) GetRevision() string { return m.revision }
func (m *mockDataStore) GetLastUpdated() time.Time { return time.Time{} }
func (m *mockDataStore) GetReport() *interfaces.DataQualityReport { return nil }
func (m *mockDataStore) IsUpdating() bool { return false }
func (m *mockDataStore) UpdateData(interfaces.Dataset, *interfaces.DataQualityReport) {}
func (m *mockDataStore) BeginUpdate() bool { return true }
func (m *mockDataStore) EndUpdate() {}

// mockAnnotations is a plain notes map and favorites list.
type mockAnnotations struct {
	notes     map[int]string
	favorites []int
	revision  uint64
}

func newMockAnnotations() *mockAnnotations {
	return &mockAnnotations{notes: map[int]string{}}
}

func (m *mockAnnotations) Note(id int) string { return m.notes[id] }
func (m *mockAnnotations) IsFavorite(id int) bool {
	for _, f := range m.favorites {
		if f == id {
			return true
		}
	}
	return false
}
func (m *mockAnnotations) FavoriteIDs() []int { return m.favorites }
func (m *mockAnnotations) NotesRevision() uint64 { return m.revision }
func (m *mockAnnotations) setNote(id int, s string) {
	m.notes[id] = s
	m.revision++
}

func ids(conditions []entities.Condition) []int {
	out := make([]int, len(conditions))
	for i, c := range conditions {
		out[i] = c.ID
	}
	return out
}
