package entities

// Specialty classifies a condition by owning service.
type Specialty string

const (
	SpecialtyInternalMedicine Specialty = "Internal Medicine"
	SpecialtySurgery          Specialty = "Surgery"
	SpecialtyPediatrics       Specialty = "Pediatrics"
	SpecialtyObstetrics       Specialty = "Obstetrics"
	SpecialtyGynecology       Specialty = "Gynecology"
	SpecialtyEmergency        Specialty = "Emergency"
	SpecialtyCriticalCare     Specialty = "Critical Care"
	SpecialtyNeurology        Specialty = "Neurology"
)

// Specialties lists every valid specialty.
var Specialties = []Specialty{
	SpecialtyInternalMedicine,
	SpecialtySurgery,
	SpecialtyPediatrics,
	SpecialtyObstetrics,
	SpecialtyGynecology,
	SpecialtyEmergency,
	SpecialtyCriticalCare,
	SpecialtyNeurology,
}

// Valid reports whether s is one of the known specialties.
func (s Specialty) Valid() bool {
	for _, known := range Specialties {
		if s == known {
			return true
		}
	}
	return false
}

// AgeGroup is the population a condition entry applies to.
type AgeGroup string

const (
	AgeGroupAdult     AgeGroup = "Adult"
	AgeGroupPediatric AgeGroup = "Pediatric"
	AgeGroupBoth      AgeGroup = "Both"
)

// Valid reports whether a is a known age group.
func (a AgeGroup) Valid() bool {
	return a == AgeGroupAdult || a == AgeGroupPediatric || a == AgeGroupBoth
}

// IncludesPediatric is true for Pediatric and Both.
func (a AgeGroup) IncludesPediatric() bool {
	return a == AgeGroupPediatric || a == AgeGroupBoth
}

// Severity is a band over order ranks. Lower ranks are more critical.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityModerate Severity = "Moderate"
	SeverityLow      Severity = "Low"
)

// Rank ceilings for each band.
const (
	CriticalMaxRank = 5
	HighMaxRank     = 15
	ModerateMaxRank = 50
)

// SeverityForRank bands an order rank: Critical ≤5, High ≤15, Moderate ≤50,
// Low above.
func SeverityForRank(rank int) Severity {
	switch {
	case rank <= CriticalMaxRank:
		return SeverityCritical
	case rank <= HighMaxRank:
		return SeverityHigh
	case rank <= ModerateMaxRank:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

// Valid reports whether s is a known band.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityModerate, SeverityLow:
		return true
	}
	return false
}

// Admits reports whether a condition with the given rank passes a severity
// filter set to s. Thresholds are cumulative: High admits every rank up to
// 15, Critical ones included.
func (s Severity) Admits(rank int) bool {
	switch s {
	case SeverityCritical:
		return rank <= CriticalMaxRank
	case SeverityHigh:
		return rank <= HighMaxRank
	case SeverityModerate:
		return rank <= ModerateMaxRank
	case SeverityLow:
		return rank > ModerateMaxRank
	}
	return false
}
