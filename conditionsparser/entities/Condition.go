package entities

// Reference is a textbook citation backing a condition entry.
type Reference struct {
	Textbook string `json:"textbook"`
	Edition  string `json:"edition"`
	Chapter  string `json:"chapter"`
	Pages    string `json:"pages"`
}

// Condition is one entry of the bundled emergency reference dataset.
// Conditions are never mutated after loading.
type Condition struct {
	ID             int         `json:"id"`
	OrderRank      int         `json:"orderRank"`
	Condition      string      `json:"condition"`
	ICD10Code      string      `json:"icd10Code"`
	Abbrev         string      `json:"abbrev"`
	Specialty      Specialty   `json:"specialty"`
	SubSpecialty   *string     `json:"subSpecialty"`
	AgeGroup       AgeGroup    `json:"ageGroup"`
	Presentation   string      `json:"presentation"`
	Investigations string      `json:"investigations"`
	RedFlags       []string    `json:"redFlags"`
	Differentials  []string    `json:"differentials"`
	AdultTreatment Treatment   `json:"adultTreatment"`
	PedsTreatment  *Treatment  `json:"pedsTreatment"`
	Procedure      *string     `json:"procedure"`
	References     []Reference `json:"references"`
	WHOGuideline   *string     `json:"whoGuideline"`
	LastUpdated    string      `json:"lastUpdated"`
	Keywords       []string    `json:"keywords"`
}

// Severity returns the band derived from the order rank.
func (c Condition) Severity() Severity {
	return SeverityForRank(c.OrderRank)
}

// Treatment returns the adult or pediatric treatment. The pediatric one may
// be nil.
func (c *Condition) Treatment(pediatric bool) *Treatment {
	if pediatric {
		return c.PedsTreatment
	}
	return &c.AdultTreatment
}
