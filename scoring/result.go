// Package scoring implements the bedside clinical scores offered next to a
// condition, plus the static allergy and alert tables shown with them.
//
// Every calculator is a pure function of its inputs; recommendations and
// display colors come from fixed per-tier tables.
package scoring

// Risk is the tier a score falls in.
type Risk string

const (
	RiskLow      Risk = "Low"
	RiskModerate Risk = "Moderate"
	RiskHigh     Risk = "High"
)

// Display color classes per tier.
const (
	ColorLow      = "text-green-600 bg-green-50 border-green-200"
	ColorModerate = "text-yellow-600 bg-yellow-50 border-yellow-200"
	ColorHigh     = "text-red-600 bg-red-50 border-red-200"
)

// Result is the outcome of one scoring tool.
type Result struct {
	Tool           Tool    `json:"tool"`
	Score          float64 `json:"score"`
	Risk           Risk    `json:"risk"`
	Recommendation string  `json:"recommendation"`
	Color          string  `json:"color"`
}

type outcome struct {
	risk           Risk
	recommendation string
	color          string
}

func (o outcome) result(tool Tool, score float64) Result {
	return Result{
		Tool:           tool,
		Score:          score,
		Risk:           o.risk,
		Recommendation: o.recommendation,
		Color:          o.color,
	}
}

var curb65Outcomes = map[Risk]outcome{
	RiskLow:      {RiskLow, "Consider outpatient treatment. Low risk of mortality (<3%).", ColorLow},
	RiskModerate: {RiskModerate, "Consider short inpatient stay or supervised outpatient treatment. Moderate risk (3-15%).", ColorModerate},
	RiskHigh:     {RiskHigh, "Severe pneumonia. Consider ICU admission. High mortality risk (>15%).", ColorHigh},
}

var qsofaOutcomes = map[Risk]outcome{
	RiskLow:  {RiskLow, "Low risk for sepsis. Continue monitoring.", ColorLow},
	RiskHigh: {RiskHigh, "High risk for sepsis. Consider ICU evaluation and immediate intervention.", ColorHigh},
}

var gcsOutcomes = map[Risk]outcome{
	RiskLow:      {RiskLow, "Mild brain injury. Monitor closely.", ColorLow},
	RiskModerate: {RiskModerate, "Moderate brain injury. Consider CT scan and neurosurgical consultation.", ColorModerate},
	RiskHigh:     {RiskHigh, "Severe brain injury. Immediate neurosurgical consultation and ICU care.", ColorHigh},
}

var wellsPEOutcomes = map[Risk]outcome{
	RiskLow:  {RiskLow, "PE unlikely. Consider D-dimer. If negative, PE ruled out.", ColorLow},
	RiskHigh: {RiskHigh, "PE likely. Proceed directly to CTPA or V/Q scan.", ColorHigh},
}

// Keyed by score, with everything from 2 up sharing the last entry. Scores
// 0 and 1 are both low risk and differ only in advice.
var chadsVascOutcomes = map[int]outcome{
	0: {RiskLow, "No anticoagulation recommended. Annual stroke risk <1%.", ColorLow},
	1: {RiskLow, "Consider anticoagulation. Annual stroke risk 1-2%.", ColorModerate},
	2: {RiskHigh, "Anticoagulation recommended. Annual stroke risk >2%.", ColorHigh},
}

var nihssOutcomes = map[Risk]outcome{
	RiskLow:      {RiskLow, "Minor stroke. Consider outpatient management with close follow-up.", ColorLow},
	RiskModerate: {RiskModerate, "Moderate stroke. Admit for monitoring and rehabilitation.", ColorModerate},
	RiskHigh:     {RiskHigh, "Severe stroke. Consider ICU care and aggressive intervention.", ColorHigh},
}

var sofaOutcomes = map[Risk]outcome{
	RiskLow:      {RiskLow, "Low mortality risk (<10%). Continue monitoring.", ColorLow},
	RiskModerate: {RiskModerate, "Moderate mortality risk (15-20%). Consider ICU care.", ColorModerate},
	RiskHigh:     {RiskHigh, "High mortality risk (>40%). Intensive care required.", ColorHigh},
}
