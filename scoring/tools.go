package scoring

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an ordinal sub-score is outside the range
// the scale defines.
var ErrOutOfRange = errors.New("score input out of range")

func checkRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("%w: %s must be between %d and %d, got %d", ErrOutOfRange, field, lo, hi, value)
	}
	return nil
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// CURB65Input holds the five CURB-65 criteria.
type CURB65Input struct {
	Confusion       bool `json:"confusion"`
	Urea            bool `json:"urea"`            // BUN > 19 mg/dL
	RespiratoryRate bool `json:"respiratoryRate"` // >= 30/min
	BloodPressure   bool `json:"bloodPressure"`   // SBP < 90 or DBP <= 60
	Age             bool `json:"age"`             // >= 65
}

// CURB65 scores community-acquired pneumonia severity.
func CURB65(in CURB65Input) Result {
	score := countTrue(in.Confusion, in.Urea, in.RespiratoryRate, in.BloodPressure, in.Age)
	risk := RiskHigh
	switch {
	case score <= 1:
		risk = RiskLow
	case score == 2:
		risk = RiskModerate
	}
	return curb65Outcomes[risk].result(ToolCURB65, float64(score))
}

// QSOFAInput holds the three quick SOFA criteria.
type QSOFAInput struct {
	AlteredMentation bool `json:"alteredMentation"`
	SystolicBP       bool `json:"systolicBP"`      // <= 100 mmHg
	RespiratoryRate  bool `json:"respiratoryRate"` // >= 22/min
}

// QSOFA screens for sepsis outside the ICU.
func QSOFA(in QSOFAInput) Result {
	score := countTrue(in.AlteredMentation, in.SystolicBP, in.RespiratoryRate)
	risk := RiskLow
	if score >= 2 {
		risk = RiskHigh
	}
	return qsofaOutcomes[risk].result(ToolQSOFA, float64(score))
}

// GCSInput holds the three Glasgow Coma Scale components.
type GCSInput struct {
	EyeOpening     int `json:"eyeOpening"`
	VerbalResponse int `json:"verbalResponse"`
	MotorResponse  int `json:"motorResponse"`
}

// DefaultGCSInput is a fully conscious patient.
func DefaultGCSInput() GCSInput {
	return GCSInput{EyeOpening: 4, VerbalResponse: 5, MotorResponse: 6}
}

// Validate checks each component against its scale.
func (in GCSInput) Validate() error {
	return errors.Join(
		checkRange("eyeOpening", in.EyeOpening, 1, 4),
		checkRange("verbalResponse", in.VerbalResponse, 1, 5),
		checkRange("motorResponse", in.MotorResponse, 1, 6),
	)
}

// GCS sums the Glasgow Coma Scale.
func GCS(in GCSInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	score := in.EyeOpening + in.VerbalResponse + in.MotorResponse
	risk := RiskHigh
	switch {
	case score >= 13:
		risk = RiskLow
	case score >= 9:
		risk = RiskModerate
	}
	return gcsOutcomes[risk].result(ToolGCS, float64(score)), nil
}

// WellsPEInput holds the Wells criteria for pulmonary embolism.
type WellsPEInput struct {
	ClinicalSigns        bool `json:"clinicalSigns"`        // clinical signs of DVT
	AlternativeDiagnosis bool `json:"alternativeDiagnosis"` // an alternative diagnosis is the more likely one
	HeartRate            bool `json:"heartRate"`            // > 100/min
	Immobilization       bool `json:"immobilization"`
	PreviousPE           bool `json:"previousPE"`
	Hemoptysis           bool `json:"hemoptysis"`
	Malignancy           bool `json:"malignancy"`
}

// WellsPE estimates the pre-test probability of pulmonary embolism.
func WellsPE(in WellsPEInput) Result {
	score := 0.0
	if in.ClinicalSigns {
		score += 3
	}
	if in.AlternativeDiagnosis {
		score -= 3
	}
	if in.HeartRate {
		score += 1.5
	}
	if in.Immobilization {
		score += 1.5
	}
	if in.PreviousPE {
		score += 1.5
	}
	if in.Hemoptysis {
		score++
	}
	if in.Malignancy {
		score++
	}
	risk := RiskLow
	if score > 4 {
		risk = RiskHigh
	}
	return wellsPEOutcomes[risk].result(ToolWellsPE, score)
}

// CHA2DS2VAScInput holds the CHA2DS2-VASc criteria.
type CHA2DS2VAScInput struct {
	CHF          bool `json:"chf"`
	Hypertension bool `json:"hypertension"`
	Age75        bool `json:"age75"`
	Diabetes     bool `json:"diabetes"`
	Stroke       bool `json:"stroke"` // prior stroke, TIA or thromboembolism
	Vascular     bool `json:"vascular"`
	Age65        bool `json:"age65"`
	Female       bool `json:"female"`
}

// CHA2DS2VASc scores stroke risk in atrial fibrillation.
func CHA2DS2VASc(in CHA2DS2VAScInput) Result {
	score := countTrue(in.CHF, in.Hypertension, in.Diabetes, in.Vascular, in.Age65, in.Female)
	if in.Age75 {
		score += 2
	}
	if in.Stroke {
		score += 2
	}
	return chadsVascOutcomes[min(score, 2)].result(ToolCHA2DS2VASc, float64(score))
}

// NIHSSInput holds the eleven NIH Stroke Scale items.
type NIHSSInput struct {
	Consciousness int `json:"consciousness"`
	Gaze          int `json:"gaze"`
	Visual        int `json:"visual"`
	FacialPalsy   int `json:"facialPalsy"`
	MotorArm      int `json:"motorArm"`
	MotorLeg      int `json:"motorLeg"`
	LimbAtaxia    int `json:"limbAtaxia"`
	Sensory       int `json:"sensory"`
	Language      int `json:"language"`
	Dysarthria    int `json:"dysarthria"`
	Extinction    int `json:"extinction"`
}

// Validate checks each item against its NIH range.
func (in NIHSSInput) Validate() error {
	return errors.Join(
		checkRange("consciousness", in.Consciousness, 0, 3),
		checkRange("gaze", in.Gaze, 0, 2),
		checkRange("visual", in.Visual, 0, 3),
		checkRange("facialPalsy", in.FacialPalsy, 0, 3),
		checkRange("motorArm", in.MotorArm, 0, 4),
		checkRange("motorLeg", in.MotorLeg, 0, 4),
		checkRange("limbAtaxia", in.LimbAtaxia, 0, 2),
		checkRange("sensory", in.Sensory, 0, 2),
		checkRange("language", in.Language, 0, 3),
		checkRange("dysarthria", in.Dysarthria, 0, 2),
		checkRange("extinction", in.Extinction, 0, 2),
	)
}

// NIHSS sums the NIH Stroke Scale.
func NIHSS(in NIHSSInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	score := in.Consciousness + in.Gaze + in.Visual + in.FacialPalsy + in.MotorArm +
		in.MotorLeg + in.LimbAtaxia + in.Sensory + in.Language + in.Dysarthria + in.Extinction
	risk := RiskHigh
	switch {
	case score <= 4:
		risk = RiskLow
	case score <= 15:
		risk = RiskModerate
	}
	return nihssOutcomes[risk].result(ToolNIHSS, float64(score)), nil
}

// SOFAInput holds the six organ system sub-scores.
type SOFAInput struct {
	Respiration    int `json:"respiration"`
	Coagulation    int `json:"coagulation"`
	Liver          int `json:"liver"`
	Cardiovascular int `json:"cardiovascular"`
	CNS            int `json:"cns"`
	Renal          int `json:"renal"`
}

// Validate checks that every sub-score is 0-3.
func (in SOFAInput) Validate() error {
	return errors.Join(
		checkRange("respiration", in.Respiration, 0, 3),
		checkRange("coagulation", in.Coagulation, 0, 3),
		checkRange("liver", in.Liver, 0, 3),
		checkRange("cardiovascular", in.Cardiovascular, 0, 3),
		checkRange("cns", in.CNS, 0, 3),
		checkRange("renal", in.Renal, 0, 3),
	)
}

// SOFA sums the Sequential Organ Failure Assessment.
func SOFA(in SOFAInput) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	score := in.Respiration + in.Coagulation + in.Liver + in.Cardiovascular + in.CNS + in.Renal
	risk := RiskHigh
	switch {
	case score <= 6:
		risk = RiskLow
	case score <= 12:
		risk = RiskModerate
	}
	return sofaOutcomes[risk].result(ToolSOFA, float64(score)), nil
}
