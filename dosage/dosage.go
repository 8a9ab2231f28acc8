// Package dosage computes weight-based doses and body measurements from
// patient inputs and a treatment record. Every function is pure.
package dosage

import (
	"math"
	"regexp"
	"strconv"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
)

var numberToken = regexp.MustCompile(`-?(?:\d+(?:\.\d+)?|\.\d+)`)

// ParseNumber extracts the first numeric token of s: "5 mg/kg" gives 5,
// "max 150 mg" gives 150, "-20" gives -20. ok is false when s carries no number.
func ParseNumber(s string) (float64, bool) {
	tok := numberToken.FindString(s)
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Input is the free-text form of the calculator fields.
type Input struct {
	Weight        string `json:"weight"`
	Height        string `json:"height,omitempty"`
	Concentration string `json:"concentration,omitempty"`
}

// Patient carries parsed measurements. Zero height or concentration means
// the value was not provided.
type Patient struct {
	WeightKg             float64
	HeightCm             float64
	ConcentrationMgPerML float64
}

// ParseInput parses every field; unparseable or non-positive optional
// fields become zero.
// ok is false when the weight is missing or not positive.
func ParseInput(in Input) (Patient, bool) {
	weight, ok := ParseNumber(in.Weight)
	if !ok || weight <= 0 {
		return Patient{}, false
	}
	return Patient{
		WeightKg:             weight,
		HeightCm:             optionalPositive(in.Height),
		ConcentrationMgPerML: optionalPositive(in.Concentration),
	}, true
}

func optionalPositive(s string) float64 {
	v, ok := ParseNumber(s)
	if !ok || v <= 0 {
		return 0
	}
	return v
}

// Result holds the derived metrics. Zero values mean "not computable".
type Result struct {
	WeightKg    float64 `json:"weightKg"`
	MgPerKg     float64 `json:"mgPerKg"`
	MaxDoseMg   float64 `json:"maxDoseMg"`
	TotalDoseMg float64 `json:"totalDoseMg"`
	Clamped     bool    `json:"clamped"`
	VolumeML    float64 `json:"volumeMl"`
	BMI         float64 `json:"bmi"`
	BMICategory string  `json:"bmiCategory,omitempty"`
	BSA         float64 `json:"bsa"`
}

// Calculate applies t to the patient. ok is false when the weight is not
// positive. The dose is mg/kg times weight, clamped to a positive max dose;
// it stays 0 when the treatment has no parseable mg/kg figure.
func Calculate(p Patient, t entities.Treatment) (Result, bool) {
	if p.WeightKg <= 0 {
		return Result{}, false
	}
	r := Result{WeightKg: p.WeightKg}

	if mgPerKg, ok := ParseNumber(t.DoseMgPerKg); ok && mgPerKg > 0 {
		r.MgPerKg = mgPerKg
		r.TotalDoseMg = mgPerKg * p.WeightKg
		if maxDose, ok := ParseNumber(t.MaxDoseText()); ok && maxDose > 0 {
			r.MaxDoseMg = maxDose
			if r.TotalDoseMg > maxDose {
				r.TotalDoseMg = maxDose
				r.Clamped = true
			}
		}
	}

	if r.TotalDoseMg > 0 && p.ConcentrationMgPerML > 0 {
		r.VolumeML = r.TotalDoseMg / p.ConcentrationMgPerML
	}

	if p.HeightCm > 0 {
		m := p.HeightCm / 100
		r.BMI = p.WeightKg / (m * m)
		r.BMICategory = BMICategory(r.BMI)
		r.BSA = math.Sqrt(p.HeightCm * p.WeightKg / 3600)
	}
	return r, true
}

// CalculateForCondition picks the adult or pediatric treatment of c. A
// condition without a pediatric regimen yields no result for pediatric.
func CalculateForCondition(p Patient, c *entities.Condition, pediatric bool) (Result, bool) {
	if c == nil {
		return Result{}, false
	}
	t := c.Treatment(pediatric)
	if t == nil {
		return Result{}, false
	}
	return Calculate(p, *t)
}

// BMICategory bands a BMI value.
func BMICategory(bmi float64) string {
	switch {
	case bmi < 18.5:
		return "Underweight"
	case bmi < 25:
		return "Normal"
	case bmi < 30:
		return "Overweight"
	default:
		return "Obese"
	}
}

// Summary is the display rendering of a Result: dose to one decimal, volume
// and BSA to two, BMI to one. Metrics that were not computed are empty.
type Summary struct {
	TotalDose string `json:"totalDose,omitempty"`
	Volume    string `json:"volume,omitempty"`
	BMI       string `json:"bmi,omitempty"`
	BSA       string `json:"bsa,omitempty"`
}

// Summarize formats r for display.
func Summarize(r Result) Summary {
	var s Summary
	if r.TotalDoseMg > 0 {
		s.TotalDose = strconv.FormatFloat(r.TotalDoseMg, 'f', 1, 64) + " mg"
	}
	if r.VolumeML > 0 {
		s.Volume = strconv.FormatFloat(r.VolumeML, 'f', 2, 64) + " mL"
	}
	if r.BMI > 0 {
		s.BMI = strconv.FormatFloat(r.BMI, 'f', 1, 64) + " kg/m²"
	}
	if r.BSA > 0 {
		s.BSA = strconv.FormatFloat(r.BSA, 'f', 2, 64) + " m²"
	}
	return s
}
