package scoring

import (
	"errors"
	"testing"
)

func TestCURB65(t *testing.T) {
	tests := []struct {
		name  string
		in    CURB65Input
		score float64
		risk  Risk
		color string
	}{
		{"none", CURB65Input{}, 0, RiskLow, ColorLow},
		{"one", CURB65Input{Age: true}, 1, RiskLow, ColorLow},
		{"two", CURB65Input{Age: true, Urea: true}, 2, RiskModerate, ColorModerate},
		{"three", CURB65Input{Age: true, Urea: true, Confusion: true}, 3, RiskHigh, ColorHigh},
		{"all", CURB65Input{true, true, true, true, true}, 5, RiskHigh, ColorHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CURB65(tt.in)
			if got.Score != tt.score || got.Risk != tt.risk || got.Color != tt.color || got.Tool != ToolCURB65 {
				t.Errorf("CURB65() = %+v", got)
			}
		})
	}
	if got := CURB65(CURB65Input{Age: true, Urea: true}); got.Recommendation != "Consider short inpatient stay or supervised outpatient treatment. Moderate risk (3-15%)." {
		t.Errorf("recommendation = %q", got.Recommendation)
	}
}

func TestQSOFA(t *testing.T) {
	tests := []struct {
		in   QSOFAInput
		risk Risk
	}{
		{QSOFAInput{}, RiskLow},
		{QSOFAInput{AlteredMentation: true}, RiskLow},
		{QSOFAInput{AlteredMentation: true, SystolicBP: true}, RiskHigh},
		{QSOFAInput{true, true, true}, RiskHigh},
	}
	for _, tt := range tests {
		if got := QSOFA(tt.in); got.Risk != tt.risk {
			t.Errorf("QSOFA(%+v).Risk = %s, want %s", tt.in, got.Risk, tt.risk)
		}
	}
}

func TestGCS(t *testing.T) {
	tests := []struct {
		name  string
		in    GCSInput
		score float64
		risk  Risk
	}{
		{"normal", DefaultGCSInput(), 15, RiskLow},
		{"thirteen", GCSInput{3, 4, 6}, 13, RiskLow},
		{"twelve", GCSInput{3, 3, 6}, 12, RiskModerate},
		{"nine", GCSInput{2, 2, 5}, 9, RiskModerate},
		{"eight", GCSInput{2, 2, 4}, 8, RiskHigh},
		{"minimum", GCSInput{1, 1, 1}, 3, RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := GCS(tt.in)
			if err != nil {
				t.Fatalf("GCS() error = %v", err)
			}
			if got.Score != tt.score || got.Risk != tt.risk {
				t.Errorf("GCS() = %+v", got)
			}
		})
	}
}

func TestGCSOutOfRange(t *testing.T) {
	for _, in := range []GCSInput{{0, 5, 6}, {4, 6, 6}, {4, 5, 7}, {}} {
		if _, err := GCS(in); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("GCS(%+v) error = %v, want ErrOutOfRange", in, err)
		}
	}
}

func TestWellsPE(t *testing.T) {
	tests := []struct {
		name  string
		in    WellsPEInput
		score float64
		risk  Risk
	}{
		{"none", WellsPEInput{}, 0, RiskLow},
		{"alternative only", WellsPEInput{AlternativeDiagnosis: true}, -3, RiskLow},
		{"exactly four", WellsPEInput{ClinicalSigns: true, Hemoptysis: true}, 4, RiskLow},
		{"four and a half", WellsPEInput{ClinicalSigns: true, HeartRate: true}, 4.5, RiskHigh},
		{"all", WellsPEInput{true, true, true, true, true, true, true}, 6.5, RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WellsPE(tt.in)
			if got.Score != tt.score || got.Risk != tt.risk {
				t.Errorf("WellsPE() = %+v, want score %v risk %s", got, tt.score, tt.risk)
			}
		})
	}
}

func TestCHA2DS2VASc(t *testing.T) {
	tests := []struct {
		name  string
		in    CHA2DS2VAScInput
		score float64
		risk  Risk
		color string
		rec   string
	}{
		{"zero", CHA2DS2VAScInput{}, 0, RiskLow, ColorLow, "No anticoagulation recommended. Annual stroke risk <1%."},
		{"one", CHA2DS2VAScInput{Female: true}, 1, RiskLow, ColorModerate, "Consider anticoagulation. Annual stroke risk 1-2%."},
		{"age75 weighs two", CHA2DS2VAScInput{Age75: true}, 2, RiskHigh, ColorHigh, "Anticoagulation recommended. Annual stroke risk >2%."},
		{"stroke weighs two", CHA2DS2VAScInput{Stroke: true}, 2, RiskHigh, ColorHigh, "Anticoagulation recommended. Annual stroke risk >2%."},
		{"all", CHA2DS2VAScInput{true, true, true, true, true, true, true, true}, 10, RiskHigh, ColorHigh, "Anticoagulation recommended. Annual stroke risk >2%."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CHA2DS2VASc(tt.in)
			if got.Score != tt.score || got.Risk != tt.risk || got.Color != tt.color || got.Recommendation != tt.rec {
				t.Errorf("CHA2DS2VASc() = %+v", got)
			}
		})
	}
}

func TestNIHSS(t *testing.T) {
	tests := []struct {
		name  string
		in    NIHSSInput
		score float64
		risk  Risk
	}{
		{"zero", NIHSSInput{}, 0, RiskLow},
		{"four", NIHSSInput{MotorArm: 4}, 4, RiskLow},
		{"five", NIHSSInput{MotorArm: 4, Gaze: 1}, 5, RiskModerate},
		{"fifteen", NIHSSInput{Consciousness: 3, MotorArm: 4, MotorLeg: 4, Language: 3, Gaze: 1}, 15, RiskModerate},
		{"sixteen", NIHSSInput{Consciousness: 3, MotorArm: 4, MotorLeg: 4, Language: 3, Gaze: 2}, 16, RiskHigh},
		{"maximum", NIHSSInput{3, 2, 3, 3, 4, 4, 2, 2, 3, 2, 2}, 30, RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NIHSS(tt.in)
			if err != nil {
				t.Fatalf("NIHSS() error = %v", err)
			}
			if got.Score != tt.score || got.Risk != tt.risk {
				t.Errorf("NIHSS() = %+v", got)
			}
		})
	}
}

func TestNIHSSOutOfRange(t *testing.T) {
	for _, in := range []NIHSSInput{{Gaze: 3}, {MotorArm: 5}, {Extinction: -1}, {Consciousness: 4}} {
		if _, err := NIHSS(in); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("NIHSS(%+v) error = %v, want ErrOutOfRange", in, err)
		}
	}
}

func TestSOFA(t *testing.T) {
	tests := []struct {
		in    SOFAInput
		score float64
		risk  Risk
	}{
		{SOFAInput{}, 0, RiskLow},
		{SOFAInput{3, 3, 0, 0, 0, 0}, 6, RiskLow},
		{SOFAInput{3, 3, 1, 0, 0, 0}, 7, RiskModerate},
		{SOFAInput{3, 3, 3, 3, 0, 0}, 12, RiskModerate},
		{SOFAInput{3, 3, 3, 3, 1, 0}, 13, RiskHigh},
		{SOFAInput{3, 3, 3, 3, 3, 3}, 18, RiskHigh},
	}
	for _, tt := range tests {
		got, err := SOFA(tt.in)
		if err != nil {
			t.Fatalf("SOFA(%+v) error = %v", tt.in, err)
		}
		if got.Score != tt.score || got.Risk != tt.risk {
			t.Errorf("SOFA(%+v) = %+v", tt.in, got)
		}
	}

	if _, err := SOFA(SOFAInput{Renal: 4}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("SOFA out of range error = %v", err)
	}
}
