// Package validation checks dataset integrity and sanitizes user input.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/dosage"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
)

const (
	maxInputLength  = 100
	maxInputWords   = 10
	maxNameLength   = 200
	reportSampleIDs = 10
)

// Compile-time check to ensure DataValidatorImpl implements DataValidator
var _ interfaces.DataValidator = (*DataValidatorImpl)(nil)

// DataValidatorImpl implements the interfaces.DataValidator interface
type DataValidatorImpl struct{}

// NewDataValidator creates a new data validator
func NewDataValidator() *DataValidatorImpl {
	return &DataValidatorImpl{}
}

// ValidateCondition checks the invariants of a single record.
func (v *DataValidatorImpl) ValidateCondition(c *entities.Condition) error {
	if c == nil {
		return fmt.Errorf("condition is nil")
	}
	if c.ID <= 0 {
		return fmt.Errorf("invalid id: %d", c.ID)
	}
	if c.OrderRank <= 0 {
		return fmt.Errorf("invalid order rank for id %d: %d", c.ID, c.OrderRank)
	}
	if strings.TrimSpace(c.Condition) == "" {
		return fmt.Errorf("empty condition name for id %d", c.ID)
	}
	if utf8.RuneCountInString(c.Condition) > maxNameLength {
		return fmt.Errorf("condition name too long for id %d", c.ID)
	}
	if !c.Specialty.Valid() {
		return fmt.Errorf("unknown specialty %q for id %d", c.Specialty, c.ID)
	}
	if !c.AgeGroup.Valid() {
		return fmt.Errorf("unknown age group %q for id %d", c.AgeGroup, c.ID)
	}
	if strings.TrimSpace(c.AdultTreatment.DrugName) == "" {
		return fmt.Errorf("missing adult treatment for id %d", c.ID)
	}
	if c.PedsTreatment != nil && strings.TrimSpace(c.PedsTreatment.DrugName) == "" {
		return fmt.Errorf("pediatric treatment without a drug for id %d", c.ID)
	}
	return nil
}

// ValidateDataIntegrity rejects an empty dataset, duplicate ids and any
// invalid record.
func (v *DataValidatorImpl) ValidateDataIntegrity(conditions []entities.Condition) error {
	if len(conditions) == 0 {
		return fmt.Errorf("no conditions found")
	}

	seen := make(map[int]bool, len(conditions))
	for i := range conditions {
		c := &conditions[i]
		if seen[c.ID] {
			return fmt.Errorf("duplicate condition id found: %d", c.ID)
		}
		seen[c.ID] = true

		if err := v.ValidateCondition(c); err != nil {
			return fmt.Errorf("invalid condition at index %d: %w", i, err)
		}
	}
	return nil
}

// ReportDataQuality lists soft issues that do not block a load. ID lists
// keep the first few offenders only.
func (v *DataValidatorImpl) ReportDataQuality(conditions []entities.Condition) *interfaces.DataQualityReport {
	report := &interfaces.DataQualityReport{
		DuplicateIDs:                 []int{},
		ConditionsWithoutKeywordsIDs: []int{},
		PedsTreatmentMismatchesIDs:   []int{},
	}

	seen := make(map[int]bool, len(conditions))
	for i := range conditions {
		c := &conditions[i]
		if seen[c.ID] {
			report.DuplicateIDs = append(report.DuplicateIDs, c.ID)
		}
		seen[c.ID] = true

		if len(c.Keywords) == 0 {
			report.ConditionsWithoutKeywords++
			if len(report.ConditionsWithoutKeywordsIDs) < reportSampleIDs {
				report.ConditionsWithoutKeywordsIDs = append(report.ConditionsWithoutKeywordsIDs, c.ID)
			}
		}

		if len(c.References) == 0 {
			report.ConditionsWithoutReferences++
		}

		// adult-only entries must not carry a pediatric regimen
		if c.PedsTreatment != nil && !c.AgeGroup.IncludesPediatric() {
			report.PedsTreatmentMismatches++
			if len(report.PedsTreatmentMismatchesIDs) < reportSampleIDs {
				report.PedsTreatmentMismatchesIDs = append(report.PedsTreatmentMismatchesIDs, c.ID)
			}
		}

		for _, t := range []*entities.Treatment{&c.AdultTreatment, c.PedsTreatment} {
			if t == nil || t.DoseMgPerKg == "" {
				continue
			}
			if _, ok := dosage.ParseNumber(t.DoseMgPerKg); !ok {
				report.TreatmentsWithUnparsableDoses++
			}
		}
	}

	if len(report.DuplicateIDs) > 0 {
		logging.Error("Duplicate condition ids detected", "count", len(report.DuplicateIDs), "duplicates", report.DuplicateIDs)
	}
	return report
}

// ValidateInput checks a free-text query before it reaches the engines.
// Queries are only matched as substrings, so any printable text is allowed;
// only size and encoding are bounded.
func (v *DataValidatorImpl) ValidateInput(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("input cannot be empty")
	}
	if utf8.RuneCountInString(input) > maxInputLength {
		return fmt.Errorf("input too long: maximum %d characters", maxInputLength)
	}
	if len(strings.Fields(input)) > maxInputWords {
		return fmt.Errorf("search query too complex: maximum %d words allowed", maxInputWords)
	}

	if !utf8.ValidString(input) {
		return fmt.Errorf("input is not valid UTF-8")
	}
	for _, r := range input {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return fmt.Errorf("input contains control characters")
		}
	}
	return nil
}

// ValidateID parses a positive condition id path parameter.
func (v *DataValidatorImpl) ValidateID(input string) (int, error) {
	if input == "" {
		return -1, fmt.Errorf("id cannot be empty")
	}
	if len(input) > 9 {
		return -1, fmt.Errorf("id too long")
	}
	id, err := strconv.Atoi(input)
	if err != nil || strings.ContainsAny(input, "+- ") {
		return -1, fmt.Errorf("id must contain only digits")
	}
	if id <= 0 {
		return -1, fmt.Errorf("id must be positive")
	}
	return id, nil
}

