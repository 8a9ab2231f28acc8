// Package conditionsparser reads the emergency condition document, decodes
// legacy encodings, normalises text and produces an immutable dataset.
package conditionsparser

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/giygas/emergency-reference/conditionsparser/entities"
	"github.com/giygas/emergency-reference/interfaces"
	"github.com/giygas/emergency-reference/logging"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

//go:embed bundled/emergencyConditions.json
var bundledDocument []byte

// Compile-time check to ensure ConditionsParser implements DatasetLoader
var _ interfaces.DatasetLoader = (*ConditionsParser)(nil)

// ConditionsParser loads the dataset from a file, or from the copy bundled
// into the binary when no path is configured.
type ConditionsParser struct {
	path     string
	encoding string
}

// NewConditionsParser creates a parser. encoding is "utf-8" or
// "windows-1252"; anything else is treated as utf-8.
func NewConditionsParser(path, encoding string) *ConditionsParser {
	return &ConditionsParser{path: path, encoding: strings.ToLower(encoding)}
}

// BundledDocument returns the raw dataset compiled into the binary.
func BundledDocument() []byte {
	return bundledDocument
}

// LoadDataset implements interfaces.DatasetLoader.
func (p *ConditionsParser) LoadDataset() (interfaces.Dataset, error) {
	raw := bundledDocument
	if p.path != "" {
		b, err := os.ReadFile(p.path)
		if err != nil {
			return interfaces.Dataset{}, fmt.Errorf("failed to read dataset %s: %w", p.path, err)
		}
		raw = b
	}

	conditions, err := ParseDocument(raw, p.encoding)
	if err != nil {
		return interfaces.Dataset{}, err
	}

	source := p.path
	if source == "" {
		source = "bundled"
	}
	logging.Debug("Dataset parsed", "source", source, "conditions", len(conditions))

	return interfaces.Dataset{Conditions: conditions, Revision: Revision(raw)}, nil
}

// Revision is the SHA-256 of the raw document, hex encoded.
func Revision(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// ParseDocument decodes raw into UTF-8 and unmarshals the condition array.
func ParseDocument(raw []byte, encoding string) ([]entities.Condition, error) {
	doc, err := decode(raw, encoding)
	if err != nil {
		return nil, err
	}

	var conditions []entities.Condition
	if err := json.Unmarshal(doc, &conditions); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	for i := range conditions {
		normalizeCondition(&conditions[i])
	}
	return conditions, nil
}

// decode returns UTF-8 without a BOM. Documents declared as Windows-1252, or
// that are not valid UTF-8, go through the Windows-1252 decoder.
func decode(raw []byte, encoding string) ([]byte, error) {
	if encoding == "windows-1252" || encoding == "cp1252" || !utf8.Valid(raw) {
		if encoding != "windows-1252" && encoding != "cp1252" {
			logging.Warn("Dataset is not valid UTF-8, decoding as Windows-1252")
		}
		out, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode Windows-1252 dataset: %w", err)
		}
		return out, nil
	}

	if !bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}) {
		return raw, nil
	}
	out, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("failed to strip byte order mark: %w", err)
	}
	return out, nil
}

func nfc(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func nfcPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := nfc(*s)
	return &v
}

func nfcAll(list []string) []string {
	for i, s := range list {
		list[i] = nfc(s)
	}
	return list
}

func normalizeTreatment(t *entities.Treatment) {
	t.DrugName = nfc(t.DrugName)
	t.DrugClass = nfc(t.DrugClass)
	t.Dose = nfc(t.Dose)
	t.DoseMgPerKg = nfc(t.DoseMgPerKg)
	t.MaxDose = nfcPtr(t.MaxDose)
	t.Route = nfc(t.Route)
	t.Frequency = nfc(t.Frequency)
	t.Duration = nfcPtr(t.Duration)
	t.Notes = nfc(t.Notes)
}

// normalizeCondition puts every text field in NFC so that composed and
// decomposed accents compare equal during search.
func normalizeCondition(c *entities.Condition) {
	c.Condition = nfc(c.Condition)
	c.ICD10Code = nfc(c.ICD10Code)
	c.Abbrev = nfc(c.Abbrev)
	c.SubSpecialty = nfcPtr(c.SubSpecialty)
	c.Presentation = nfc(c.Presentation)
	c.Investigations = nfc(c.Investigations)
	c.RedFlags = nfcAll(c.RedFlags)
	c.Differentials = nfcAll(c.Differentials)
	c.Keywords = nfcAll(c.Keywords)
	c.Procedure = nfcPtr(c.Procedure)
	c.WHOGuideline = nfcPtr(c.WHOGuideline)
	normalizeTreatment(&c.AdultTreatment)
	if c.PedsTreatment != nil {
		normalizeTreatment(c.PedsTreatment)
	}
	for i := range c.References {
		r := &c.References[i]
		r.Textbook, r.Edition, r.Chapter, r.Pages = nfc(r.Textbook), nfc(r.Edition), nfc(r.Chapter), nfc(r.Pages)
	}
}
