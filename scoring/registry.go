package scoring

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/giygas/emergency-reference/metrics"
)

// Tool identifies a decision-support panel.
type Tool string

const (
	ToolAllergies   Tool = "allergies"
	ToolCURB65      Tool = "curb65"
	ToolQSOFA       Tool = "qsofa"
	ToolGCS         Tool = "gcs"
	ToolWellsPE     Tool = "wellsPE"
	ToolCHA2DS2VASc Tool = "chadsVasc"
	ToolNIHSS       Tool = "nihss"
	ToolSOFA        Tool = "sofa"
)

var (
	// ErrUnknownTool is returned by Evaluate for a tool it cannot score.
	ErrUnknownTool = errors.New("unknown scoring tool")
	// ErrInvalidInput is returned when the input document does not decode.
	ErrInvalidInput = errors.New("invalid scoring input")
)

type evaluator func(raw []byte) (Result, error)

var evaluators = map[Tool]evaluator{
	ToolCURB65: func(raw []byte) (Result, error) {
		var in CURB65Input
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return CURB65(in), nil
	},
	ToolQSOFA: func(raw []byte) (Result, error) {
		var in QSOFAInput
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return QSOFA(in), nil
	},
	ToolGCS: func(raw []byte) (Result, error) {
		in := DefaultGCSInput()
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return GCS(in)
	},
	ToolWellsPE: func(raw []byte) (Result, error) {
		var in WellsPEInput
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return WellsPE(in), nil
	},
	ToolCHA2DS2VASc: func(raw []byte) (Result, error) {
		var in CHA2DS2VAScInput
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return CHA2DS2VASc(in), nil
	},
	ToolNIHSS: func(raw []byte) (Result, error) {
		var in NIHSSInput
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return NIHSS(in)
	},
	ToolSOFA: func(raw []byte) (Result, error) {
		var in SOFAInput
		if err := decodeInput(raw, &in); err != nil {
			return Result{}, err
		}
		return SOFA(in)
	},
}

// ParseTool maps a tool id to a scorable Tool.
func ParseTool(id string) (Tool, error) {
	t := Tool(id)
	if _, ok := evaluators[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTool, id)
	}
	return t, nil
}

// Evaluate decodes raw as the input of tool and scores it. Omitted fields
// take the tool's defaults: unchecked criteria, or a normal GCS.
func Evaluate(tool Tool, raw []byte) (Result, error) {
	eval, ok := evaluators[tool]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownTool, tool)
	}
	res, err := eval(raw)
	if err != nil {
		return Result{}, err
	}
	metrics.ScoreEvaluations.WithLabelValues(string(tool)).Inc()
	return res, nil
}

func decodeInput(raw []byte, dst any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
