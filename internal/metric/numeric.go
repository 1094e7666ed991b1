package metric

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const defaultTolerance = 1e-9

// NumericEqual compares predicted and reference values numerically.
// String values are parsed by taking the last number they contain, so a
// predicted "The answer is 42." matches a reference 42. Args:
//
//	pred_path, ref_path: paths (default "$")
//	tolerance:           maximum absolute difference (default 1e-9)
type NumericEqual struct{}

// Type returns the scorer identifier.
func (NumericEqual) Type() string { return "numeric_equal" }

// ValidateArgs checks the numeric_equal arguments.
func (NumericEqual) ValidateArgs(args map[string]any) error {
	if err := validatePathArgs(args); err != nil {
		return fmt.Errorf("numeric_equal: %w", err)
	}
	if v, ok := args["tolerance"]; ok && v != nil {
		f, ok := v.(float64)
		if !ok {
			if n, isInt := v.(int); isInt {
				f = float64(n)
			} else {
				return fmt.Errorf("numeric_equal: arg %q: expected number, got %T", "tolerance", v)
			}
		}
		if f < 0 {
			return fmt.Errorf("numeric_equal: arg %q: must be >= 0", "tolerance")
		}
	}
	return nil
}

// Score returns 1.0 when both values parse as numbers within tolerance.
func (NumericEqual) Score(predicted, reference any, args map[string]any) (float64, error) {
	pred, ref, _, err := resolvePair(predicted, reference, args)
	if err != nil {
		return 0, fmt.Errorf("numeric_equal: %w", err)
	}

	tol := defaultTolerance
	if v, ok := args["tolerance"]; ok && v != nil {
		if f, isFloat := v.(float64); isFloat {
			tol = f
		} else if n, isInt := v.(int); isInt {
			tol = float64(n)
		}
	}

	pn, ok := toNumber(pred)
	if !ok {
		return 0, fmt.Errorf("numeric_equal: predicted value %v is not numeric", pred)
	}
	rn, ok := toNumber(ref)
	if !ok {
		return 0, fmt.Errorf("numeric_equal: reference value %v is not numeric", ref)
	}

	if math.Abs(pn-rn) <= tol {
		return 1.0, nil
	}
	return 0.0, nil
}

func toNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case string:
		raw, ok := lastNumber(t)
		if !ok {
			return 0, false
		}
		f, err := strconv.ParseFloat(raw, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// lastNumber extracts the trailing number from a string, tolerating
// thousands separators and sentence punctuation.
func lastNumber(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}

	start, end := -1, -1
	for i := len(s) - 1; i >= 0; i-- {
		c := s[i]
		if (c >= '0' && c <= '9') || c == '.' || c == ',' {
			end = i + 1
			start = i
			for start > 0 {
				pc := s[start-1]
				if (pc >= '0' && pc <= '9') || pc == '.' || pc == ',' || pc == '-' {
					start--
					continue
				}
				break
			}
			break
		}
	}
	if start < 0 || start >= end {
		return "", false
	}

	raw := strings.ReplaceAll(s[start:end], ",", "")
	raw = strings.Trim(raw, ".")
	if raw == "" || raw == "-" {
		return "", false
	}
	return raw, true
}
