package metric

import (
	"fmt"
	"strings"
)

// Contains checks that the reference value (or each element of a
// reference list) appears as a substring of the predicted value. With a
// list reference the score is the matched fraction. Args are the shared
// pred_path/ref_path/normalize trio.
type Contains struct{}

// Type returns the scorer identifier.
func (Contains) Type() string { return "contains" }

// ValidateArgs checks the contains arguments.
func (Contains) ValidateArgs(args map[string]any) error {
	if err := validatePathArgs(args); err != nil {
		return fmt.Errorf("contains: %w", err)
	}
	return nil
}

// Score returns the fraction of expected substrings present.
func (Contains) Score(predicted, reference any, args map[string]any) (float64, error) {
	pred, ref, opts, err := resolvePair(predicted, reference, args)
	if err != nil {
		return 0, fmt.Errorf("contains: %w", err)
	}

	haystack := opts.apply(stringify(pred))

	var needles []string
	switch t := ref.(type) {
	case []any:
		for _, elem := range t {
			needles = append(needles, opts.apply(stringify(elem)))
		}
	default:
		needles = []string{opts.apply(stringify(ref))}
	}
	if len(needles) == 0 {
		return 1.0, nil
	}

	matched := 0
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			matched++
		}
	}
	return float64(matched) / float64(len(needles)), nil
}
