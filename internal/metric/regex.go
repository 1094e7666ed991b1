package metric

import (
	"fmt"
	"regexp"
)

// Regex checks the predicted value against a pattern. Args:
//
//	pattern:   required regular expression
//	pred_path: path into the predicted value (default "$")
type Regex struct{}

// Type returns the scorer identifier.
func (Regex) Type() string { return "regex" }

// ValidateArgs checks that the pattern compiles and pred_path is valid.
func (Regex) ValidateArgs(args map[string]any) error {
	pattern, err := stringArg(args, "pattern", "")
	if err != nil {
		return fmt.Errorf("regex: %w", err)
	}
	if pattern == "" {
		return fmt.Errorf("regex: missing arg %q", "pattern")
	}
	if _, err := regexp.Compile(pattern); err != nil {
		return fmt.Errorf("regex: invalid pattern: %w", err)
	}
	if _, err := pathArg(args, argPredPath); err != nil {
		return fmt.Errorf("regex: %w", err)
	}
	return nil
}

// Score returns 1.0 when the pattern matches the predicted string.
func (Regex) Score(predicted, _ any, args map[string]any) (float64, error) {
	pattern, err := stringArg(args, "pattern", "")
	if err != nil || pattern == "" {
		return 0, fmt.Errorf("regex: missing arg %q", "pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return 0, fmt.Errorf("regex: invalid pattern: %w", err)
	}

	predPath, err := pathArg(args, argPredPath)
	if err != nil {
		return 0, fmt.Errorf("regex: %w", err)
	}
	pred, err := predPath.Eval(predicted)
	if err != nil {
		return 0, fmt.Errorf("regex: resolve predicted: %w", err)
	}

	if re.MatchString(stringify(pred)) {
		return 1.0, nil
	}
	return 0.0, nil
}
