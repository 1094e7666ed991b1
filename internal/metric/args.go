package metric

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/justinsiek/yardstick-engine/internal/jsonpath"
)

// Common argument keys shared by the built-in scorers.
const (
	argPredPath  = "pred_path"
	argRefPath   = "ref_path"
	argNormalize = "normalize"
)

type normalizeOpts struct {
	lowercase       bool
	stripWhitespace bool
}

func stringArg(args map[string]any, key, fallback string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return fallback, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("arg %q: expected string, got %T", key, v)
	}
	return s, nil
}

func boolArg(m map[string]any, key string) (bool, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("arg %q: expected bool, got %T", key, v)
	}
	return b, nil
}

func normalizeArgs(args map[string]any) (normalizeOpts, error) {
	var opts normalizeOpts

	v, ok := args[argNormalize]
	if !ok || v == nil {
		return opts, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return opts, fmt.Errorf("arg %q: expected object, got %T", argNormalize, v)
	}

	var err error
	if opts.lowercase, err = boolArg(m, "lowercase"); err != nil {
		return opts, err
	}
	if opts.stripWhitespace, err = boolArg(m, "strip_whitespace"); err != nil {
		return opts, err
	}
	return opts, nil
}

func pathArg(args map[string]any, key string) (*jsonpath.Path, error) {
	expr, err := stringArg(args, key, "$")
	if err != nil {
		return nil, err
	}
	p, err := jsonpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("arg %q: %w", key, err)
	}
	return p, nil
}

// validatePathArgs checks the pred_path/ref_path/normalize trio shared
// by several scorers.
func validatePathArgs(args map[string]any) error {
	if _, err := pathArg(args, argPredPath); err != nil {
		return err
	}
	if _, err := pathArg(args, argRefPath); err != nil {
		return err
	}
	if _, err := normalizeArgs(args); err != nil {
		return err
	}
	return nil
}

// stringify renders a JSON value as a comparison string. Strings are
// used as-is; everything else is rendered in its JSON form so that a
// predicted 4 and a reference "4" compare equal.
func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

func (o normalizeOpts) apply(s string) string {
	if o.lowercase {
		s = strings.ToLower(s)
	}
	if o.stripWhitespace {
		s = strings.TrimSpace(s)
	}
	return s
}
