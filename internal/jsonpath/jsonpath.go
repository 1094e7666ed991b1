// Package jsonpath evaluates a small JSONPath dialect against decoded
// JSON values: $ (root), .field access and [idx] array indexing.
package jsonpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// exprPattern matches the supported dialect: $ followed by any number of
// .field or [idx] selectors. Field names are identifier-like.
var exprPattern = regexp.MustCompile(`^\$(?:\.[A-Za-z_][A-Za-z0-9_]*|\[[0-9]+\])*$`)

type segment struct {
	field string
	index int
	isIdx bool
}

// Path is a compiled path expression. A compiled Path is immutable and
// safe for concurrent use.
type Path struct {
	raw      string
	segments []segment
}

// Compile parses and validates a path expression.
func Compile(expr string) (*Path, error) {
	raw := strings.TrimSpace(expr)
	if raw == "" {
		return nil, fmt.Errorf("jsonpath: empty expression")
	}
	if !strings.HasPrefix(raw, "$") {
		return nil, fmt.Errorf("jsonpath: expression must start with '$': %q", raw)
	}
	if !exprPattern.MatchString(raw) {
		return nil, fmt.Errorf("jsonpath: invalid syntax: %q", raw)
	}

	var segs []segment
	rest := raw[1:]
	for len(rest) > 0 {
		switch rest[0] {
		case '.':
			end := len(rest)
			for i := 1; i < len(rest); i++ {
				if rest[i] == '.' || rest[i] == '[' {
					end = i
					break
				}
			}
			segs = append(segs, segment{field: rest[1:end]})
			rest = rest[end:]
		case '[':
			end := strings.IndexByte(rest, ']')
			n, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, fmt.Errorf("jsonpath: invalid index in %q: %w", raw, err)
			}
			segs = append(segs, segment{index: n, isIdx: true})
			rest = rest[end+1:]
		default:
			return nil, fmt.Errorf("jsonpath: invalid syntax: %q", raw)
		}
	}

	return &Path{raw: raw, segments: segs}, nil
}

// Valid reports whether expr is a well-formed path expression.
func Valid(expr string) bool {
	_, err := Compile(expr)
	return err == nil
}

// String returns the original expression.
func (p *Path) String() string {
	if p == nil {
		return ""
	}
	return p.raw
}

// IsRoot reports whether the path selects the root value.
func (p *Path) IsRoot() bool {
	return p != nil && len(p.segments) == 0
}

// Eval resolves the path against a decoded JSON value (nil, bool,
// float64, string, []any, map[string]any). It is a pure function: it
// never mutates its input and has no side effects.
func (p *Path) Eval(v any) (any, error) {
	if p == nil {
		return nil, fmt.Errorf("jsonpath: nil path")
	}

	current := v
	traversed := "$"
	for _, seg := range p.segments {
		if seg.isIdx {
			traversed = fmt.Sprintf("%s[%d]", traversed, seg.index)
			arr, ok := current.([]any)
			if !ok {
				return nil, fmt.Errorf("jsonpath: cannot index %T at %s", current, traversed)
			}
			if seg.index >= len(arr) {
				return nil, fmt.Errorf("jsonpath: index %d out of range (len %d) at %s", seg.index, len(arr), traversed)
			}
			current = arr[seg.index]
			continue
		}

		traversed = traversed + "." + seg.field
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("jsonpath: cannot access field %q on %T at %s", seg.field, current, traversed)
		}
		val, ok := obj[seg.field]
		if !ok {
			return nil, fmt.Errorf("jsonpath: field %q not found at %s", seg.field, traversed)
		}
		current = val
	}
	return current, nil
}

// Eval compiles expr and resolves it against v in one step.
func Eval(v any, expr string) (any, error) {
	p, err := Compile(expr)
	if err != nil {
		return nil, err
	}
	return p.Eval(v)
}
