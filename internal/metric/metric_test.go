package metric

import (
	"strings"
	"testing"
)

func TestRegistry(t *testing.T) {
	t.Parallel()

	r := Builtin()
	for _, typ := range []string{"exact_match", "contains", "regex", "numeric_equal"} {
		if !r.Known(typ) {
			t.Fatalf("Known(%q) = false", typ)
		}
	}
	if r.Known("llm_judge") {
		t.Fatalf("Known(llm_judge) = true")
	}

	types := r.Types()
	if len(types) != 4 || types[0] != "contains" {
		t.Fatalf("Types: got %v", types)
	}
}

func TestExactMatch_Normalization(t *testing.T) {
	t.Parallel()

	s := ExactMatch{}

	normalized := map[string]any{
		"normalize": map[string]any{"lowercase": true, "strip_whitespace": true},
	}
	score, err := s.Score("  PARIS ", "paris", normalized)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("normalized: got %v want 1.0", score)
	}

	score, err = s.Score("  PARIS ", "paris", map[string]any{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0.0 {
		t.Fatalf("raw: got %v want 0.0", score)
	}
}

func TestExactMatch_Paths(t *testing.T) {
	t.Parallel()

	s := ExactMatch{}
	args := map[string]any{
		"pred_path": "$.value",
		"ref_path":  "$.answer",
	}

	predicted := map[string]any{"value": "4"}
	reference := map[string]any{"answer": "4"}

	score, err := s.Score(predicted, reference, args)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("got %v want 1.0", score)
	}

	// Numbers and numeric strings compare equal after stringify.
	score, err = s.Score(map[string]any{"value": float64(4)}, reference, args)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("mixed types: got %v want 1.0", score)
	}
}

func TestExactMatch_RefPathError(t *testing.T) {
	t.Parallel()

	s := ExactMatch{}
	args := map[string]any{"ref_path": "$.answer"}

	_, err := s.Score("4", map[string]any{"other": "x"}, args)
	if err == nil {
		t.Fatalf("expected error for unresolvable ref_path")
	}
	if !strings.Contains(err.Error(), "resolve reference") {
		t.Fatalf("error: got %q", err)
	}
}

func TestExactMatch_ValidateArgs(t *testing.T) {
	t.Parallel()

	s := ExactMatch{}
	if err := s.ValidateArgs(map[string]any{"pred_path": "$.a", "ref_path": "$"}); err != nil {
		t.Fatalf("ValidateArgs: %v", err)
	}
	if err := s.ValidateArgs(map[string]any{"pred_path": "not-a-path"}); err == nil {
		t.Fatalf("ValidateArgs: expected error for bad path")
	}
	if err := s.ValidateArgs(map[string]any{"normalize": map[string]any{"lowercase": "yes"}}); err == nil {
		t.Fatalf("ValidateArgs: expected error for non-bool normalize option")
	}
}

func TestContains(t *testing.T) {
	t.Parallel()

	s := Contains{}

	score, err := s.Score("hello world", []any{"hello", "mars"}, map[string]any{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 0.5 {
		t.Fatalf("partial: got %v want 0.5", score)
	}

	score, err = s.Score("hello world", "world", map[string]any{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("single: got %v want 1.0", score)
	}
}

func TestRegex(t *testing.T) {
	t.Parallel()

	s := Regex{}

	if err := s.ValidateArgs(map[string]any{"pattern": "["}); err == nil {
		t.Fatalf("ValidateArgs: expected error for bad pattern")
	}
	if err := s.ValidateArgs(map[string]any{}); err == nil {
		t.Fatalf("ValidateArgs: expected error for missing pattern")
	}

	score, err := s.Score("answer: 42", nil, map[string]any{"pattern": `\d+$`})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("got %v want 1.0", score)
	}
}

func TestNumericEqual(t *testing.T) {
	t.Parallel()

	s := NumericEqual{}

	score, err := s.Score("The answer is 1,234.", float64(1234), map[string]any{})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("extracted: got %v want 1.0", score)
	}

	score, err = s.Score(float64(0.30000001), float64(0.3), map[string]any{"tolerance": 1e-6})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if score != 1.0 {
		t.Fatalf("tolerance: got %v want 1.0", score)
	}

	if _, err := s.Score("no numbers here", float64(1), map[string]any{}); err == nil {
		t.Fatalf("expected error for non-numeric predicted value")
	}
}
