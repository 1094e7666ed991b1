package jsonpath

import (
	"encoding/json"
	"strings"
	"testing"
)

func decode(t *testing.T, s string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", s, err)
	}
	return v
}

func TestCompile(t *testing.T) {
	t.Parallel()

	valid := []string{"$", "$.a", "$.a.b.c", "$.a[0]", "$[2]", "$.items[10].name", "$._x.y_2"}
	for _, expr := range valid {
		if _, err := Compile(expr); err != nil {
			t.Fatalf("Compile(%q): %v", expr, err)
		}
	}

	invalid := []string{"", "a.b", "$.", "$..a", "$.a[", "$.a[-1]", "$.a[b]", "$[0][", "$.1a", "$ .a", "$.a b"}
	for _, expr := range invalid {
		if _, err := Compile(expr); err == nil {
			t.Fatalf("Compile(%q): expected error", expr)
		}
	}
}

func TestEval_Root(t *testing.T) {
	t.Parallel()

	v := decode(t, `{"answer":"4"}`)
	got, err := Eval(v, "$")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["answer"] != "4" {
		t.Fatalf("got %#v", got)
	}
}

func TestEval_Fields(t *testing.T) {
	t.Parallel()

	v := decode(t, `{"result":{"value":42,"tags":["a","b"]}}`)

	got, err := Eval(v, "$.result.value")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != float64(42) {
		t.Fatalf("got %v want 42", got)
	}

	got, err = Eval(v, "$.result.tags[1]")
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != "b" {
		t.Fatalf("got %v want b", got)
	}
}

func TestEval_Errors(t *testing.T) {
	t.Parallel()

	v := decode(t, `{"a":{"b":null},"arr":[1]}`)

	cases := []struct {
		expr string
		want string
	}{
		{"$.missing", `field "missing" not found`},
		{"$.a.b.c", `cannot access field "c"`},
		{"$.arr[3]", "out of range"},
		{"$.a[0]", "cannot index"},
	}
	for _, tc := range cases {
		_, err := Eval(v, tc.expr)
		if err == nil {
			t.Fatalf("Eval(%q): expected error", tc.expr)
		}
		if !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("Eval(%q): error %q does not contain %q", tc.expr, err, tc.want)
		}
	}
}

func TestEval_Pure(t *testing.T) {
	t.Parallel()

	v := decode(t, `{"a":[1,2,3]}`)
	p, err := Compile("$.a[2]")
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := p.Eval(v)
		if err != nil {
			t.Fatalf("Eval: %v", err)
		}
		if got != float64(3) {
			t.Fatalf("got %v want 3", got)
		}
	}

	m := v.(map[string]any)
	if len(m["a"].([]any)) != 3 {
		t.Fatalf("input mutated: %#v", v)
	}
}
