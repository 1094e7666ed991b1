// Package metric scores predicted values against reference values.
// Scorers are looked up by type string in a closed Registry that is
// built once at startup and never mutated during a run.
package metric

import (
	"sort"
	"strings"
)

// Scorer computes a score in [0,1] for one case.
type Scorer interface {
	Type() string
	// ValidateArgs checks type-specific arguments at spec-load time so
	// that a malformed metric definition is a load failure, never a
	// mid-run surprise.
	ValidateArgs(args map[string]any) error
	Score(predicted, reference any, args map[string]any) (float64, error)
}

// Registry stores scorers by type string. Reads are lock-free; the
// registry must not be mutated after construction.
type Registry struct {
	scorers map[string]Scorer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{scorers: make(map[string]Scorer)}
}

// Register adds a scorer to the registry.
func (r *Registry) Register(s Scorer) {
	if r == nil {
		panic("metric: register on nil registry")
	}
	if s == nil {
		panic("metric: register nil scorer")
	}
	typ := strings.TrimSpace(s.Type())
	if typ == "" {
		panic("metric: scorer has empty type")
	}
	if r.scorers == nil {
		r.scorers = make(map[string]Scorer)
	}
	r.scorers[typ] = s
}

// Get returns the scorer for a type if present.
func (r *Registry) Get(typ string) (Scorer, bool) {
	if r == nil || r.scorers == nil {
		return nil, false
	}
	s, ok := r.scorers[typ]
	return s, ok
}

// Known reports whether a type is registered.
func (r *Registry) Known(typ string) bool {
	_, ok := r.Get(typ)
	return ok
}

// Types returns the registered type names, sorted.
func (r *Registry) Types() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.scorers))
	for typ := range r.scorers {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Builtin returns a registry with all built-in scorers registered.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(ExactMatch{})
	r.Register(Contains{})
	r.Register(Regex{})
	r.Register(NumericEqual{})
	return r
}
