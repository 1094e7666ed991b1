// Package aggregate reduces per-case metric scores into per-system
// summary values. Reducers form a closed registry and every reduction
// is order-independent, so concurrent case completion order never
// changes the reported numbers.
package aggregate

import (
	"sort"
	"strings"
)

// Reducer reduces a set of scores to a single value. The second return
// reports whether the value is defined; mean over zero scored cases is
// undefined rather than NaN.
type Reducer interface {
	Type() string
	Reduce(scores []float64) (float64, bool)
}

// Registry stores reducers by type string. Immutable after construction.
type Registry struct {
	reducers map[string]Reducer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{reducers: make(map[string]Reducer)}
}

// Register adds a reducer to the registry.
func (r *Registry) Register(red Reducer) {
	if r == nil {
		panic("aggregate: register on nil registry")
	}
	if red == nil {
		panic("aggregate: register nil reducer")
	}
	typ := strings.TrimSpace(red.Type())
	if typ == "" {
		panic("aggregate: reducer has empty type")
	}
	if r.reducers == nil {
		r.reducers = make(map[string]Reducer)
	}
	r.reducers[typ] = red
}

// Get returns the reducer for a type if present.
func (r *Registry) Get(typ string) (Reducer, bool) {
	if r == nil || r.reducers == nil {
		return nil, false
	}
	red, ok := r.reducers[typ]
	return red, ok
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
	out := make([]string, 0, len(r.reducers))
	for typ := range r.reducers {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Builtin returns a registry with all built-in reducers registered.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(Mean{})
	r.Register(Min{})
	r.Register(Max{})
	r.Register(Count{})
	return r
}

// Mean is the arithmetic mean of the scores.
type Mean struct{}

// Type returns the reducer identifier.
func (Mean) Type() string { return "mean" }

// Reduce averages the scores; undefined when none were scored.
func (Mean) Reduce(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores)), true
}

// Min is the smallest score.
type Min struct{}

// Type returns the reducer identifier.
func (Min) Type() string { return "min" }

// Reduce returns the minimum; undefined when none were scored.
func (Min) Reduce(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	out := scores[0]
	for _, s := range scores[1:] {
		if s < out {
			out = s
		}
	}
	return out, true
}

// Max is the largest score.
type Max struct{}

// Type returns the reducer identifier.
func (Max) Type() string { return "max" }

// Reduce returns the maximum; undefined when none were scored.
func (Max) Reduce(scores []float64) (float64, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	out := scores[0]
	for _, s := range scores[1:] {
		if s > out {
			out = s
		}
	}
	return out, true
}

// Count is the number of scored cases.
type Count struct{}

// Type returns the reducer identifier.
func (Count) Type() string { return "count" }

// Reduce returns how many cases were scored. Always defined.
func (Count) Reduce(scores []float64) (float64, bool) {
	return float64(len(scores)), true
}
