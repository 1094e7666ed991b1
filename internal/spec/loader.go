package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/justinsiek/yardstick-engine/internal/aggregate"
	"github.com/justinsiek/yardstick-engine/internal/jsonpath"
	"github.com/justinsiek/yardstick-engine/internal/metric"
)

var supportedMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"PATCH":  true,
	"DELETE": true,
}

// ValidationError carries every violation found in a spec document so a
// user can fix the whole document in one pass.
type ValidationError struct {
	Violations []string
}

// Error joins all violations.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Violations) == 0 {
		return "spec: invalid"
	}
	return fmt.Sprintf("spec: %d violation(s): %s", len(e.Violations), strings.Join(e.Violations, "; "))
}

// Load reads, parses and validates a spec document (YAML or JSON; JSON
// is a subset of YAML). Metric types and arguments are checked against
// the scorer registry and aggregate types against the reducer registry,
// so an unknown type is a load failure rather than a run-time surprise.
func Load(path string, metrics *metric.Registry, reductions *aggregate.Registry) (*BenchmarkSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spec: read %q: %w", path, err)
	}
	return Parse(b, metrics, reductions)
}

// Parse parses and validates a raw spec document.
func Parse(b []byte, metrics *metric.Registry, reductions *aggregate.Registry) (*BenchmarkSpec, error) {
	var s BenchmarkSpec
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("spec: parse: %w", err)
	}
	if err := Validate(&s, metrics, reductions); err != nil {
		return nil, err
	}
	return &s, nil
}

// ResolveDatasetPath resolves the spec's dataset path against the
// directory containing the spec file.
func ResolveDatasetPath(specPath string, s *BenchmarkSpec) string {
	p := s.Dataset.Path
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(specPath), p)
}

// Validate checks a spec and returns a *ValidationError enumerating all
// violations found, or nil when the spec is valid.
func Validate(s *BenchmarkSpec, metrics *metric.Registry, reductions *aggregate.Registry) error {
	if s == nil {
		return &ValidationError{Violations: []string{"nil spec"}}
	}

	var v []string
	addMissing := func(field string) {
		v = append(v, fmt.Sprintf("missing required field %q", field))
	}

	if strings.TrimSpace(s.ID) == "" {
		addMissing("id")
	}
	if strings.TrimSpace(s.Name) == "" {
		addMissing("name")
	}
	if strings.TrimSpace(string(s.Version)) == "" {
		addMissing("version")
	}
	if strings.TrimSpace(s.Dataset.Path) == "" {
		addMissing("dataset.path")
	}

	v = append(v, validateContract(&s.Contract)...)
	v = append(v, validateScoring(&s.Scoring, metrics)...)
	v = append(v, validateReporting(s, reductions)...)

	if len(v) > 0 {
		return &ValidationError{Violations: v}
	}
	return nil
}

func validateContract(c *Contract) []string {
	var v []string

	switch proto := strings.TrimSpace(c.Protocol); proto {
	case "":
		v = append(v, fmt.Sprintf("missing required field %q", "contract.protocol"))
	case "http":
	default:
		v = append(v, fmt.Sprintf("contract.protocol: unsupported protocol %q", proto))
	}

	method := strings.ToUpper(strings.TrimSpace(c.Request.Method))
	if method == "" {
		v = append(v, fmt.Sprintf("missing required field %q", "contract.request.method"))
	} else if !supportedMethods[method] {
		v = append(v, fmt.Sprintf("contract.request.method: unsupported method %q", c.Request.Method))
	}

	if strings.TrimSpace(c.Request.BodyJSONPath) == "" {
		v = append(v, fmt.Sprintf("missing required field %q", "contract.request.body_json_path"))
	} else if _, err := jsonpath.Compile(c.Request.BodyJSONPath); err != nil {
		v = append(v, fmt.Sprintf("contract.request.body_json_path: %v", err))
	}

	if strings.TrimSpace(c.Response.OutputJSONPath) == "" {
		v = append(v, fmt.Sprintf("missing required field %q", "contract.response.output_json_path"))
	} else if _, err := jsonpath.Compile(c.Response.OutputJSONPath); err != nil {
		v = append(v, fmt.Sprintf("contract.response.output_json_path: %v", err))
	}

	return v
}

func validateScoring(sc *Scoring, metrics *metric.Registry) []string {
	var v []string

	if len(sc.Metrics) == 0 {
		v = append(v, fmt.Sprintf("missing required field %q", "scoring.metrics"))
	}

	seen := make(map[string]struct{}, len(sc.Metrics))
	for i, m := range sc.Metrics {
		name := strings.TrimSpace(m.Name)
		if name == "" {
			v = append(v, fmt.Sprintf("scoring.metrics[%d]: missing name", i))
		} else if _, dup := seen[name]; dup {
			v = append(v, fmt.Sprintf("scoring.metrics[%d] (%s): duplicate metric name", i, name))
		} else {
			seen[name] = struct{}{}
		}

		typ := strings.TrimSpace(m.Type)
		if typ == "" {
			v = append(v, fmt.Sprintf("scoring.metrics[%d] (%s): missing type", i, name))
			continue
		}
		scorer, ok := metrics.Get(typ)
		if !ok {
			v = append(v, fmt.Sprintf("scoring.metrics[%d] (%s): unknown type %q (known: %s)",
				i, name, typ, strings.Join(metrics.Types(), ", ")))
			continue
		}
		if err := scorer.ValidateArgs(m.Args); err != nil {
			v = append(v, fmt.Sprintf("scoring.metrics[%d] (%s): %v", i, name, err))
		}
	}

	primary := strings.TrimSpace(sc.PrimaryMetric)
	if primary == "" {
		v = append(v, fmt.Sprintf("missing required field %q", "scoring.primary_metric"))
	} else if _, ok := seen[primary]; !ok && len(sc.Metrics) > 0 {
		v = append(v, fmt.Sprintf("scoring.primary_metric: %q does not reference a defined metric", primary))
	}

	return v
}

func validateReporting(s *BenchmarkSpec, reductions *aggregate.Registry) []string {
	var v []string

	if len(s.Reporting.Aggregate) == 0 {
		v = append(v, fmt.Sprintf("missing required field %q", "reporting.aggregate"))
	}

	defined := make(map[string]struct{}, len(s.Scoring.Metrics))
	for _, m := range s.Scoring.Metrics {
		defined[strings.TrimSpace(m.Name)] = struct{}{}
	}

	seen := make(map[string]struct{}, len(s.Reporting.Aggregate))
	for i, a := range s.Reporting.Aggregate {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			v = append(v, fmt.Sprintf("reporting.aggregate[%d]: missing name", i))
		} else if _, dup := seen[name]; dup {
			v = append(v, fmt.Sprintf("reporting.aggregate[%d] (%s): duplicate aggregate name", i, name))
		} else {
			seen[name] = struct{}{}
		}

		typ := strings.TrimSpace(a.Type)
		if typ == "" {
			v = append(v, fmt.Sprintf("reporting.aggregate[%d] (%s): missing type", i, name))
		} else if !reductions.Known(typ) {
			v = append(v, fmt.Sprintf("reporting.aggregate[%d] (%s): unknown type %q (known: %s)",
				i, name, typ, strings.Join(reductions.Types(), ", ")))
		}

		m := strings.TrimSpace(a.Metric)
		if m == "" {
			v = append(v, fmt.Sprintf("reporting.aggregate[%d] (%s): missing metric", i, name))
		} else if _, ok := defined[m]; !ok {
			v = append(v, fmt.Sprintf("reporting.aggregate[%d] (%s): references undefined metric %q", i, name, m))
		}
	}

	return v
}
