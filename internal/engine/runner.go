package engine

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/justinsiek/yardstick-engine/internal/aggregate"
	"github.com/justinsiek/yardstick-engine/internal/contract"
	"github.com/justinsiek/yardstick-engine/internal/dataset"
	"github.com/justinsiek/yardstick-engine/internal/metric"
	"github.com/justinsiek/yardstick-engine/internal/spec"
)

// Config defines runner behavior.
type Config struct {
	// Concurrency bounds the worker pool per system. Default 1
	// (sequential) for reproducible behavior under load.
	Concurrency int
	// Timeout is the default per-call timeout; a system config may
	// override it.
	Timeout time.Duration
	// HTTPClient overrides the client used for system calls.
	HTTPClient *http.Client
}

// Runner executes one benchmark run. A Runner is single-use.
type Runner struct {
	spec       *spec.BenchmarkSpec
	metrics    *metric.Registry
	reductions *aggregate.Registry
	cfg        Config

	mu    sync.Mutex
	state State
}

// NewRunner creates a Runner for one run of the given spec.
func NewRunner(s *spec.BenchmarkSpec, metrics *metric.Registry, reductions *aggregate.Registry, cfg Config) *Runner {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = contract.DefaultTimeout
	}
	return &Runner{
		spec:       s,
		metrics:    metrics,
		reductions: reductions,
		cfg:        cfg,
		state:      StateLoading,
	}
}

// State returns the run's current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Runner) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Run executes the full systems x cases matrix. Spec and dataset
// problems fail the run before any case executes; per-case and
// per-metric errors are recorded inline and never abort the run.
// On cancellation Run returns the partial result holding every system
// report whose barrier had completed, together with the context error.
func (r *Runner) Run(ctx context.Context, src *dataset.Source, systems []contract.System) (*BenchmarkResult, error) {
	if r == nil {
		return nil, errors.New("engine: nil runner")
	}
	if ctx == nil {
		return nil, errors.New("engine: nil context")
	}

	startedAt := time.Now().UTC()

	cases, executor, err := r.load(ctx, src, systems)
	if err != nil {
		r.setState(StateFailed)
		return nil, err
	}

	r.setState(StateExecuting)

	type systemRun struct {
		system   contract.System
		results  []CaseResult
		complete bool
	}
	runs := make([]systemRun, 0, len(systems))

	for _, sys := range systems {
		results, complete := r.runSystem(ctx, executor, sys, cases)
		runs = append(runs, systemRun{system: sys, results: results, complete: complete})
		if ctx.Err() != nil {
			break
		}
	}

	r.setState(StateAggregating)

	out := &BenchmarkResult{
		SpecID:      r.spec.ID,
		SpecVersion: string(r.spec.Version),
		StartedAt:   startedAt,
		Systems:     make([]SystemReport, 0, len(runs)),
	}
	for _, run := range runs {
		if !run.complete {
			continue
		}
		out.Systems = append(out.Systems, r.report(run.system, run.results))
	}
	out.GeneratedAt = time.Now().UTC()

	if err := ctx.Err(); err != nil {
		// Cancelled mid-run: partial result, not a failure.
		return out, err
	}

	r.setState(StateComplete)
	return out, nil
}

// load performs the fatal-error phase: spec validation, dataset load
// and executor construction.
func (r *Runner) load(ctx context.Context, src *dataset.Source, systems []contract.System) ([]dataset.Case, *contract.Executor, error) {
	if r.spec == nil {
		return nil, nil, errors.New("engine: nil spec")
	}
	if r.metrics == nil || r.reductions == nil {
		return nil, nil, errors.New("engine: nil registries")
	}
	if err := spec.Validate(r.spec, r.metrics, r.reductions); err != nil {
		return nil, nil, err
	}

	if len(systems) == 0 {
		return nil, nil, errors.New("engine: no systems configured")
	}
	seen := make(map[string]struct{}, len(systems))
	for _, sys := range systems {
		if sys.Name == "" || sys.Endpoint == "" {
			return nil, nil, fmt.Errorf("engine: system %+v: missing name or endpoint", sys)
		}
		if _, dup := seen[sys.Name]; dup {
			return nil, nil, fmt.Errorf("engine: duplicate system name %q", sys.Name)
		}
		seen[sys.Name] = struct{}{}
	}

	cases, err := src.Load(ctx)
	if err != nil {
		return nil, nil, err
	}

	executor, err := contract.NewExecutor(&r.spec.Contract, r.cfg.HTTPClient, r.cfg.Timeout)
	if err != nil {
		return nil, nil, err
	}
	return cases, executor, nil
}

// runSystem executes all cases for one system on a bounded worker pool
// and waits for the barrier. complete is false when cancellation kept
// some cases from producing a result.
func (r *Runner) runSystem(ctx context.Context, executor *contract.Executor, sys contract.System, cases []dataset.Case) ([]CaseResult, bool) {
	results := make([]*CaseResult, len(cases))

	g := &errgroup.Group{}
	g.SetLimit(r.cfg.Concurrency)

	for i := range cases {
		if ctx.Err() != nil {
			break
		}
		idx := i
		cs := cases[i]
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			res := r.runCase(ctx, executor, sys, cs)
			results[idx] = &res
			return nil
		})
	}
	// Barrier: aggregation may not observe this system until every
	// scheduled case has produced a result.
	_ = g.Wait()

	out := make([]CaseResult, 0, len(results))
	for _, res := range results {
		if res == nil {
			return nil, false
		}
		out = append(out, *res)
	}
	return out, true
}

// runCase produces exactly one CaseResult for a (system, case) pair.
func (r *Runner) runCase(ctx context.Context, executor *contract.Executor, sys contract.System, cs dataset.Case) CaseResult {
	out := CaseResult{CaseID: cs.ID, System: sys.Name}

	predicted, failure := executor.Execute(ctx, sys, cs)
	if failure != nil {
		out.Error = failure
		return out
	}
	out.Predicted = predicted

	for _, def := range r.spec.Scoring.Metrics {
		scorer, ok := r.metrics.Get(def.Type)
		if !ok {
			// Unreachable after validation; recorded rather than panicking.
			r.recordMetricError(&out, def.Name, fmt.Sprintf("unknown metric type %q", def.Type))
			continue
		}
		score, err := scorer.Score(predicted, cs.Reference, def.Args)
		if err != nil {
			r.recordMetricError(&out, def.Name, err.Error())
			continue
		}
		if out.Scores == nil {
			out.Scores = make(map[string]float64, len(r.spec.Scoring.Metrics))
		}
		out.Scores[def.Name] = score
	}
	return out
}

func (r *Runner) recordMetricError(res *CaseResult, name, msg string) {
	if res.MetricErrors == nil {
		res.MetricErrors = make(map[string]string)
	}
	res.MetricErrors[name] = msg
}

// report aggregates one system's collected case results.
func (r *Runner) report(sys contract.System, results []CaseResult) SystemReport {
	sort.Slice(results, func(i, j int) bool { return results[i].CaseID < results[j].CaseID })

	rep := SystemReport{
		System:        sys.Name,
		PrimaryMetric: r.spec.Scoring.PrimaryMetric,
		Aggregates:    make(map[string]*float64, len(r.spec.Reporting.Aggregate)),
	}

	errorCounts := make(map[string]int)
	for i := range results {
		res := &results[i]
		if res.Errored() {
			rep.ErrorCount++
			errorCounts[res.Error.Kind]++
		}
		errorCounts[MetricErrorKind] += len(res.MetricErrors)
	}
	if errorCounts[MetricErrorKind] == 0 {
		delete(errorCounts, MetricErrorKind)
	}
	if len(errorCounts) > 0 {
		rep.ErrorCounts = errorCounts
	}

	for _, def := range r.spec.Reporting.Aggregate {
		reducer, ok := r.reductions.Get(def.Type)
		if !ok {
			continue // unreachable after validation
		}

		// Only successfully scored cases enter the reduction; errored
		// cases are excluded from numerator and denominator alike.
		var scores []float64
		for i := range results {
			if score, ok := results[i].Scores[def.Metric]; ok {
				scores = append(scores, score)
			}
		}

		if value, defined := reducer.Reduce(scores); defined {
			v := value
			rep.Aggregates[def.Name] = &v
		} else {
			rep.Aggregates[def.Name] = nil
		}
	}

	rep.Cases = results
	return rep
}
