// Package engine orchestrates benchmark runs: it drives the full
// systems x cases matrix through the contract executor, scores each
// outcome, aggregates per system and assembles the final result.
package engine

import (
	"time"

	"github.com/justinsiek/yardstick-engine/internal/contract"
)

// State tracks a run through its lifecycle. Failed is terminal and
// reachable from Loading only; case-level errors never fail a run.
type State string

const (
	StateLoading     State = "loading"
	StateExecuting   State = "executing"
	StateAggregating State = "aggregating"
	StateComplete    State = "complete"
	StateFailed      State = "failed"
)

// MetricErrorKind keys metric computation failures in a system's error
// counts, alongside the contract failure kinds.
const MetricErrorKind = "metric_error"

// CaseResult records one (system, case) execution. Exactly one of
// {Predicted+Scores, Error} describes the outcome; metric errors may
// accompany a present predicted value. Immutable once created.
type CaseResult struct {
	CaseID    string `json:"case_id"`
	System    string `json:"system"`
	Predicted any    `json:"predicted,omitempty"`

	Scores       map[string]float64 `json:"scores,omitempty"`
	MetricErrors map[string]string  `json:"metric_errors,omitempty"`

	Error *contract.Failure `json:"error,omitempty"`
}

// Errored reports whether the case failed before any metric could run.
func (c *CaseResult) Errored() bool {
	return c != nil && c.Error != nil
}

// SystemReport summarizes one system's run. Cases are sorted by case id
// so identical inputs always produce identical reports. An aggregate
// value of nil means the reduction was undefined (no scored cases).
type SystemReport struct {
	System        string              `json:"system"`
	PrimaryMetric string              `json:"primary_metric"`
	Aggregates    map[string]*float64 `json:"aggregates"`
	ErrorCount    int                 `json:"error_count"`
	ErrorCounts   map[string]int      `json:"error_counts,omitempty"`
	Cases         []CaseResult        `json:"cases,omitempty"`
}

// BenchmarkResult is the engine's sole externally visible output.
type BenchmarkResult struct {
	SpecID      string         `json:"spec_id"`
	SpecVersion string         `json:"spec_version"`
	StartedAt   time.Time      `json:"started_at"`
	GeneratedAt time.Time      `json:"generated_at"`
	Systems     []SystemReport `json:"systems"`
}
