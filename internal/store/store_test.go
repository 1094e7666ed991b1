package store

import (
	"context"
	"testing"
	"time"

	"github.com/justinsiek/yardstick-engine/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleResult(specID string, at time.Time) *engine.BenchmarkResult {
	rate := 0.75
	return &engine.BenchmarkResult{
		SpecID:      specID,
		SpecVersion: "2",
		StartedAt:   at,
		GeneratedAt: at.Add(3 * time.Second),
		Systems: []engine.SystemReport{
			{
				System:        "baseline",
				PrimaryMetric: "exact_match",
				Aggregates:    map[string]*float64{"exact_match_rate": &rate},
				ErrorCount:    1,
				Cases:         make([]engine.CaseResult, 4),
			},
		},
	}
}

func TestSaveAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	first, err := s.SaveRun(ctx, sampleResult("math-addition", base))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	second, err := s.SaveRun(ctx, sampleResult("math-addition", base.Add(time.Hour)))
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}
	if first == second {
		t.Fatalf("expected distinct run ids, got %q twice", first)
	}

	runs, err := s.ListRuns(ctx, 10)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	if runs[0].ID != second {
		t.Errorf("newest run first: got %q want %q", runs[0].ID, second)
	}
	if runs[0].SpecID != "math-addition" || runs[0].SpecVersion != "2" {
		t.Errorf("run metadata: got %q/%q", runs[0].SpecID, runs[0].SpecVersion)
	}
	if runs[0].Systems != 1 {
		t.Errorf("systems count: got %d want 1", runs[0].Systems)
	}
	if !runs[1].StartedAt.Equal(base) {
		t.Errorf("started_at: got %v want %v", runs[1].StartedAt, base)
	}
}

func TestListRunsLimit(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		if _, err := s.SaveRun(ctx, sampleResult("math-addition", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("SaveRun: %v", err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}

func TestGetSystemReports(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	res := sampleResult("math-addition", time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	undefined := (*float64)(nil)
	res.Systems = append(res.Systems, engine.SystemReport{
		System:        "flaky",
		PrimaryMetric: "exact_match",
		Aggregates:    map[string]*float64{"exact_match_rate": undefined},
		ErrorCount:    4,
		Cases:         make([]engine.CaseResult, 4),
	})

	id, err := s.SaveRun(ctx, res)
	if err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	reports, err := s.GetSystemReports(ctx, id)
	if err != nil {
		t.Fatalf("GetSystemReports: %v", err)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].System != "baseline" || reports[1].System != "flaky" {
		t.Fatalf("report order: got %q, %q", reports[0].System, reports[1].System)
	}
	got := reports[0].Aggregates["exact_match_rate"]
	if got == nil || *got != 0.75 {
		t.Errorf("baseline aggregate: got %v want 0.75", got)
	}
	if v, ok := reports[1].Aggregates["exact_match_rate"]; !ok || v != nil {
		t.Errorf("flaky aggregate: want present and nil, got %v (present=%v)", v, ok)
	}
	if reports[1].ErrorCount != 4 || reports[1].Cases != 4 {
		t.Errorf("flaky counts: got errors=%d cases=%d", reports[1].ErrorCount, reports[1].Cases)
	}
}

func TestSaveRunNilResult(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.SaveRun(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
