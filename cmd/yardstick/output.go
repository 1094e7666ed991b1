package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/justinsiek/yardstick-engine/internal/engine"
)

type outputFormat string

const (
	formatTable outputFormat = "table"
	formatJSON  outputFormat = "json"
)

func parseOutputFormat(s string) outputFormat {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "table", "":
		return formatTable
	case "json":
		return formatJSON
	default:
		return ""
	}
}

func formatResult(res *engine.BenchmarkResult, format outputFormat, verbose bool) string {
	switch format {
	case formatTable:
		return formatResultTable(res, verbose)
	case formatJSON:
		return formatResultJSON(res, verbose)
	default:
		return fmt.Sprintf("error: unknown output format %q\n", format)
	}
}

func formatResultTable(res *engine.BenchmarkResult, verbose bool) string {
	if res == nil {
		return "no result\n"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Benchmark: %s (version %s)\n", res.SpecID, res.SpecVersion)
	fmt.Fprintf(&buf, "Duration: %s\n\n", res.GeneratedAt.Sub(res.StartedAt).Round(0))

	tw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYSTEM\tCASES\tERRORS\tAGGREGATES")
	for _, rep := range res.Systems {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			rep.System, len(rep.Cases), rep.ErrorCount, formatAggregates(rep.Aggregates))
	}
	_ = tw.Flush()

	if verbose {
		for _, rep := range res.Systems {
			buf.WriteByte('\n')
			fmt.Fprintf(&buf, "System: %s\n", rep.System)
			ctw := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
			fmt.Fprintln(ctw, "CASE\tSCORES\tERROR")
			for _, cr := range rep.Cases {
				errMsg := ""
				if cr.Error != nil {
					errMsg = fmt.Sprintf("%s: %s", cr.Error.Kind, cr.Error.Message)
				}
				fmt.Fprintf(ctw, "%s\t%s\t%s\n", cr.CaseID, formatScores(cr.Scores), errMsg)
			}
			_ = ctw.Flush()
		}
	}

	buf.WriteByte('\n')
	return buf.String()
}

func formatAggregates(aggs map[string]*float64) string {
	if len(aggs) == 0 {
		return "-"
	}
	names := make([]string, 0, len(aggs))
	for name := range aggs {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		v := aggs[name]
		if v == nil {
			parts = append(parts, name+"=undefined")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%.3f", name, *v))
	}
	return strings.Join(parts, " ")
}

func formatScores(scores map[string]float64) string {
	if len(scores) == 0 {
		return "-"
	}
	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%.3f", name, scores[name]))
	}
	return strings.Join(parts, " ")
}

func formatResultJSON(res *engine.BenchmarkResult, verbose bool) string {
	b, err := json.MarshalIndent(artifactResult(res, verbose), "", "  ")
	if err != nil {
		return fmt.Sprintf("error: encode result: %v\n", err)
	}
	return string(b) + "\n"
}

// artifactResult shallow-copies a result, dropping per-case detail when
// verbose output was not requested.
func artifactResult(res *engine.BenchmarkResult, verbose bool) *engine.BenchmarkResult {
	if res == nil || verbose {
		return res
	}
	out := *res
	out.Systems = make([]engine.SystemReport, len(res.Systems))
	for i, rep := range res.Systems {
		slim := rep
		slim.Cases = nil
		out.Systems[i] = slim
	}
	return &out
}

func writeArtifact(path string, res *engine.BenchmarkResult, verbose bool) error {
	b, err := json.MarshalIndent(artifactResult(res, verbose), "", "  ")
	if err != nil {
		return fmt.Errorf("encode result artifact: %w", err)
	}
	b = append(b, '\n')

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create artifact dir: %w", err)
		}
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write result artifact: %w", err)
	}
	return nil
}
