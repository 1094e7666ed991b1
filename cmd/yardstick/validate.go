package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/justinsiek/yardstick-engine/internal/aggregate"
	"github.com/justinsiek/yardstick-engine/internal/dataset"
	"github.com/justinsiek/yardstick-engine/internal/metric"
	"github.com/justinsiek/yardstick-engine/internal/spec"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <spec>",
		Short: "Validate a benchmark spec without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := spec.Load(args[0], metric.Builtin(), aggregate.Builtin())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "OK: %s (version %s)\n", s.ID, s.Version)

			datasetPath := spec.ResolveDatasetPath(args[0], s)
			if _, statErr := os.Stat(datasetPath); os.IsNotExist(statErr) {
				fmt.Fprintf(out, "  dataset: %s (not found, skipped)\n", datasetPath)
			} else {
				src := &dataset.Source{Path: datasetPath}
				cases, loadErr := src.Load(cmd.Context())
				if loadErr != nil {
					return loadErr
				}
				fmt.Fprintf(out, "  dataset: %s (%d cases)\n", datasetPath, len(cases))
			}

			for _, m := range s.Scoring.Metrics {
				marker := ""
				if m.Name == s.Scoring.PrimaryMetric {
					marker = " (primary)"
				}
				fmt.Fprintf(out, "  metric: %s [%s]%s\n", m.Name, m.Type, marker)
			}
			for _, a := range s.Reporting.Aggregate {
				fmt.Fprintf(out, "  aggregate: %s = %s(%s)\n", a.Name, a.Type, a.Metric)
			}
			return nil
		},
	}
}
