package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/justinsiek/yardstick-engine/internal/config"
	"github.com/justinsiek/yardstick-engine/internal/store"
)

type historyOptions struct {
	limit  int
	dbPath string
}

func newHistoryCmd(st *cliState) *cobra.Command {
	var opts historyOptions

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived benchmark runs",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryList(cmd, st, &opts)
		},
	}

	cmd.Flags().IntVar(&opts.limit, "limit", 20, "max runs to list")
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "archive database path (overrides config)")

	cmd.AddCommand(newHistoryShowCmd(st, &opts))
	return cmd
}

func newHistoryShowCmd(st *cliState, opts *historyOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show per-system summaries for an archived run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistoryShow(cmd, st, opts, args[0])
		},
	}
}

func openArchive(st *cliState, override string) (*store.Store, error) {
	path := strings.TrimSpace(override)
	if path == "" {
		path = strings.TrimSpace(st.cfg.Storage.Path)
	}
	if path == "" {
		path = config.DefaultStorePath
	}
	return store.Open(path)
}

func runHistoryList(cmd *cobra.Command, st *cliState, opts *historyOptions) error {
	db, err := openArchive(st, opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListRuns(cmd.Context(), opts.limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no archived runs")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RUN\tSPEC\tVERSION\tWHEN\tSYSTEMS")
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			r.ID, r.SpecID, r.SpecVersion, r.GeneratedAt.Format(time.RFC3339), r.Systems)
	}
	return tw.Flush()
}

func runHistoryShow(cmd *cobra.Command, st *cliState, opts *historyOptions, runID string) error {
	db, err := openArchive(st, opts.dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	reports, err := db.GetSystemReports(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return fmt.Errorf("history: run %q not found", runID)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SYSTEM\tCASES\tERRORS\tAGGREGATES")
	for _, rep := range reports {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n",
			rep.System, rep.Cases, rep.ErrorCount, formatAggregates(rep.Aggregates))
	}
	return tw.Flush()
}
