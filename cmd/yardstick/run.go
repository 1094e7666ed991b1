package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/justinsiek/yardstick-engine/internal/aggregate"
	"github.com/justinsiek/yardstick-engine/internal/config"
	"github.com/justinsiek/yardstick-engine/internal/contract"
	"github.com/justinsiek/yardstick-engine/internal/dataset"
	"github.com/justinsiek/yardstick-engine/internal/engine"
	"github.com/justinsiek/yardstick-engine/internal/metric"
	"github.com/justinsiek/yardstick-engine/internal/spec"
	"github.com/justinsiek/yardstick-engine/internal/store"
)

type runOptions struct {
	systems     []string
	concurrency int
	timeout     time.Duration
	out         string
	format      string
	verbose     bool
	archive     bool
	dbPath      string
}

func newRunCmd(st *cliState) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run <spec>",
		Short: "Run a benchmark spec against one or more systems",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return loadConfig(st)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBenchmark(cmd, st, &opts, args[0])
		},
	}

	cmd.Flags().StringArrayVar(&opts.systems, "system", nil, "system under test as name=url (repeatable)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "max in-flight calls per system (overrides config)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "per-call timeout (overrides config)")
	cmd.Flags().StringVar(&opts.out, "out", "", "write the full result artifact to this file")
	cmd.Flags().StringVar(&opts.format, "format", "table", "output format: table|json")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "include per-case results in output")
	cmd.Flags().BoolVar(&opts.archive, "store", false, "archive the run summary in the local database")
	cmd.Flags().StringVar(&opts.dbPath, "db", "", "archive database path (overrides config)")

	return cmd
}

func runBenchmark(cmd *cobra.Command, st *cliState, opts *runOptions, specPath string) error {
	if st == nil || st.cfg == nil {
		return fmt.Errorf("run: missing config (internal error)")
	}

	format := parseOutputFormat(opts.format)
	if format == "" {
		return fmt.Errorf("run: invalid --format %q (expected table|json)", opts.format)
	}

	systems, err := resolveSystems(st.cfg, opts.systems)
	if err != nil {
		return err
	}
	if len(systems) == 0 {
		return fmt.Errorf("run: no systems given (use --system name=url or list them in the config file)")
	}

	metrics := metric.Builtin()
	reductions := aggregate.Builtin()

	s, err := spec.Load(specPath, metrics, reductions)
	if err != nil {
		return err
	}
	src := &dataset.Source{Path: spec.ResolveDatasetPath(specPath, s)}

	concurrency := st.cfg.Execution.Concurrency
	if opts.concurrency > 0 {
		concurrency = opts.concurrency
	}
	timeout := st.cfg.Execution.Timeout
	if opts.timeout > 0 {
		timeout = opts.timeout
	}

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
	logger.Info("starting benchmark run",
		"spec", s.ID,
		"version", string(s.Version),
		"systems", len(systems),
		"concurrency", concurrency,
	)

	runner := engine.NewRunner(s, metrics, reductions, engine.Config{
		Concurrency: concurrency,
		Timeout:     timeout,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, runErr := runner.Run(ctx, src, systems)
	if runErr != nil && res == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run interrupted, result is partial", "reason", runErr)
	}

	if opts.out != "" {
		if err := writeArtifact(opts.out, res, opts.verbose); err != nil {
			return err
		}
		logger.Info("wrote result artifact", "path", opts.out)
	}

	if opts.archive {
		if err := archiveRun(ctx, archivePath(st.cfg, opts.dbPath), res, logger); err != nil {
			return err
		}
	}

	fmt.Fprint(cmd.OutOrStdout(), formatResult(res, format, opts.verbose))

	if runErr != nil {
		return errRunFailed
	}
	return nil
}

func resolveSystems(cfg *config.Config, flags []string) ([]contract.System, error) {
	systems := make([]contract.System, 0, len(cfg.Systems)+len(flags))
	systems = append(systems, cfg.Systems...)
	for _, f := range flags {
		sys, err := contract.ParseSystemFlag(f)
		if err != nil {
			return nil, err
		}
		systems = append(systems, sys)
	}
	return systems, nil
}

func archivePath(cfg *config.Config, override string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	if p := strings.TrimSpace(cfg.Storage.Path); p != "" {
		return p
	}
	return config.DefaultStorePath
}

func archiveRun(ctx context.Context, path string, res *engine.BenchmarkResult, logger *slog.Logger) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	// The run itself may have been cancelled; the save should still land.
	saveCtx := ctx
	if err := ctx.Err(); err != nil && errors.Is(err, context.Canceled) {
		saveCtx = context.Background()
	}

	id, err := db.SaveRun(saveCtx, res)
	if err != nil {
		return err
	}
	logger.Info("archived run", "id", id, "db", path)
	return nil
}
