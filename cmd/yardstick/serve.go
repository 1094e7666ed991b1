package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/justinsiek/yardstick-engine/internal/demoserver"
	"github.com/justinsiek/yardstick-engine/internal/proxy"
)

func newServeDemoCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve-demo",
		Short: "Serve the built-in addition solver for smoke-testing runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
			logger.Info("serving demo solver", "addr", addr)
			return demoserver.NewServer().Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	return cmd
}

type proxyOptions struct {
	provider     string
	addr         string
	model        string
	baseURL      string
	systemPrompt string
	maxTokens    int
}

func newProxyCmd() *cobra.Command {
	var opts proxyOptions

	cmd := &cobra.Command{
		Use:   "proxy",
		Short: "Expose a hosted LLM API behind the /solve contract",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProxy(&opts)
		},
	}

	cmd.Flags().StringVar(&opts.provider, "provider", "", fmt.Sprintf("provider: %s", strings.Join(proxy.Providers(), "|")))
	cmd.Flags().StringVar(&opts.addr, "addr", ":8001", "listen address")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (provider default if empty)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "override the provider API base URL")
	cmd.Flags().StringVar(&opts.systemPrompt, "system-prompt", "", "path to a system prompt file")
	cmd.Flags().IntVar(&opts.maxTokens, "max-tokens", 0, "completion token cap (provider default if 0)")
	_ = cmd.MarkFlagRequired("provider")

	return cmd
}

func runProxy(opts *proxyOptions) error {
	prompt, err := proxy.LoadSystemPrompt(opts.systemPrompt)
	if err != nil {
		return err
	}

	solver, err := proxy.NewSolver(opts.provider, proxy.Options{
		BaseURL:      opts.baseURL,
		Model:        opts.model,
		SystemPrompt: prompt,
		MaxTokens:    opts.maxTokens,
	})
	if err != nil {
		return err
	}

	srv, err := proxy.NewServer(solver)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	logger.Info("serving provider proxy", "provider", solver.Name(), "addr", opts.addr)
	return srv.Run(opts.addr)
}
