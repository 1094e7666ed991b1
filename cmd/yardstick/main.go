package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/justinsiek/yardstick-engine/internal/config"
)

type cliState struct {
	configPath string
	cfg        *config.Config
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

// errRunFailed signals a run that ended in the failed state; the
// details have already been written to stderr.
var errRunFailed = errors.New("yardstick: run failed")

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errRunFailed) {
			fmt.Fprintln(stderrWriter, err)
		}
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: ""}

	root := &cobra.Command{
		Use:           "yardstick",
		Short:         "Run HTTP benchmark suites from declarative specs",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newValidateCmd())
	root.AddCommand(newRunCmd(st))
	root.AddCommand(newHistoryCmd(st))
	root.AddCommand(newServeDemoCmd())
	root.AddCommand(newProxyCmd())
	return root
}

func loadConfig(st *cliState) error {
	cfg, err := config.Load(st.configPath)
	if err != nil {
		return err
	}
	st.cfg = cfg
	return nil
}
