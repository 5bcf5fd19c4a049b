// Package cli provides the simtest command line.
package cli

import (
	"context"
	stderrors "errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simtest/internal/errors"
	"github.com/AndreyAkinshin/simtest/internal/output"
)

// Version is set at build time.
var Version = "dev"

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, args, output.New(), os.Getenv)
}

// app holds the state shared by the commands of one invocation.
type app struct {
	w      *output.Writer
	getenv func(string) string
	flags  flags
	status int
}

func run(ctx context.Context, args []string, w *output.Writer, getenv func(string) string) int {
	a := &app{w: w, getenv: getenv}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetOut(w.Out())
	root.SetErr(w.Err())

	if err := root.ExecuteContext(ctx); err != nil {
		w.ErrorPrefix("%v", err)
		code := exitCode(err)
		if code == errors.ExitConfigError {
			w.Hint("Run 'simtest --help' for usage.")
		}
		return code
	}
	return a.status
}

// exitCode maps a command error to an exit status. Errors raised by cobra
// itself (unknown command, wrong argument count) are usage errors.
func exitCode(err error) int {
	var se *errors.Error
	if stderrors.As(err, &se) {
		return se.ExitCode()
	}
	return errors.ExitConfigError
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "simtest",
		Short: "Run physim simulation tests concurrently",
		Long: `simtest discovers simulation test scripts (*.test.ts) under a directory,
runs each one through the physim simulator in parallel and reports the
results live as they complete.

The exit status is 0 when no test failed and no system error occurred,
1 otherwise, 2 on a configuration or usage error and 3 when the simulator
cannot be started.`,
		Args:          cobra.NoArgs,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTests(cmd)
		},
	}
	root.SetVersionTemplate("simtest version {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Config(err.Error())
	})

	a.registerFlags(root)

	root.AddCommand(
		a.newInitCmd(),
		a.newDocsCmd(),
		a.newVersionCmd(),
	)
	return root
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			a.w.Println("simtest version %s", Version)
		},
	}
}
