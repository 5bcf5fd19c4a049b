package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simtest/internal/errors"
	"github.com/AndreyAkinshin/simtest/internal/sim"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [dir]",
		Short: "Initialize a physim project",
		Long: `Run "physim init" in dir (the current directory by default) to create
a new simulation project.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return errors.NotFound("directory", dir)
			}

			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner := a.newRunner(cfg, a.newLogger(cfg, a.w.Err()))

			res := runner.Command(cmd.Context(), dir, "init")
			if res.ExitCode != 0 {
				return commandFailure("init", fmt.Sprintf("failed to initialize physim project in %s", dir), res)
			}
			if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
				a.w.Println("%s", out)
			}
			a.w.Success("Initialized physim project in %s", dir)
			return nil
		},
	}
}

func (a *app) newDocsCmd() *cobra.Command {
	var printPath bool

	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Generate the physim Markdown documentation",
		Long: `Run "physim docs --markdown" to generate the simulator's Markdown
documentation. With --path, print where the documentation lives instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			runner := a.newRunner(cfg, a.newLogger(cfg, a.w.Err()))

			if printPath {
				res := runner.Command(cmd.Context(), "", "docs", "--print-md-path")
				if res.ExitCode != 0 {
					return commandFailure("docs", "failed to get docs path", res)
				}
				a.w.Println("%s", strings.TrimSpace(res.Stdout))
				return nil
			}

			res := runner.Command(cmd.Context(), "", "docs", "--markdown")
			if res.ExitCode != 0 {
				return commandFailure("docs", "failed to generate markdown docs", res)
			}
			if out := strings.TrimRight(res.Stdout, "\n"); out != "" {
				a.w.Println("%s", out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&printPath, "path", false, "Print the path of the generated documentation")
	return cmd
}

// commandFailure turns a failed simulator subcommand into an error. A
// simulator that could not be started is an environment error.
func commandFailure(command, what string, res sim.Result) error {
	if !res.Launched() {
		return errors.Environment(strings.TrimSpace(res.Stderr))
	}
	return errors.CommandError("physim "+command, fmt.Sprintf("%s (exit code %d)\nstdout: %s\nstderr: %s",
		what, res.ExitCode, strings.TrimSpace(res.Stdout), strings.TrimSpace(res.Stderr)))
}
