package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/AndreyAkinshin/simtest/internal/config"
	"github.com/AndreyAkinshin/simtest/internal/dispatch"
	"github.com/AndreyAkinshin/simtest/internal/display"
	"github.com/AndreyAkinshin/simtest/internal/errors"
	"github.com/AndreyAkinshin/simtest/internal/logging"
	"github.com/AndreyAkinshin/simtest/internal/sim"
)

// flags holds the values bound to command-line flags. Only flags the user
// actually set override the configuration.
type flags struct {
	configPath string
	exe        string
	verbose    bool
	quiet      bool
	logLevel   string
	color      string

	dir       string
	patterns  []string
	jobs      int
	noRaw     bool
	recordDir string
	report    string
	live      string
	noLive    bool
}

func (a *app) registerFlags(root *cobra.Command) {
	// Persistent flags apply to the subcommands that start the simulator too.
	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", config.FileName, "Configuration file")
	pf.StringVar(&a.flags.exe, "exe", "", "Simulator executable (default \"physim\")")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "Log task progress and print a per-file table")
	pf.BoolVarP(&a.flags.quiet, "quiet", "q", false, "Suppress informational messages")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: error, warn, info, debug or trace")
	pf.StringVar(&a.flags.color, "color", "", "Colorize output: auto, always or never")

	f := root.Flags()
	f.StringVar(&a.flags.dir, "dir", "", "Directory to search for tests (default \"tests\")")
	f.StringArrayVar(&a.flags.patterns, "pattern", nil, "Test file name pattern, repeatable (default \"*.test.ts\")")
	f.IntVarP(&a.flags.jobs, "jobs", "j", 0, "Concurrent simulator processes (0 = number of CPUs)")
	f.BoolVar(&a.flags.noRaw, "no-raw", false, "Do not pass --raw to the simulator")
	f.StringVar(&a.flags.recordDir, "record-dir", "", "Record a video of each test under this directory")
	f.StringVar(&a.flags.report, "report", "", "Write a JSON report to this path")
	f.StringVar(&a.flags.live, "live", "", "Redraw results in place: auto, always or never")
	f.BoolVar(&a.flags.noLive, "no-live", false, "Print one line per finished file instead of redrawing")
}

// loadConfig resolves the configuration: the file, then the environment,
// then the flags set on cmd.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	fs := cmd.Flags()

	cfg, err := config.LoadAndValidate(a.flags.configPath, fs.Changed("config"))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, a.getenv); err != nil {
		return nil, err
	}

	if fs.Changed("exe") {
		cfg.Executable = a.flags.exe
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = a.flags.logLevel
	}
	if fs.Changed("color") {
		cfg.Color = a.flags.color
	}
	if fs.Changed("dir") {
		cfg.Directory = a.flags.dir
	}
	if fs.Changed("pattern") {
		cfg.Patterns = a.flags.patterns
	}
	if fs.Changed("jobs") {
		cfg.Jobs = a.flags.jobs
	}
	if fs.Changed("no-raw") {
		raw := !a.flags.noRaw
		cfg.Raw = &raw
	}
	if fs.Changed("record-dir") {
		cfg.RecordDir = a.flags.recordDir
	}
	if fs.Changed("report") {
		cfg.Report = a.flags.report
	}
	if fs.Changed("live") {
		cfg.Live = a.flags.live
	}
	if fs.Changed("no-live") && a.flags.noLive {
		cfg.Live = config.ModeNever
	}

	if cfg.Executable == "" {
		return nil, errors.Config("simulator executable must not be empty")
	}
	if err := config.Validate(cfg); err != nil {
		return nil, errors.Config(err.Error())
	}

	a.w.SetColor(resolveMode(cfg.Color, a.w.Interactive()))
	a.w.SetQuiet(a.flags.quiet)
	return cfg, nil
}

// resolveMode turns an auto/always/never setting into a decision. auto
// follows whether the output is a terminal.
func resolveMode(mode string, interactive bool) bool {
	switch mode {
	case config.ModeAlways:
		return true
	case config.ModeNever:
		return false
	default:
		return interactive
	}
}

// newLogger builds the diagnostic logger writing to w. --verbose raises the
// level to debug unless a more detailed level was requested.
func (a *app) newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.LogLevel
	if a.flags.verbose && logging.ParseLevel(level) > slog.LevelDebug {
		level = "debug"
	}
	return logging.NewLogger(level, w)
}

func (a *app) newRunner(cfg *config.Config, logger *slog.Logger) *sim.Runner {
	r := sim.NewRunner(cfg.Executable)
	r.SetLogger(logger)
	if !a.w.Color() {
		r.SetEnv([]string{config.EnvNoColor + "=1"})
	}
	return r
}

func (a *app) runTests(cmd *cobra.Command) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}

	live := resolveMode(cfg.Live, a.w.Interactive())
	if live && !a.w.Interactive() {
		a.w.Warning("live output requested but stdout is not a terminal")
	}
	disp := display.New(a.w, display.Options{Live: live, Verbose: a.flags.verbose})
	// Workers log while the region is on screen.
	logger := a.newLogger(cfg, disp.LogWriter(a.w.Err()))

	runner := a.newRunner(cfg, logger)
	logger.Debug("configuration resolved",
		"executable", runner.Executable(), "directory", cfg.Directory, "patterns", cfg.Patterns,
		"jobs", cfg.Jobs, "raw", cfg.RawEnabled(), "live", live, "color", a.w.Color())

	d := dispatch.New(runner, disp, a.w, dispatch.Options{
		Patterns:   cfg.Patterns,
		Jobs:       cfg.Jobs,
		Raw:        cfg.RawEnabled(),
		RecordDir:  cfg.RecordDir,
		ReportPath: cfg.Report,
	})
	d.SetLogger(logger)

	a.status = d.Run(cmd.Context(), cfg.Directory)
	return nil
}
