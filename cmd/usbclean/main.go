package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/usbclean/internal/config"
	"github.com/sadopc/usbclean/internal/logging"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/scanner"
	"github.com/sadopc/usbclean/internal/session"
	"github.com/sadopc/usbclean/internal/stats"
	"github.com/sadopc/usbclean/internal/stats/sqlite"
	"github.com/sadopc/usbclean/internal/ui"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var (
	version = "dev"
)

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	configPath     string
	deep           bool
	followSymlinks bool
	exclude        string
	concurrency    int
	statsDB        string
	logFile        string
}

// env is what a command needs once flags and config are resolved.
type env struct {
	cfg      *config.Config
	logger   *slog.Logger
	closeLog func() error
	store    *sqlite.Store
	tracker  *stats.Tracker
	opts     scanner.ScanOptions
}

func (e *env) policy() model.ScanPolicy { return e.opts.Policy }

func (e *env) newSession() *session.Session {
	return session.New(
		scanner.NewParallelScanner(nil, e.logger),
		session.WithLogger(e.logger),
		session.WithStats(e.tracker),
		session.WithScanOptions(e.opts),
	)
}

func (e *env) Close() error {
	var errs []error
	if e.store != nil {
		errs = append(errs, e.store.Close())
	}
	if e.closeLog != nil {
		errs = append(errs, e.closeLog())
	}
	return errors.Join(errs...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}

	root := &cobra.Command{
		Use:   "usbclean [path]",
		Short: "Find and remove OS junk files from removable volumes",
		Long: "usbclean finds operating-system metadata files such as .DS_Store, ._* " +
			"resource forks, Thumbs.db and $RECYCLE.BIN on a volume and removes the ones you pick.",
		Example: `  usbclean /Volumes/USB              Browse junk interactively
  usbclean --deep scan /media/stick  List junk in every subfolder
  usbclean scan --export r.json .    Save a report for review
  usbclean clean --from r.json --yes Delete a reviewed report`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd, g, args)
		},
	}
	root.SetVersionTemplate("usbclean {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Config file (default: user config dir/usbclean/config.yaml)")
	pf.BoolVar(&g.deep, "deep", false, "Scan every subfolder instead of only the top level")
	pf.BoolVar(&g.followSymlinks, "follow-symlinks", false, "Follow symbolic links to directories during deep scans")
	pf.StringVar(&g.exclude, "exclude", "", "Comma-separated list of directory names to skip")
	pf.IntVarP(&g.concurrency, "jobs", "j", 0, "Max concurrent directory scans (0 = auto: 3x CPU cores)")
	pf.StringVar(&g.statsDB, "stats-db", "", "Lifetime stats database (default: user cache dir/usbclean/stats.db)")
	pf.StringVar(&g.logFile, "log-file", "", "Write a structured log to this file")

	root.AddCommand(
		newScanCmd(g),
		newCleanCmd(g),
		newStatsCmd(g),
		newRulesCmd(),
	)
	return root
}

func runInteractive(cmd *cobra.Command, g *globalFlags, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) || !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("interactive mode needs a terminal; use the scan or clean command instead")
	}

	absPath, err := resolveScanPath(args)
	if err != nil {
		return err
	}

	e, err := setup(cmd, g)
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	app := ui.NewApp(e.newSession(), e.tracker, absPath, e.policy())
	app.Confirm = e.cfg.Confirm
	app.Context = ctx

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return app.FatalError()
}

// setup loads the config, applies flag overrides and opens the log and the
// stats store.
func setup(cmd *cobra.Command, g *globalFlags) (*env, error) {
	path := g.configPath
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}
	cfg := config.DefaultConfig()
	if path != "" {
		loaded, err := config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if err := applyFlags(cfg, cmd.Flags(), g); err != nil {
		return nil, err
	}

	logger, closeLog, err := logging.New(cfg.LogFile, slog.LevelInfo)
	if err != nil {
		return nil, err
	}
	e := &env{
		cfg:      cfg,
		logger:   logger,
		closeLog: closeLog,
		opts:     scanOptions(cfg),
	}

	dbPath := cfg.StatsDB
	if dbPath == "" {
		if p, err := sqlite.DefaultPath(); err == nil {
			dbPath = p
		}
	}
	if dbPath != "" {
		store, err := sqlite.Open(dbPath)
		if err != nil {
			// Stats are bookkeeping only; cleaning still works without them.
			logger.Warn("stats store unavailable", "path", dbPath, "err", err)
		} else {
			e.store = store
		}
	}

	var store stats.Store
	if e.store != nil {
		store = e.store
	}
	tracker, err := stats.Load(cmd.Context(), store)
	if err != nil {
		_ = e.Close()
		return nil, err
	}
	e.tracker = tracker
	return e, nil
}

// applyFlags overrides config values with the flags the user actually set.
func applyFlags(cfg *config.Config, flags *pflag.FlagSet, g *globalFlags) error {
	if flags.Changed("deep") {
		cfg.Deep = g.deep
	}
	if flags.Changed("follow-symlinks") {
		cfg.FollowSymlinks = g.followSymlinks
	}
	if flags.Changed("exclude") {
		cfg.Exclude = splitComma(g.exclude)
	}
	if flags.Changed("jobs") {
		cfg.Concurrency = g.concurrency
	}
	if flags.Changed("stats-db") {
		cfg.StatsDB = g.statsDB
	}
	if flags.Changed("log-file") {
		cfg.LogFile = g.logFile
	}
	return cfg.Validate()
}

func scanOptions(cfg *config.Config) scanner.ScanOptions {
	opts := scanner.DefaultOptions()
	opts.Policy = model.PolicyFor(cfg.Deep)
	opts.FollowSymlinks = cfg.FollowSymlinks
	opts.ExcludePatterns = append([]string(nil), cfg.Exclude...)
	opts.Concurrency = cfg.Concurrency
	if cfg.MaxDepth > 0 {
		opts.MaxDepth = cfg.MaxDepth
	}
	return opts
}

// resolveScanPath returns the absolute scan root named by args, defaulting
// to the current directory.
func resolveScanPath(args []string) (string, error) {
	target := "."
	if len(args) > 1 {
		return "", fmt.Errorf("too many positional arguments")
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		target = args[0]
	}

	absPath, err := filepath.Abs(target)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", absPath)
	}
	return absPath, nil
}

func splitComma(s string) []string {
	result := []string{}
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
