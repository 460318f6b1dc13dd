package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/sadopc/usbclean/internal/junk"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/ops"
	"github.com/sadopc/usbclean/internal/scanner"
	"github.com/sadopc/usbclean/internal/session"
	"github.com/sadopc/usbclean/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newScanCmd(g *globalFlags) *cobra.Command {
	var exportPath string

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "List junk files without deleting anything",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := resolveScanPath(args)
			if err != nil {
				return err
			}
			e, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			if exportPath != "" && exportPath != "-" {
				fmt.Fprintf(out, "Scanning %s...\n", absPath)
			}

			o, err := runScan(cmd.Context(), e.newSession(), absPath, e.policy())
			if err != nil {
				return err
			}
			warnUnreadable(cmd.ErrOrStderr(), o)

			if exportPath != "" {
				report := ops.NewReport(o.Root, e.policy(), o.Entries)
				if err := ops.ExportJSON(report, exportPath, version); err != nil {
					return fmt.Errorf("export error: %w", err)
				}
				if exportPath != "-" {
					fmt.Fprintf(out, "Exported to %s\n", exportPath)
				}
				return nil
			}

			printEntries(out, o.Root, o.Entries)
			fmt.Fprintln(out, o.Status)
			return nil
		},
	}
	cmd.Flags().StringVar(&exportPath, "export", "", "Write the scan report to a JSON file ('-' for stdout)")
	return cmd
}

func newCleanCmd(g *globalFlags) *cobra.Command {
	var (
		fromPath string
		yes      bool
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "clean [path]",
		Short: "Scan and delete junk files",
		Long: "Scan a volume and delete every junk file found, or delete the entries of a " +
			"report written earlier by 'usbclean scan --export'.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if fromPath != "" && len(args) > 0 {
				return errors.New("--from cannot be used with a scan path")
			}
			e, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			sess := e.newSession()

			var root string
			if fromPath != "" {
				report, err := ops.ImportJSON(fromPath)
				if err != nil {
					return fmt.Errorf("error importing: %w", err)
				}
				if err := sess.Restore(report.Root, report.Policy, report.Entries); err != nil {
					return err
				}
				root = report.Root
			} else {
				absPath, err := resolveScanPath(args)
				if err != nil {
					return err
				}
				o, err := runScan(ctx, sess, absPath, e.policy())
				if err != nil {
					return err
				}
				warnUnreadable(cmd.ErrOrStderr(), o)
				root = o.Root
			}

			entries := sess.Results()
			if len(entries) == 0 {
				fmt.Fprintln(out, "Nothing to clean.")
				return nil
			}
			printEntries(out, root, entries)

			total := model.TotalSize(entries)
			if dryRun {
				fmt.Fprintf(out, "Would delete %d files (%s).\n", len(entries), util.FormatSize(total))
				return nil
			}
			if e.cfg.Confirm && !yes {
				ok, err := confirm(cmd.InOrStdin(), out, len(entries), total)
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out, "Aborted.")
					return nil
				}
			}

			report, statsErr := sess.Clean(ctx, entries)
			for _, f := range report.Failures {
				fmt.Fprintf(cmd.ErrOrStderr(), "failed: %v\n", f)
			}
			fmt.Fprintln(out, sess.Status())
			fmt.Fprintf(out, "Freed %s.\n", util.FormatSize(report.BytesFreed))
			if n := len(report.Skipped); n > 0 {
				fmt.Fprintf(out, "Skipped %d files.\n", n)
			}
			if statsErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", statsErr)
			}
			if n := len(report.Failures); n > 0 {
				return fmt.Errorf("%d file(s) could not be deleted", n)
			}
			return ctx.Err()
		},
	}
	cmd.Flags().StringVar(&fromPath, "from", "", "Delete the entries of a previously exported report")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be deleted without deleting")
	return cmd
}

func newStatsCmd(g *globalFlags) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show lifetime cleanup totals and recent runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, g)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			totals := e.tracker.Totals()
			fmt.Fprintf(out, "Lifetime: %s files, %s freed\n",
				util.FormatCount(totals.Files), util.FormatSize(totals.Bytes))

			runs, err := e.tracker.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				return nil
			}
			fmt.Fprintln(out, "Recent runs:")
			for _, r := range runs {
				fmt.Fprintf(out, "  %s  %s files  %s  %s\n",
					util.PadRight(humanize.Time(r.At), 16),
					util.FormatCount(r.Files),
					util.PadRight(util.FormatSize(r.Bytes), 10),
					r.Root,
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of recent runs to show")
	return cmd
}

func newRulesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rules",
		Short: "List the junk file rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, r := range junk.DefaultRules() {
				target := "files"
				if r.AllowDir {
					target = "files, folders"
				}
				fmt.Fprintf(out, "%s %s %s %s\n",
					util.PadRight(r.Name, 27),
					util.PadRight(r.Kind.String(), 7),
					util.PadRight(r.Pattern, 26),
					target,
				)
			}
			return nil
		},
	}
}

// runScan scans root through sess and waits for the outcome. Progress is
// drawn on stderr when it is a terminal.
func runScan(ctx context.Context, sess *session.Session, root string, policy model.ScanPolicy) (session.Outcome, error) {
	progressCh := make(chan scanner.Progress, 10)
	showProgress := term.IsTerminal(int(os.Stderr.Fd()))

	var progressWg sync.WaitGroup
	progressWg.Add(1)
	go func() {
		defer progressWg.Done()
		drawn := false
		for p := range progressCh {
			if !showProgress {
				continue
			}
			fmt.Fprintf(os.Stderr, "\rScanning %s: %d junk, %d dirs, %d errors...",
				root, p.Matches, p.DirsScanned, p.Errors)
			drawn = true
		}
		if drawn {
			fmt.Fprintln(os.Stderr)
		}
	}()

	outcomes, err := sess.Scan(ctx, root, policy, progressCh)
	if err != nil {
		close(progressCh)
		progressWg.Wait()
		return session.Outcome{}, err
	}
	o := <-outcomes
	close(progressCh)
	progressWg.Wait()

	if o.Err != nil {
		return o, fmt.Errorf("scan %s: %w", root, o.Err)
	}
	return o, nil
}

func warnUnreadable(w io.Writer, o session.Outcome) {
	for _, err := range o.Errors {
		fmt.Fprintf(w, "warning: %v\n", err)
	}
}

func printEntries(w io.Writer, root string, entries []model.Entry) {
	for _, e := range entries {
		size := util.FormatSize(e.Size)
		if e.IsDir {
			size = "-"
		}
		fmt.Fprintf(w, "%10s  %s %s\n", size, util.PadRight(e.Rule, 26), displayPath(root, e))
	}
}

func displayPath(root string, e model.Entry) string {
	p := e.Path
	if root != "" {
		p = strings.TrimPrefix(strings.TrimPrefix(p, root), string(os.PathSeparator))
	}
	if e.IsDir {
		p += string(os.PathSeparator)
	}
	return p
}

func confirm(in io.Reader, out io.Writer, n int, size int64) (bool, error) {
	if f, ok := in.(*os.File); ok && !term.IsTerminal(int(f.Fd())) {
		return false, errors.New("refusing to delete without confirmation; pass --yes")
	}
	fmt.Fprintf(out, "Delete %d files (%s)? [y/N] ", n, util.FormatSize(size))
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
