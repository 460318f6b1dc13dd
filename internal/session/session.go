// Package session owns the caller-visible state of scanning a volume for
// junk and cleaning it up: the scan state, the latest result set and a
// human-readable status line.
//
// A walk runs in the background against a private list and publishes it in
// one step when it finishes. Callers either wait on the Outcome channel that
// Scan returns or poll the accessors.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/sadopc/usbclean/internal/logging"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/ops"
	"github.com/sadopc/usbclean/internal/scanner"
)

var (
	// ErrScanInProgress is returned by Scan and Clean while a scan is running.
	ErrScanInProgress = errors.New("scan already in progress")
	// ErrCleanInProgress is returned by Scan and Clean while a clean is running.
	ErrCleanInProgress = errors.New("clean already in progress")
	// ErrNoRoot is returned by Clean before any scan has set a root.
	ErrNoRoot = errors.New("no scan root to clean")
)

// StatsRecorder receives successful cleanups for lifetime bookkeeping.
type StatsRecorder interface {
	AddCleaned(ctx context.Context, root string, files int, bytes int64) error
}

// Outcome is delivered once per scan.
type Outcome struct {
	Root    string
	Entries []model.Entry
	State   model.ScanState
	Status  string
	// Errors are the non-fatal enumeration and attribute errors of the walk.
	Errors []error
	// Err is set when the walk was cancelled or failed.
	Err error
}

// Option configures a Session.
type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithStats(stats StatsRecorder) Option {
	return func(s *Session) { s.stats = stats }
}

// WithScanOptions sets the walker options. The policy is overridden per scan.
func WithScanOptions(opts scanner.ScanOptions) Option {
	return func(s *Session) { s.scanOpts = opts }
}

// Session is safe for concurrent use.
type Session struct {
	walker   scanner.Scanner
	logger   *slog.Logger
	stats    StatsRecorder
	scanOpts scanner.ScanOptions

	mu       sync.Mutex
	state    model.ScanState
	root     string
	policy   model.ScanPolicy
	results  []model.Entry
	status   string
	cancel   context.CancelFunc
	cleaning bool
}

// Snapshot is a consistent copy of the observable fields.
type Snapshot struct {
	State   model.ScanState
	Root    string
	Policy  model.ScanPolicy
	Results []model.Entry
	Status  string
}

const statusReady = "Ready to scan"

func New(walker scanner.Scanner, opts ...Option) *Session {
	s := &Session{
		walker:   walker,
		logger:   logging.Discard(),
		scanOpts: scanner.DefaultOptions(),
		state:    model.Idle(),
		status:   statusReady,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scan starts a background walk of root and returns immediately. The
// previous result set is cleared before Scan returns. The returned channel
// receives exactly one Outcome and is then closed.
func (s *Session) Scan(ctx context.Context, root string, policy model.ScanPolicy, progress chan<- scanner.Progress) (<-chan Outcome, error) {
	s.mu.Lock()
	if s.state.Kind == model.StateScanning {
		s.mu.Unlock()
		return nil, ErrScanInProgress
	}
	if s.cleaning {
		s.mu.Unlock()
		return nil, ErrCleanInProgress
	}

	scanCtx, cancel := context.WithCancel(ctx)
	s.state = model.Scanning()
	s.results = nil
	s.root = root
	s.policy = policy
	s.status = fmt.Sprintf("Scanning %s...", filepath.Base(filepath.Clean(root)))
	s.cancel = cancel
	s.mu.Unlock()

	s.logger.Info("scan started", "root", root, "policy", policy.String())

	opts := s.scanOpts
	opts.Policy = policy

	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		defer cancel()

		result, err := s.walker.Scan(scanCtx, root, opts, progress)
		out <- s.publish(result, err)
	}()
	return out, nil
}

// publish is the single handoff from the walk to the caller-visible state.
func (s *Session) publish(result *scanner.Result, err error) Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancel = nil
	var o Outcome
	if result != nil {
		o.Errors = result.Errors
		if result.Root != "" {
			s.root = result.Root
		}
	}

	switch {
	case err != nil:
		s.state = model.Cancelled()
		s.results = nil
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.status = "Scan cancelled."
		} else {
			s.status = fmt.Sprintf("Scan failed: %v", err)
		}
		o.Err = err
		s.logger.Info("scan stopped", "root", s.root, "err", err)
	default:
		var entries []model.Entry
		if result != nil {
			entries = result.Entries
		}
		s.results = entries
		s.state = model.Completed(len(entries))
		s.status = fmt.Sprintf("Found %d files.", len(entries))
	}

	o.Root = s.root
	o.Entries = cloneEntries(s.results)
	o.State = s.state
	o.Status = s.status
	return o
}

// Cancel stops an in-flight scan. It is a no-op otherwise.
func (s *Session) Cancel() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Restore installs a previously exported result set as if a scan of root had
// just completed, so it can be cleaned without walking the volume again.
func (s *Session) Restore(root string, policy model.ScanPolicy, entries []model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Kind == model.StateScanning {
		return ErrScanInProgress
	}
	if s.cleaning {
		return ErrCleanInProgress
	}
	s.root = root
	s.policy = policy
	s.results = cloneEntries(entries)
	s.state = model.Completed(len(entries))
	s.status = fmt.Sprintf("Found %d files.", len(entries))
	return nil
}

// Clean deletes selection from disk, confined to the root of the latest
// scan, and drops the successfully deleted entries from the result set.
// Entries that could not be deleted stay in the result set. The returned
// error only reports a stats failure or a rejected call; the report is valid
// whenever the call was not rejected.
func (s *Session) Clean(ctx context.Context, selection []model.Entry) (ops.CleanReport, error) {
	s.mu.Lock()
	if s.state.Kind == model.StateScanning {
		s.mu.Unlock()
		return ops.CleanReport{}, ErrScanInProgress
	}
	if s.cleaning {
		s.mu.Unlock()
		return ops.CleanReport{}, ErrCleanInProgress
	}
	root := s.root
	if root == "" {
		s.mu.Unlock()
		return ops.CleanReport{}, ErrNoRoot
	}
	s.cleaning = true
	s.mu.Unlock()

	report := ops.Clean(ctx, root, selection, s.logger)

	s.mu.Lock()
	s.cleaning = false
	s.results = model.RemoveByID(s.results, report.Deleted)
	if s.state.Kind == model.StateCompleted {
		s.state = model.Completed(len(s.results))
	}
	s.status = fmt.Sprintf("Cleaned %d files.", report.FilesDeleted)
	s.mu.Unlock()

	if report.FilesDeleted > 0 && s.stats != nil {
		if err := s.stats.AddCleaned(ctx, root, report.FilesDeleted, report.BytesFreed); err != nil {
			s.logger.Warn("stats update failed", "err", err)
			return report, fmt.Errorf("update lifetime stats: %w", err)
		}
	}
	return report, nil
}

func (s *Session) State() model.ScanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Results returns a copy of the current result set.
func (s *Session) Results() []model.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEntries(s.results)
}

func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Root is the root of the latest scan, resolved once the walk finishes.
func (s *Session) Root() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.root
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:   s.state,
		Root:    s.root,
		Policy:  s.policy,
		Results: cloneEntries(s.results),
		Status:  s.status,
	}
}

func cloneEntries(entries []model.Entry) []model.Entry {
	if entries == nil {
		return nil
	}
	out := make([]model.Entry, len(entries))
	copy(out, entries)
	return out
}
