package scanner

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sadopc/usbclean/internal/junk"
	"github.com/sadopc/usbclean/internal/logging"
	"github.com/sadopc/usbclean/internal/model"
	"golang.org/x/sync/errgroup"
)

var (
	errNotDir     = errors.New("not a directory")
	errDepthLimit = errors.New("maximum scan depth reached")
)

// ParallelScanner implements Scanner with goroutine-per-directory parallelism.
type ParallelScanner struct {
	classifier *junk.Classifier
	logger     *slog.Logger
}

// NewParallelScanner creates a new parallel scanner. A nil classifier uses the
// built-in junk rules; a nil logger discards output.
func NewParallelScanner(classifier *junk.Classifier, logger *slog.Logger) *ParallelScanner {
	if classifier == nil {
		classifier = junk.Default()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &ParallelScanner{classifier: classifier, logger: logger}
}

// walk holds the state shared by every directory visit of one scan.
// Matches are private to the walk until Scan returns.
type walk struct {
	ctx        context.Context
	opts       ScanOptions
	classifier *junk.Classifier
	logger     *slog.Logger
	group      *errgroup.Group
	maxDepth   int
	excludeSet map[string]bool

	dirsScanned, visited, matches, bytesFound, errCount atomic.Int64
	currentPath                                         atomic.Pointer[string]

	mu      sync.Mutex
	entries []model.Entry
	errs    []error

	// Visited directories by device+inode, or by canonical path where the
	// platform has no inode numbers. Guards against symlink loops.
	seenMu    sync.Mutex
	seenKeys  map[dirKey]bool
	seenPaths map[string]bool
}

func (s *ParallelScanner) Scan(ctx context.Context, path string, opts ScanOptions, progress chan<- Progress) (*Result, error) {
	startTime := time.Now()
	result := &Result{Policy: opts.Policy}

	// Determine concurrency
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.GOMAXPROCS(0) * 3
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	group := &errgroup.Group{}
	group.SetLimit(concurrency)

	w := &walk{
		ctx:        ctx,
		opts:       opts,
		classifier: s.classifier,
		logger:     s.logger,
		group:      group,
		maxDepth:   maxDepth,
		excludeSet: make(map[string]bool, len(opts.ExcludePatterns)),
		seenKeys:   make(map[dirKey]bool),
		seenPaths:  make(map[string]bool),
	}
	for _, p := range opts.ExcludePatterns {
		w.excludeSet[p] = true
	}

	// Progress reporter goroutine
	var progressWg sync.WaitGroup
	progressDone := make(chan struct{})
	if progress != nil {
		progressWg.Add(1)
		go func() {
			defer progressWg.Done()
			ticker := time.NewTicker(50 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					select {
					case progress <- w.snapshot(startTime, false):
					default:
						// Drop if channel full
					}
				case <-progressDone:
					return
				}
			}
		}()
	}

	if root, info, ok := w.resolveRoot(path); ok {
		result.Root = root
		w.markSeen(root, info)
		w.scanDir(root, 0)
		_ = group.Wait()
	} else {
		result.Root = root
	}

	model.SortEntries(w.entries, model.DefaultSort())
	result.Entries = w.entries
	result.Errors = w.errs
	result.Duration = time.Since(startTime)

	// Send final progress
	if progress != nil {
		close(progressDone)
		progressWg.Wait()
		select {
		case progress <- w.snapshot(startTime, true):
		default:
		}
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	s.logger.Info("scan finished",
		"root", result.Root,
		"policy", opts.Policy.String(),
		"matches", len(result.Entries),
		"errors", len(result.Errors),
		"duration", result.Duration,
	)
	return result, nil
}

// resolveRoot makes path absolute, follows symlinks on the root itself and
// checks it is a listable directory. Failures are recorded, not returned.
func (w *walk) resolveRoot(path string) (string, os.FileInfo, bool) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		w.fail(&EnumerationError{Path: path, Err: err})
		return path, nil, false
	}

	// Use Stat (not Lstat) so symlinked roots like /tmp -> /private/tmp work
	info, err := os.Stat(absPath)
	if err != nil {
		w.fail(&EnumerationError{Path: absPath, Err: err})
		return absPath, nil, false
	}
	if !info.IsDir() {
		w.fail(&EnumerationError{Path: absPath, Err: errNotDir})
		return absPath, nil, false
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		absPath = resolved
	}
	return absPath, info, true
}

func (w *walk) scanDir(dirPath string, depth int) {
	if w.ctx.Err() != nil {
		return
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		w.fail(&EnumerationError{Path: dirPath, Err: err})
		return
	}

	w.dirsScanned.Add(1)
	w.currentPath.Store(&dirPath)

	for _, entry := range entries {
		if w.ctx.Err() != nil {
			return
		}

		name := entry.Name()
		fullPath := filepath.Join(dirPath, name)
		isDir := entry.IsDir()
		w.visited.Add(1)

		if rule, ok := w.classifier.Accept(name, isDir); ok {
			w.addMatch(fullPath, entry, rule)
			continue
		}

		if !w.opts.Policy.Deep() || w.excludeSet[name] {
			continue
		}

		if isDir {
			info, err := entry.Info()
			if err != nil {
				w.fail(&EnumerationError{Path: fullPath, Err: err})
				continue
			}
			w.descend(fullPath, info, depth+1)
		} else if entry.Type()&os.ModeSymlink != 0 && w.opts.FollowSymlinks {
			resolvedPath, err := filepath.EvalSymlinks(fullPath)
			if err != nil {
				// Broken links are not directories; nothing to walk.
				continue
			}
			targetInfo, err := os.Stat(resolvedPath)
			if err != nil || !targetInfo.IsDir() {
				continue
			}
			w.descend(resolvedPath, targetInfo, depth+1)
		}
	}
}

// descend schedules a subdirectory visit unless it was already seen or the
// depth cap is hit. If all workers are busy the directory is scanned in the
// current goroutine instead of queueing a blocked one.
func (w *walk) descend(path string, info os.FileInfo, depth int) {
	if depth > w.maxDepth {
		w.fail(&EnumerationError{Path: path, Err: errDepthLimit})
		return
	}
	if !w.markSeen(path, info) {
		return
	}
	if !w.group.TryGo(func() error {
		w.scanDir(path, depth)
		return nil
	}) {
		w.scanDir(path, depth)
	}
}

// markSeen records a directory and reports whether it was new.
func (w *walk) markSeen(path string, info os.FileInfo) bool {
	w.seenMu.Lock()
	defer w.seenMu.Unlock()

	if key, ok := identify(info); ok {
		if w.seenKeys[key] {
			return false
		}
		w.seenKeys[key] = true
		return true
	}

	canonical := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		canonical = resolved
	}
	if w.seenPaths[canonical] {
		return false
	}
	w.seenPaths[canonical] = true
	return true
}

func (w *walk) addMatch(fullPath string, entry os.DirEntry, rule junk.Rule) {
	var size int64
	if entry.Type().IsRegular() {
		info, err := entry.Info()
		if err != nil {
			w.fail(&AttributeReadError{Path: fullPath, Err: err})
		} else {
			size = info.Size()
		}
	}

	e := model.NewEntry(fullPath, size, entry.IsDir(), rule.Name)

	w.mu.Lock()
	w.entries = append(w.entries, e)
	w.mu.Unlock()

	w.matches.Add(1)
	w.bytesFound.Add(size)
}

func (w *walk) fail(err error) {
	w.errCount.Add(1)
	w.logger.Warn("scan error", "err", err)

	w.mu.Lock()
	w.errs = append(w.errs, err)
	w.mu.Unlock()
}

func (w *walk) snapshot(startTime time.Time, done bool) Progress {
	p := Progress{
		DirsScanned:    w.dirsScanned.Load(),
		EntriesVisited: w.visited.Load(),
		Matches:        w.matches.Load(),
		BytesFound:     w.bytesFound.Load(),
		Errors:         w.errCount.Load(),
		Done:           done,
		StartTime:      startTime,
		Duration:       time.Since(startTime),
	}
	if cur := w.currentPath.Load(); cur != nil {
		p.CurrentPath = *cur
	}
	return p
}
