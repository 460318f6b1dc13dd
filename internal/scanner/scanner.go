package scanner

import (
	"context"
	"time"

	"github.com/sadopc/usbclean/internal/model"
)

// DefaultMaxDepth caps recursion below the scan root.
const DefaultMaxDepth = 256

// ScanOptions configures the scanner behavior.
type ScanOptions struct {
	// Policy selects shallow (root children only) or deep traversal.
	Policy model.ScanPolicy
	// FollowSymlinks descends into symlinked directories (default: false)
	FollowSymlinks bool
	// ExcludePatterns is a list of directory names to skip
	ExcludePatterns []string
	// Concurrency overrides the default worker count (0 = auto)
	Concurrency int
	// MaxDepth bounds recursion (0 = DefaultMaxDepth)
	MaxDepth int
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() ScanOptions {
	return ScanOptions{
		Policy:          model.PolicyShallow,
		FollowSymlinks:  false,
		ExcludePatterns: []string{},
		Concurrency:     0,
		MaxDepth:        DefaultMaxDepth,
	}
}

// Scanner is the interface for junk scanning.
type Scanner interface {
	// Scan walks path and returns every junk entry found.
	// Progress updates are sent on the progress channel.
	Scan(ctx context.Context, path string, opts ScanOptions, progress chan<- Progress) (*Result, error)
}

// Result wraps the outcome of a scan. Errors holds the non-fatal
// enumeration and attribute errors met along the way.
type Result struct {
	Root     string
	Policy   model.ScanPolicy
	Entries  []model.Entry
	Errors   []error
	Duration time.Duration
}
