package ops

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sadopc/usbclean/internal/logging"
	"github.com/sadopc/usbclean/internal/model"
)

// DeletionError records one entry that could not be removed.
type DeletionError struct {
	Entry model.Entry
	Err   error
}

func (e *DeletionError) Error() string {
	return fmt.Sprintf("cannot remove %s: %v", e.Entry.Path, e.Err)
}

func (e *DeletionError) Unwrap() error { return e.Err }

// CleanReport summarizes a batch deletion.
type CleanReport struct {
	FilesDeleted int
	BytesFreed   int64
	// Deleted lists the entries that were removed, in selection order.
	Deleted  []model.Entry
	Failures []*DeletionError
	// Skipped lists entries never attempted because ctx was cancelled.
	Skipped []model.Entry
}

// Clean removes every entry in selection that lies inside root. It is best
// effort: a failure is recorded and the batch moves on. Nothing is rolled
// back. Entries already gone from disk are reported as failures since this
// call did not remove them.
func Clean(ctx context.Context, root string, selection []model.Entry, logger *slog.Logger) CleanReport {
	if logger == nil {
		logger = logging.Discard()
	}

	var report CleanReport
	for i, entry := range selection {
		if ctx.Err() != nil {
			report.Skipped = append(report.Skipped, selection[i:]...)
			break
		}

		if err := Delete(entry.Path, root); err != nil {
			logger.Warn("delete failed", "path", entry.Path, "err", err)
			report.Failures = append(report.Failures, &DeletionError{Entry: entry, Err: err})
			continue
		}

		report.FilesDeleted++
		report.BytesFreed += entry.Size
		report.Deleted = append(report.Deleted, entry)
	}

	logger.Info("clean finished",
		"root", root,
		"deleted", report.FilesDeleted,
		"bytes", report.BytesFreed,
		"failed", len(report.Failures),
		"skipped", len(report.Skipped),
	)
	return report
}
