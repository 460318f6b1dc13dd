package model

import (
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	maxInt64 = int64(^uint64(0) >> 1)
)

// Entry is one junk match found during a scan.
type Entry struct {
	ID    uuid.UUID `json:"id"`
	Path  string    `json:"path"` // Absolute path exactly as found on disk
	Name  string    `json:"name"` // Final path segment, NFC-normalized for display
	Size  int64     `json:"size"` // Regular files only; 0 otherwise
	IsDir bool      `json:"dir,omitempty"`
	Rule  string    `json:"rule"`
}

// NewEntry mints a new entry with a fresh identifier.
func NewEntry(path string, size int64, isDir bool, rule string) Entry {
	if size < 0 {
		size = 0
	}
	return Entry{
		ID:    uuid.New(),
		Path:  path,
		Name:  DisplayName(path),
		Size:  size,
		IsDir: isDir,
		Rule:  rule,
	}
}

// Equal reports whether two entries are the same discovery.
func (e Entry) Equal(o Entry) bool { return e.ID == o.ID }

// DisplayName returns the NFC form of the final path segment. macOS volumes
// hand back decomposed names, which would otherwise sort and render oddly.
func DisplayName(path string) string {
	return norm.NFC.String(filepath.Base(path))
}

// TotalSize sums entry sizes, saturating instead of overflowing.
func TotalSize(entries []Entry) int64 {
	var total int64
	for _, e := range entries {
		if e.Size > 0 && total > maxInt64-e.Size {
			return maxInt64
		}
		total += e.Size
	}
	return total
}

// RemoveByID returns entries minus every entry whose ID is in drop.
// The input slice is not modified.
func RemoveByID(entries []Entry, drop []Entry) []Entry {
	if len(drop) == 0 {
		out := make([]Entry, len(entries))
		copy(out, entries)
		return out
	}
	ids := make(map[uuid.UUID]struct{}, len(drop))
	for _, d := range drop {
		ids[d.ID] = struct{}{}
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if _, ok := ids[e.ID]; ok {
			continue
		}
		out = append(out, e)
	}
	return out
}
