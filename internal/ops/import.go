package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sadopc/usbclean/internal/model"
)

type reportFile struct {
	reportHeader
	Entries []model.Entry `json:"entries"`
}

// ImportJSON reads a report written by ExportJSON. Entries must be absolute
// paths inside the report root; entries without an id get a fresh one.
func ImportJSON(path string) (Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("cannot open import file: %w", err)
	}

	var raw reportFile
	if err := json.Unmarshal(data, &raw); err != nil {
		return Report{}, fmt.Errorf("invalid JSON: %w", err)
	}

	if raw.Root == "" {
		return Report{}, fmt.Errorf("invalid report: missing root")
	}
	if !filepath.IsAbs(raw.Root) {
		return Report{}, fmt.Errorf("invalid report: root %q is not absolute", raw.Root)
	}
	policy, err := model.ParsePolicy(raw.Policy)
	if err != nil {
		return Report{}, fmt.Errorf("invalid report: %w", err)
	}

	entries := make([]model.Entry, 0, len(raw.Entries))
	for i, e := range raw.Entries {
		if e.Path == "" {
			return Report{}, fmt.Errorf("invalid report: entry %d has no path", i)
		}
		if !isStrictlyWithin(raw.Root, e.Path) {
			return Report{}, fmt.Errorf("invalid report: entry %s: %w %s", e.Path, ErrOutsideRoot, raw.Root)
		}
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		if e.Size < 0 {
			e.Size = 0
		}
		e.Name = model.DisplayName(e.Path)
		entries = append(entries, e)
	}

	return Report{
		Progname:  raw.Progname,
		Progver:   raw.Progver,
		Timestamp: time.Unix(raw.Timestamp, 0),
		Root:      raw.Root,
		Policy:    policy,
		Entries:   entries,
	}, nil
}
