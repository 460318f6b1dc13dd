package ops

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sadopc/usbclean/internal/model"
)

// Report is a scan result as written to and read back from disk:
// {"progname":"usbclean","progver":"1.0","timestamp":1234567890,
//  "root":"/Volumes/STICK","policy":"deep",
//  "entries":[
//   {"id":"...","path":"/Volumes/STICK/.DS_Store","name":".DS_Store","size":6148,"rule":"ds-store"},
//   ...
//  ]}
type Report struct {
	Progname  string
	Progver   string
	Timestamp time.Time
	Root      string
	Policy    model.ScanPolicy
	Entries   []model.Entry
}

type reportHeader struct {
	Progname  string `json:"progname"`
	Progver   string `json:"progver"`
	Timestamp int64  `json:"timestamp"`
	Root      string `json:"root"`
	Policy    string `json:"policy"`
}

// errWriter wraps an io.Writer and captures the first write error.
// Subsequent writes after an error are no-ops, avoiding verbose per-call checks.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) WriteString(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = io.WriteString(ew.w, s)
}

func (ew *errWriter) Write(data []byte) (int, error) {
	if ew.err != nil {
		return 0, ew.err
	}
	n, err := ew.w.Write(data)
	if err != nil {
		ew.err = err
	}
	return n, err
}

// NewReport stamps a scan result for export.
func NewReport(root string, policy model.ScanPolicy, entries []model.Entry) Report {
	return Report{
		Progname:  "usbclean",
		Timestamp: time.Now(),
		Root:      root,
		Policy:    policy,
		Entries:   entries,
	}
}

// ExportJSON writes the report as JSON, one entry per line.
// For file targets (not stdout), writes to a temp file first and atomically
// renames on success, so a partial file is never left behind on error.
func ExportJSON(report Report, path string, version string) (retErr error) {
	if path == "-" {
		return exportToWriter(report, os.Stdout, version)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".usbclean-export-*.tmp")
	if err != nil {
		return fmt.Errorf("cannot create export file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if retErr != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if err := exportToWriter(report, tmp, version); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		// On Windows, Rename cannot replace an existing destination.
		if runtime.GOOS != "windows" {
			return err
		}
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			return fmt.Errorf("cannot replace export file %s: %w", path, err)
		}
		if err := os.Rename(tmpPath, path); err != nil {
			return err
		}
	}
	return nil
}

func exportToWriter(report Report, out io.Writer, version string) error {
	bw := bufio.NewWriterSize(out, 64*1024)
	ew := &errWriter{w: bw}

	if version == "" {
		version = "dev"
	}
	progname := report.Progname
	if progname == "" {
		progname = "usbclean"
	}
	ts := report.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	header := reportHeader{
		Progname:  progname,
		Progver:   version,
		Timestamp: ts.Unix(),
		Root:      report.Root,
		Policy:    report.Policy.String(),
	}
	headerJSON, err := json.Marshal(header)
	if err != nil {
		return err
	}
	// Splice the entries array into the header object.
	_, _ = ew.Write(headerJSON[:len(headerJSON)-1])
	ew.WriteString(`,"entries":[`)

	for i, entry := range report.Entries {
		if ew.err != nil {
			break
		}
		if i > 0 {
			ew.WriteString(",")
		}
		ew.WriteString("\n")
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		_, _ = ew.Write(data)
	}

	ew.WriteString("\n]}\n")
	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}
