package ops

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sadopc/usbclean/internal/model"
)

func sampleReport(root string) Report {
	return NewReport(root, model.PolicyDeep, []model.Entry{
		model.NewEntry(filepath.Join(root, ".DS_Store"), 6148, false, "ds-store"),
		model.NewEntry(filepath.Join(root, "sub", "Thumbs.db"), 2048, false, "thumbs-db"),
		model.NewEntry(filepath.Join(root, "$RECYCLE.BIN"), 0, true, "recycle-bin"),
	})
}

func TestExportJSON_Stdout(t *testing.T) {
	report := sampleReport(t.TempDir())

	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	os.Stdout = w

	exportErr := ExportJSON(report, "-", "test-version")
	closeErr := w.Close()
	os.Stdout = oldStdout

	if exportErr != nil {
		t.Fatalf("ExportJSON returned error: %v", exportErr)
	}
	if closeErr != nil {
		t.Fatalf("closing pipe writer failed: %v", closeErr)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}

	out := strings.TrimSpace(string(data))
	if !strings.Contains(out, `"progver":"test-version"`) {
		t.Fatalf("expected version in export output, got:\n%s", out)
	}
	if !strings.Contains(out, `"policy":"deep"`) {
		t.Fatalf("expected policy in export output, got:\n%s", out)
	}
	if !strings.Contains(out, `"rule":"thumbs-db"`) {
		t.Fatalf("expected entry in export output, got:\n%s", out)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("export output is not valid JSON: %v\n%s", err, out)
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(decoded["entries"], &entries); err != nil {
		t.Fatalf("entries is not an array: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
}

func TestExportJSON_EmptyReport(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ExportJSON(NewReport(root, model.PolicyShallow, nil), path, "test"); err != nil {
		t.Fatalf("export: %v", err)
	}
	imported, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(imported.Entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(imported.Entries))
	}
	if imported.Policy != model.PolicyShallow {
		t.Fatalf("policy = %v, want shallow", imported.Policy)
	}
}

func TestExportJSON_RoundTrip(t *testing.T) {
	root := t.TempDir()
	report := sampleReport(root)
	path := filepath.Join(t.TempDir(), "scan.json")

	if err := ExportJSON(report, path, "test"); err != nil {
		t.Fatalf("export: %v", err)
	}
	imported, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}

	if imported.Root != root || imported.Progname != "usbclean" || imported.Progver != "test" {
		t.Fatalf("unexpected header: %+v", imported)
	}
	if imported.Timestamp.Unix() != report.Timestamp.Unix() {
		t.Fatalf("timestamp = %v, want %v", imported.Timestamp, report.Timestamp)
	}
	if len(imported.Entries) != len(report.Entries) {
		t.Fatalf("entries = %d, want %d", len(imported.Entries), len(report.Entries))
	}
	for i, e := range imported.Entries {
		want := report.Entries[i]
		if !e.Equal(want) || e.Path != want.Path || e.Size != want.Size || e.IsDir != want.IsDir || e.Rule != want.Rule {
			t.Fatalf("entry %d = %+v, want %+v", i, e, want)
		}
	}
}

func TestExportJSON_OverwriteExistingFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(t.TempDir(), "scan.json")

	first := NewReport(root, model.PolicyDeep, []model.Entry{
		model.NewEntry(filepath.Join(root, "._a"), 1, false, "apple-double"),
	})
	if err := ExportJSON(first, path, "test"); err != nil {
		t.Fatalf("first export failed: %v", err)
	}

	second := NewReport(root, model.PolicyDeep, []model.Entry{
		model.NewEntry(filepath.Join(root, "._b"), 7, false, "apple-double"),
	})
	if err := ExportJSON(second, path, "test"); err != nil {
		t.Fatalf("second export failed: %v", err)
	}

	imported, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("import failed: %v", err)
	}
	if len(imported.Entries) != 1 || imported.Entries[0].Name != "._b" {
		t.Fatalf("expected overwritten export to contain ._b, got %+v", imported.Entries)
	}
}

func TestExportJSON_MissingDirectory_NoPartialFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "missing")
	path := filepath.Join(dir, "scan.json")

	if err := ExportJSON(sampleReport(t.TempDir()), path, "test"); err == nil {
		t.Fatal("expected export into a missing directory to fail")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatal("no output file should be left behind")
	}
}
