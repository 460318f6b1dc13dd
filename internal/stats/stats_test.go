package stats

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memStore struct {
	totals    Totals
	runs      []Run
	failNext  error
	loadErr   error
	closeCall int
}

func (m *memStore) Totals(context.Context) (Totals, error) {
	return m.totals, m.loadErr
}

func (m *memStore) Record(_ context.Context, run Run) error {
	if m.failNext != nil {
		err := m.failNext
		m.failNext = nil
		return err
	}
	m.runs = append(m.runs, run)
	m.totals.Files += run.Files
	m.totals.Bytes += run.Bytes
	return nil
}

func (m *memStore) Recent(_ context.Context, limit int) ([]Run, error) {
	var out []Run
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.runs[i])
	}
	return out, nil
}

func (m *memStore) Close() error {
	m.closeCall++
	return nil
}

func TestLoad_ReadsPersistedTotals(t *testing.T) {
	store := &memStore{totals: Totals{Files: 12, Bytes: 4096}}
	tr, err := Load(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	if got := tr.Totals(); got != (Totals{Files: 12, Bytes: 4096}) {
		t.Fatalf("Totals = %+v", got)
	}
}

func TestLoad_StoreError(t *testing.T) {
	store := &memStore{loadErr: errors.New("disk gone")}
	if _, err := Load(context.Background(), store); err == nil {
		t.Fatal("expected load error")
	}
}

func TestAddCleaned_PersistsRun(t *testing.T) {
	store := &memStore{totals: Totals{Files: 1, Bytes: 10}}
	tr, err := Load(context.Background(), store)
	if err != nil {
		t.Fatal(err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return fixed }

	if err := tr.AddCleaned(context.Background(), "/Volumes/STICK", 3, 300); err != nil {
		t.Fatal(err)
	}

	if got := tr.Totals(); got != (Totals{Files: 4, Bytes: 310}) {
		t.Fatalf("Totals = %+v", got)
	}
	if len(store.runs) != 1 {
		t.Fatalf("expected one run, got %d", len(store.runs))
	}
	want := Run{At: fixed, Root: "/Volumes/STICK", Files: 3, Bytes: 300}
	if store.runs[0] != want {
		t.Fatalf("run = %+v, want %+v", store.runs[0], want)
	}
}

func TestAddCleaned_ZeroFilesIgnored(t *testing.T) {
	store := &memStore{}
	tr, _ := Load(context.Background(), store)

	if err := tr.AddCleaned(context.Background(), "/v", 0, 0); err != nil {
		t.Fatal(err)
	}
	if len(store.runs) != 0 {
		t.Fatal("zero-file cleanups must not be recorded")
	}
}

func TestAddCleaned_StoreFailureKeepsMemoryTotals(t *testing.T) {
	store := &memStore{failNext: errors.New("read-only")}
	tr, _ := Load(context.Background(), store)

	err := tr.AddCleaned(context.Background(), "/v", 2, 20)
	if err == nil {
		t.Fatal("expected persist error")
	}
	if got := tr.Totals(); got != (Totals{Files: 2, Bytes: 20}) {
		t.Fatalf("Totals = %+v", got)
	}
}

func TestTracker_WithoutStore(t *testing.T) {
	tr, err := Load(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := tr.AddCleaned(context.Background(), "/v", 5, 50); err != nil {
		t.Fatal(err)
	}
	if got := tr.Totals(); got != (Totals{Files: 5, Bytes: 50}) {
		t.Fatalf("Totals = %+v", got)
	}
	runs, err := tr.Recent(context.Background(), 10)
	if err != nil || runs != nil {
		t.Fatalf("Recent = %v, %v", runs, err)
	}
}
