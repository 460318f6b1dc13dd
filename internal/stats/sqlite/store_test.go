package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sadopc/usbclean/internal/stats"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "stats.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return store, path
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestStore_FreshTotalsAreZero(t *testing.T) {
	store, _ := openTemp(t)
	defer store.Close()

	totals, err := store.Totals(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if totals != (stats.Totals{}) {
		t.Fatalf("Totals = %+v, want zero", totals)
	}
}

func TestStore_RecordAccumulates(t *testing.T) {
	ctx := context.Background()
	store, _ := openTemp(t)
	defer store.Close()

	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	runs := []stats.Run{
		{At: base, Root: "/Volumes/A", Files: 3, Bytes: 300},
		{At: base.Add(time.Minute), Root: "/Volumes/B", Files: 1, Bytes: 7},
	}
	for _, r := range runs {
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	totals, err := store.Totals(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if totals != (stats.Totals{Files: 4, Bytes: 307}) {
		t.Fatalf("Totals = %+v", totals)
	}

	recent, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d runs, want 2", len(recent))
	}
	if recent[0].Root != "/Volumes/B" || !recent[0].At.Equal(runs[1].At) {
		t.Fatalf("newest run = %+v", recent[0])
	}

	limited, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("Recent(1) returned %d runs", len(limited))
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTemp(t)

	tracker, err := stats.Load(ctx, store)
	if err != nil {
		t.Fatal(err)
	}
	if err := tracker.AddCleaned(ctx, "/Volumes/STICK", 5, 12345); err != nil {
		t.Fatal(err)
	}
	if err := store.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	tracker, err = stats.Load(ctx, reopened)
	if err != nil {
		t.Fatal(err)
	}
	if got := tracker.Totals(); got != (stats.Totals{Files: 5, Bytes: 12345}) {
		t.Fatalf("Totals after reopen = %+v", got)
	}
}
