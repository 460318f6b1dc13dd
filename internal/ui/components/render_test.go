package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/scanner"
	"github.com/sadopc/usbclean/internal/stats"
	"github.com/sadopc/usbclean/internal/ui/style"
)

func TestRenderHelp_SmallWidth(t *testing.T) {
	theme := style.DefaultTheme()
	for _, w := range []int{0, 1, 2, 5} {
		t.Run("", func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("RenderHelp panicked at width=%d: %v", w, r)
				}
			}()
			RenderHelp(theme, w, 10)
		})
	}
}

func TestRenderHelp_Content(t *testing.T) {
	out := RenderHelp(style.DefaultTheme(), 100, 40)
	for _, want := range []string{"Keyboard Shortcuts", "Scanning", "Cleaning", "Toggle shallow / deep scan", "Press ? or Esc"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestRenderConfirmDialog_SmallWidth(t *testing.T) {
	theme := style.DefaultTheme()
	items := []model.Entry{model.NewEntry("/Volumes/USB/.DS_Store", 6148, false, "macOS Finder metadata")}
	for _, w := range []int{0, 1, 2, 5} {
		t.Run("", func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("RenderConfirmDialog panicked at width=%d: %v", w, r)
				}
			}()
			RenderConfirmDialog(theme, items, w, 10)
		})
	}
}

func TestRenderConfirmDialog_Content(t *testing.T) {
	theme := style.DefaultTheme()
	var items []model.Entry
	for i := 0; i < 12; i++ {
		items = append(items, model.NewEntry("/Volumes/USB/._f", 4096, false, "AppleDouble"))
	}
	out := RenderConfirmDialog(theme, items, 100, 30)
	for _, want := range []string{"Clean Confirmation", "12 item(s)", "... and 2 more", "48 KiB"} {
		if !strings.Contains(out, want) {
			t.Errorf("confirm dialog missing %q", want)
		}
	}
}

func TestRenderScanProgress_SmallWidth(t *testing.T) {
	theme := style.DefaultTheme()
	p := scanner.Progress{CurrentPath: "/Volumes/USB/sub"}
	for _, w := range []int{0, 1, 2, 5} {
		t.Run("", func(t *testing.T) {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("RenderScanProgress panicked at width=%d: %v", w, r)
				}
			}()
			RenderScanProgress(theme, "*", p, "/Volumes/USB", w, 10)
			RenderCleaning(theme, "*", 1, 10, w, 10)
		})
	}
}

func TestRenderScanProgress_Content(t *testing.T) {
	theme := style.DefaultTheme()
	p := scanner.Progress{Matches: 3, DirsScanned: 7, Errors: 2}
	out := RenderScanProgress(theme, "*", p, "/Volumes/USB", 100, 30)
	for _, want := range []string{"Scanning /Volumes/USB", "Junk:    3", "Dirs:    7", "Errors:  2", "esc to cancel"} {
		if !strings.Contains(out, want) {
			t.Errorf("progress overlay missing %q", want)
		}
	}
}

func TestRenderStatusBar(t *testing.T) {
	theme := style.DefaultTheme()

	t.Run("error replaces content", func(t *testing.T) {
		out := RenderStatusBar(theme, StatusInfo{ItemCount: 4, ErrorMsg: "boom"}, 80)
		if !strings.Contains(out, "boom") || strings.Contains(out, "4 items") {
			t.Fatalf("unexpected status bar: %q", out)
		}
	})

	t.Run("marked summary", func(t *testing.T) {
		out := RenderStatusBar(theme, StatusInfo{
			ItemCount:   4,
			TotalSize:   2048,
			MarkedCount: 1,
			MarkedSize:  1024,
			Policy:      model.PolicyDeep,
		}, 120)
		for _, want := range []string{"4 items", "2.0 KiB deep", "* 1 marked (1.0 KiB)", "clean"} {
			if !strings.Contains(out, want) {
				t.Errorf("status bar missing %q: %q", want, out)
			}
		}
	})

	t.Run("narrow does not overflow", func(t *testing.T) {
		out := RenderStatusBar(theme, StatusInfo{ItemCount: 4, Status: "Found 4 files."}, 20)
		if w := lipgloss.Width(out); w > 20 {
			t.Fatalf("width = %d, want <= 20", w)
		}
	})
}

func TestRenderHeader(t *testing.T) {
	theme := style.DefaultTheme()
	out := RenderHeader(theme, "/Volumes/USB", stats.Totals{Files: 12, Bytes: 4096}, 100)
	for _, want := range []string{"usbclean", "/Volumes/USB", "lifetime: 12 files", "4.0 KiB freed"} {
		if !strings.Contains(out, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if RenderHeader(theme, "/x", stats.Totals{}, 5) != "" {
		t.Fatal("expected empty header for tiny width")
	}
}

func TestRenderPolicyBar(t *testing.T) {
	theme := style.DefaultTheme()
	sortCfg := model.DefaultSort()
	out := RenderPolicyBar(theme, model.PolicyShallow, sortCfg, 100)
	if !strings.Contains(out, "Sort: "+sortCfg.Field.String()) {
		t.Fatalf("policy bar missing sort label: %q", out)
	}
}

func TestResultList_RenderAndScroll(t *testing.T) {
	theme := style.DefaultTheme()
	root := "/Volumes/USB"
	var items []model.Entry
	for _, name := range []string{".DS_Store", "._a.txt", "sub/Thumbs.db"} {
		items = append(items, model.NewEntry(root+"/"+name, 1024, false, "rule"))
	}
	rl := ResultList{
		Theme:     theme,
		Layout:    style.NewLayout(100, 6), // two content rows
		Root:      root,
		Items:     items,
		Marked:    map[uuid.UUID]bool{items[0].ID: true},
		TotalSize: model.TotalSize(items),
	}

	out := rl.Render()
	if !strings.Contains(out, ".DS_Store") || !strings.Contains(out, "._a.txt") {
		t.Fatalf("first page missing rows: %q", out)
	}
	if strings.Contains(out, "Thumbs.db") {
		t.Fatal("third row should be off screen")
	}

	rl.Cursor = 2
	rl.EnsureVisible()
	if rl.Offset != 1 {
		t.Fatalf("Offset = %d, want 1", rl.Offset)
	}
	if out := rl.Render(); !strings.Contains(out, "sub/Thumbs.db") {
		t.Fatalf("scrolled page missing relative path: %q", out)
	}

	for _, line := range strings.Split(rl.Render(), "\n") {
		if w := lipgloss.Width(line); w != 100 {
			t.Fatalf("row width = %d, want 100", w)
		}
	}
}

func TestResultList_Empty(t *testing.T) {
	rl := ResultList{
		Theme:     style.DefaultTheme(),
		Layout:    style.NewLayout(80, 10),
		EmptyText: "nothing here",
	}
	out := rl.Render()
	if !strings.Contains(out, "(nothing here)") {
		t.Fatalf("empty list = %q", out)
	}
	if got := len(strings.Split(out, "\n")); got != 6 {
		t.Fatalf("lines = %d, want 6", got)
	}
}
