package ui

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sadopc/usbclean/internal/model"
	"github.com/sadopc/usbclean/internal/ops"
	"github.com/sadopc/usbclean/internal/scanner"
	"github.com/sadopc/usbclean/internal/session"
	"github.com/sadopc/usbclean/internal/stats"
	"github.com/sadopc/usbclean/internal/ui/components"
	"github.com/sadopc/usbclean/internal/ui/style"
)

// AppState represents the application state.
type AppState int

const (
	StateScanning AppState = iota
	StateBrowsing
	StateConfirmClean
	StateCleaning
	StateHelp
)

// ScanDoneMsg is sent when a scan publishes its outcome.
type ScanDoneMsg struct {
	Outcome session.Outcome
}

// CleanDoneMsg is sent when a clean finishes.
type CleanDoneMsg struct {
	Report ops.CleanReport
	Err    error
}

type tickMsg time.Time

// App is the root Bubble Tea model.
type App struct {
	ScanPath string
	Policy   model.ScanPolicy
	// Confirm asks before cleaning. Without it d cleans immediately.
	Confirm bool
	// Context bounds scans and cleans started from the UI.
	Context context.Context

	session *session.Session
	tracker *stats.Tracker

	state  AppState
	width  int
	height int

	root       string
	items      []model.Entry
	sortConfig model.SortConfig

	cursor int
	offset int

	marked  map[uuid.UUID]bool
	pending []model.Entry

	spinner        spinner.Model
	scanProgress   scanner.Progress
	progressMu     sync.Mutex
	latestProgress scanner.Progress

	theme  style.Theme
	keys   KeyMap
	layout style.Layout

	statusMsg string
	fatalErr  error
}

// NewApp creates a new App model. tracker may be nil.
func NewApp(sess *session.Session, tracker *stats.Tracker, scanPath string, policy model.ScanPolicy) *App {
	theme := style.DefaultTheme()
	return &App{
		ScanPath:   scanPath,
		Policy:     policy,
		Confirm:    true,
		Context:    context.Background(),
		session:    sess,
		tracker:    tracker,
		state:      StateScanning,
		sortConfig: model.DefaultSort(),
		marked:     make(map[uuid.UUID]bool),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(theme.SpinnerStyle),
		),
		theme: theme,
		keys:  DefaultKeyMap(),
	}
}

func (a *App) Init() tea.Cmd {
	// Start the scan, the spinner and the progress ticker together
	return tea.Batch(a.startScan(), a.spinner.Tick, a.tickCmd())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout = style.NewLayout(msg.Width, msg.Height)
		return a, nil

	case ScanDoneMsg:
		return a.handleScanDone(msg.Outcome)

	case CleanDoneMsg:
		return a.handleCleanDone(msg)

	case tickMsg:
		if a.state == StateScanning {
			// Read latest progress snapshot
			a.progressMu.Lock()
			a.scanProgress = a.latestProgress
			a.progressMu.Unlock()
			// Keep ticking while scanning
			return a, a.tickCmd()
		}
		return a, nil

	case spinner.TickMsg:
		if a.state != StateScanning && a.state != StateCleaning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a *App) handleScanDone(o session.Outcome) (tea.Model, tea.Cmd) {
	if o.Err != nil && !errors.Is(o.Err, context.Canceled) {
		a.fatalErr = o.Err
		return a, tea.Quit
	}
	a.fatalErr = nil
	a.root = o.Root
	a.items = o.Entries
	model.SortEntries(a.items, a.sortConfig)
	a.cursor = 0
	a.offset = 0
	a.clearMarks()
	a.state = StateBrowsing
	if n := len(o.Errors); n > 0 {
		a.statusMsg = fmt.Sprintf("%d path(s) could not be read (%v)", n, o.Errors[0])
	}
	return a, tea.ClearScreen
}

func (a *App) handleCleanDone(msg CleanDoneMsg) (tea.Model, tea.Cmd) {
	a.state = StateBrowsing
	a.pending = nil
	a.clearMarks()
	a.items = a.session.Results()
	model.SortEntries(a.items, a.sortConfig)
	a.clampCursor()

	switch {
	case len(msg.Report.Failures) > 0:
		a.statusMsg = fmt.Sprintf("Cleaned %d files, %d failed (%v)",
			msg.Report.FilesDeleted, len(msg.Report.Failures), msg.Report.Failures[0])
	case msg.Err != nil:
		a.statusMsg = msg.Err.Error()
	}
	return a, tea.ClearScreen
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, a.keys.ForceQuit) {
		a.session.Cancel()
		return a, tea.Quit
	}

	switch a.state {
	case StateScanning:
		switch {
		case key.Matches(msg, a.keys.Quit):
			a.session.Cancel()
			return a, tea.Quit
		case key.Matches(msg, a.keys.Cancel):
			a.session.Cancel()
		}
		return a, nil

	case StateCleaning:
		return a, nil

	case StateHelp:
		if key.Matches(msg, a.keys.Help) || msg.String() == "esc" {
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}
		return a, nil

	case StateConfirmClean:
		if key.Matches(msg, a.keys.ConfirmYes) {
			return a, a.executeClean()
		}
		if key.Matches(msg, a.keys.ConfirmNo) {
			a.pending = nil
			a.state = StateBrowsing
			return a, tea.ClearScreen
		}
		return a, nil

	case StateBrowsing:
		return a.handleBrowsingKey(msg)
	}

	return a, nil
}

func (a *App) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.statusMsg = ""
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit

	case key.Matches(msg, a.keys.Help):
		a.state = StateHelp
		return a, tea.ClearScreen

	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.PageUp):
		a.moveCursor(-a.layout.PageSize())
	case key.Matches(msg, a.keys.PageDown):
		a.moveCursor(a.layout.PageSize())
	case key.Matches(msg, a.keys.Top):
		a.cursor = 0
	case key.Matches(msg, a.keys.Bottom):
		a.cursor = len(a.items) - 1
		a.clampCursor()

	case key.Matches(msg, a.keys.SortSize):
		a.toggleSort(model.SortBySize)
	case key.Matches(msg, a.keys.SortName):
		a.toggleSort(model.SortByName)
	case key.Matches(msg, a.keys.SortPath):
		a.toggleSort(model.SortByPath)

	case key.Matches(msg, a.keys.Mark):
		a.toggleMark()
	case key.Matches(msg, a.keys.MarkAll):
		a.toggleMarkAll()

	case key.Matches(msg, a.keys.Clean):
		return a, a.prepareClean()

	case key.Matches(msg, a.keys.TogglePolicy):
		a.Policy = model.PolicyFor(!a.Policy.Deep())
		return a, a.rescan()

	case key.Matches(msg, a.keys.Rescan):
		return a, a.rescan()
	}

	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	switch a.state {
	case StateScanning:
		return components.RenderScanProgress(a.theme, a.spinner.View(), a.scanProgress, a.ScanPath, a.width, a.height)

	case StateCleaning:
		return components.RenderCleaning(a.theme, a.spinner.View(), len(a.pending), model.TotalSize(a.pending), a.width, a.height)

	case StateHelp:
		return components.RenderHelp(a.theme, a.width, a.height)

	case StateConfirmClean:
		return components.RenderConfirmDialog(a.theme, a.pending, a.width, a.height)

	case StateBrowsing:
		return a.renderBrowsing()
	}

	return ""
}

func (a *App) renderBrowsing() string {
	root := a.root
	if root == "" {
		root = a.ScanPath
	}
	var totals stats.Totals
	if a.tracker != nil {
		totals = a.tracker.Totals()
	}

	header := components.RenderHeader(a.theme, root, totals, a.width)
	policyBar := components.RenderPolicyBar(a.theme, a.Policy, a.sortConfig, a.width)

	emptyText := "no junk found"
	if a.session.State().Kind == model.StateCancelled {
		emptyText = "scan cancelled, press r to rescan"
	}

	totalSize := model.TotalSize(a.items)
	rl := &components.ResultList{
		Theme:     a.theme,
		Layout:    a.layout,
		Root:      root,
		Items:     a.items,
		Cursor:    a.cursor,
		Offset:    a.offset,
		Marked:    a.marked,
		TotalSize: totalSize,
		EmptyText: emptyText,
	}
	rl.EnsureVisible()
	a.offset = rl.Offset

	marked := a.markedEntries()
	statusInfo := components.StatusInfo{
		ItemCount:   len(a.items),
		TotalSize:   totalSize,
		MarkedCount: len(marked),
		MarkedSize:  model.TotalSize(marked),
		Policy:      a.Policy,
		Status:      a.session.Status(),
		ErrorMsg:    a.statusMsg,
	}
	statusBar := components.RenderStatusBar(a.theme, statusInfo, a.width)

	return header + "\n" + policyBar + "\n" + rl.RenderColumns() + "\n" + rl.Render() + "\n" + statusBar
}

func (a *App) moveCursor(delta int) {
	a.cursor += delta
	a.clampCursor()
}

func (a *App) clampCursor() {
	if a.cursor >= len(a.items) {
		a.cursor = len(a.items) - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) toggleSort(field model.SortField) {
	a.sortConfig = a.sortConfig.Toggle(field)
	model.SortEntries(a.items, a.sortConfig)
}

func (a *App) toggleMark() {
	if a.cursor >= len(a.items) {
		return
	}
	id := a.items[a.cursor].ID
	if a.marked[id] {
		delete(a.marked, id)
	} else {
		a.marked[id] = true
	}
	a.moveCursor(1)
}

func (a *App) toggleMarkAll() {
	if len(a.marked) == len(a.items) {
		a.clearMarks()
		return
	}
	for _, e := range a.items {
		a.marked[e.ID] = true
	}
}

func (a *App) clearMarks() {
	a.marked = make(map[uuid.UUID]bool)
}

// markedEntries returns the marked entries in display order.
func (a *App) markedEntries() []model.Entry {
	if len(a.marked) == 0 {
		return nil
	}
	var out []model.Entry
	for _, e := range a.items {
		if a.marked[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func (a *App) rescan() tea.Cmd {
	cmd := a.startScan()
	if cmd == nil {
		return nil
	}
	return tea.Batch(tea.ClearScreen, cmd, a.spinner.Tick, a.tickCmd())
}

// startScan starts a session scan. Progress is relayed into
// a.latestProgress (mutex-protected) and read on each tick.
func (a *App) startScan() tea.Cmd {
	progressCh := make(chan scanner.Progress, 10)
	outcomes, err := a.session.Scan(a.Context, a.ScanPath, a.Policy, progressCh)
	if err != nil {
		a.statusMsg = err.Error()
		a.state = StateBrowsing
		return nil
	}

	a.state = StateScanning
	a.items = nil
	a.cursor = 0
	a.offset = 0
	a.clearMarks()
	a.progressMu.Lock()
	a.latestProgress = scanner.Progress{}
	a.progressMu.Unlock()
	a.scanProgress = scanner.Progress{}

	go func() {
		for p := range progressCh {
			a.progressMu.Lock()
			a.latestProgress = p
			a.progressMu.Unlock()
		}
	}()

	return func() tea.Msg {
		o := <-outcomes
		// The walk has returned, so nothing sends on progressCh anymore.
		close(progressCh)
		return ScanDoneMsg{Outcome: o}
	}
}

func (a *App) tickCmd() tea.Cmd {
	return tea.Tick(60*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a *App) prepareClean() tea.Cmd {
	items := a.markedEntries()
	if len(items) == 0 && a.cursor < len(a.items) {
		items = []model.Entry{a.items[a.cursor]}
	}
	if len(items) == 0 {
		return nil
	}

	a.pending = items
	if !a.Confirm {
		return a.executeClean()
	}
	a.state = StateConfirmClean
	return tea.ClearScreen
}

// executeClean runs the clean in the background so the spinner keeps moving.
func (a *App) executeClean() tea.Cmd {
	items := a.pending
	ctx := a.Context
	sess := a.session
	a.state = StateCleaning

	clean := func() tea.Msg {
		report, err := sess.Clean(ctx, items)
		return CleanDoneMsg{Report: report, Err: err}
	}
	return tea.Batch(clean, a.spinner.Tick)
}

// FatalError returns a scan error that ended the program, if any.
func (a *App) FatalError() error { return a.fatalErr }
