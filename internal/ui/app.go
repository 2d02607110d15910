package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/cuems/aedkeeper/internal/aed"
	"github.com/cuems/aedkeeper/internal/datalayer"
	"github.com/cuems/aedkeeper/internal/logtail"
	"github.com/cuems/aedkeeper/internal/prefs"
	"github.com/cuems/aedkeeper/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewInventory View = iota
	ViewService
	ViewLog
	ViewActivity
	viewCount
)

var viewTitles = [viewCount]string{"Inventory", "Service", "Submissions", "Activity"}

func (v View) String() string {
	if v < 0 || v >= viewCount {
		return ""
	}
	return viewTitles[v]
}

// Backend is the part of the data layer the UI drives directly.
type Backend interface {
	ForceSync(ctx context.Context) bool
	SearchAeds(ctx context.Context, query string) ([]aed.Record, error)
	LogMonthlyCheck(ctx context.Context, in datalayer.CheckInput, storeOfflineIfNeeded bool) (aed.Record, aed.LogEntry, error)
	AddAed(ctx context.Context, data aed.Record, storeOfflineIfNeeded bool) (aed.Record, error)
	UpdateAed(ctx context.Context, data aed.Record, storeOfflineIfNeeded bool) (aed.Record, error)
}

// Network is the connectivity switch the operator can flip.
type Network interface {
	Online() bool
	Toggle() bool
}

// Options configures the UI.
type Options struct {
	Context context.Context
	Backend Backend
	Network Network
	Store   *state.Store
	// Refresh reloads the store right away, for use after an action.
	Refresh   func(ctx context.Context) error
	PollTick  time.Duration
	Prefs     prefs.Prefs
	PrefsPath string
	LogPath   string
	Status    string // shown in the header on start
	Logger    zerolog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	backend   Backend
	network   Network
	store     *state.Store
	refresh   func(ctx context.Context) error
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	pollTick  time.Duration
	log       zerolog.Logger

	// UI state
	keys        keyMap
	help        help.Model
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time

	// Transient status line
	status      string
	statusError bool
	statusAt    time.Time

	// Views
	inventoryTable   table.Model
	serviceTable     table.Model
	logViewport      viewport.Model
	activityViewport viewport.Model
	activityErr      error

	// Search
	searching     bool
	searchInput   textinput.Model
	searchQuery   string
	searchResults []aed.Record

	// Overlays
	showHelp bool
	modal    Modal
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	userPrefs := opts.Prefs
	if strings.TrimSpace(userPrefs.Theme) == "" {
		userPrefs.Theme = prefs.Default().Theme
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "title, building, code or location"
	search.CharLimit = 64
	search.Width = 40

	m := Model{
		ctx:              ctx,
		backend:          opts.Backend,
		network:          opts.Network,
		store:            opts.Store,
		refresh:          opts.Refresh,
		prefs:            userPrefs,
		prefsPath:        prefsPath,
		logPath:          opts.LogPath,
		pollTick:         pollTick,
		log:              opts.Logger,
		keys:             DefaultKeyMap(),
		help:             help.New(),
		theme:            GetTheme(userPrefs.Theme),
		currentView:      ViewInventory,
		inventoryTable:   newTable(inventoryColumns(0)),
		serviceTable:     newTable(serviceColumns(0)),
		logViewport:      viewport.New(0, 0),
		activityViewport: viewport.New(0, 0),
		searchInput:      search,
	}
	m.applyTheme()
	if opts.Status != "" {
		m.setStatus(opts.Status, false)
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tickCmd(m.pollTick),
	}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		m.syncTables()
		m.updateLogViewport()
		return m, nil

	case activityMsg:
		m.activityErr = msg.err
		m.updateActivityViewport(msg.lines)
		return m, nil

	case searchResultMsg:
		if msg.query != m.searchQuery {
			return m, nil
		}
		if msg.err != nil {
			m.setStatus("Search failed: "+msg.err.Error(), true)
			return m, nil
		}
		m.searchResults = msg.records
		m.syncTables()
		m.inventoryTable.GotoTop()
		return m, nil

	case checkSubmitMsg:
		m.setStatus("Saving check for "+msg.input.Title+"...", false)
		return m, m.submitCheckCmd(msg.input)

	case aedSubmitMsg:
		m.setStatus("Saving "+msg.record.Title+"...", false)
		return m, m.submitAedCmd(msg)

	case actionMsg:
		m.setStatus(msg.text, msg.isError)
		return m, m.refreshCmd()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Any key closes help
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.modal != nil {
		modal, cmd, closed := m.modal.Update(msg, m.keys)
		if closed {
			m.modal = nil
		} else {
			m.modal = modal
		}
		return m, cmd
	}

	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		return m.setView((m.currentView + 1) % viewCount)

	case key.Matches(msg, m.keys.ShiftTab):
		return m.setView((m.currentView + viewCount - 1) % viewCount)

	case key.Matches(msg, m.keys.ViewInventory):
		return m.setView(ViewInventory)

	case key.Matches(msg, m.keys.ViewService):
		return m.setView(ViewService)

	case key.Matches(msg, m.keys.ViewLog):
		return m.setView(ViewLog)

	case key.Matches(msg, m.keys.ViewActivity):
		return m.setView(ViewActivity)

	case key.Matches(msg, m.keys.Escape):
		if m.searchQuery != "" {
			m.clearSearch()
			return m, nil
		}
		return m.setView(ViewInventory)

	case key.Matches(msg, m.keys.ToggleOnline):
		return m, m.toggleOnline()

	case key.Matches(msg, m.keys.ForceSync):
		if m.backend == nil {
			return m, nil
		}
		m.setStatus("Syncing...", false)
		return m, m.forceSyncCmd()

	case key.Matches(msg, m.keys.Check):
		rec, ok := m.selectedRecord()
		if !ok {
			m.setStatus("Select an AED first", true)
			return m, nil
		}
		m.modal = newCheckForm(rec, m.prefs.Inspector)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.AddAED):
		m.modal = newAedForm(aed.Record{}, true)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.EditAED):
		rec, ok := m.selectedRecord()
		if !ok {
			m.setStatus("Select an AED first", true)
			return m, nil
		}
		m.modal = newAedForm(rec, false)
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Search):
		m.currentView = ViewInventory
		m.searching = true
		m.searchInput.SetValue(m.searchQuery)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	}

	// View-specific keys
	var cmd tea.Cmd
	switch m.currentView {
	case ViewInventory:
		m.inventoryTable, cmd = m.inventoryTable.Update(msg)
	case ViewService:
		m.serviceTable, cmd = m.serviceTable.Update(msg)
	case ViewLog:
		m.logViewport, cmd = m.logViewport.Update(msg)
	case ViewActivity:
		m.activityViewport, cmd = m.activityViewport.Update(msg)
	}
	return m, cmd
}

// handleSearchKey feeds keys to the search prompt.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchInput.Blur()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		m.searching = false
		m.searchInput.Blur()
		query := strings.TrimSpace(m.searchInput.Value())
		if query == "" {
			m.clearSearch()
			return m, nil
		}
		m.searchQuery = query
		return m, m.searchCmd(query)
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearSearch() {
	m.searchQuery = ""
	m.searchResults = nil
	m.searchInput.SetValue("")
	m.syncTables()
}

// setView switches views, fetching the activity log when it becomes visible.
func (m Model) setView(v View) (tea.Model, tea.Cmd) {
	m.currentView = v
	m.applyFocus()
	if v == ViewActivity {
		return m, m.activityCmd()
	}
	return m, nil
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.applyTheme()
	m.updateLogViewport()
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Msg("save preferences")
		m.setStatus("Theme not saved: "+err.Error(), true)
	}
}

// toggleOnline flips the simulated radio and refreshes, which replays queued
// work when the device comes back online.
func (m *Model) toggleOnline() tea.Cmd {
	if m.network == nil {
		return nil
	}
	if m.network.Toggle() {
		m.log.Info().Msg("device online")
		m.setStatus("Online: pending changes will sync", false)
	} else {
		m.log.Info().Msg("device offline")
		m.setStatus("Offline: changes are queued locally", false)
	}
	return m.refreshCmd()
}

func (m *Model) setStatus(text string, isError bool) {
	m.status = text
	m.statusError = isError
	m.statusAt = time.Now()
}

// currentStatus returns the transient status text while it is fresh.
func (m Model) currentStatus() (string, bool) {
	if m.status == "" || time.Since(m.statusAt) > StatusTTL {
		return "", false
	}
	return m.status, m.statusError
}

// isOnline prefers the live switch over the last snapshot, which lags a
// toggle by one refresh.
func (m Model) isOnline() bool {
	if m.network != nil {
		return m.network.Online()
	}
	return m.snapshot.Sync.IsOnline
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.currentView == ViewActivity {
		cmds = append(cmds, m.activityCmd())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	b.WriteString(m.renderContent())
	return b.String()
}

// renderContent renders the main content area based on current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewInventory:
		return m.renderInventory()
	case ViewService:
		return m.renderService()
	case ViewLog:
		return m.renderSubmissionLog()
	case ViewActivity:
		return m.renderActivity()
	default:
		return ""
	}
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type activityMsg struct {
	lines []string
	err   error
}

type searchResultMsg struct {
	query   string
	records []aed.Record
	err     error
}

// actionMsg reports the outcome of a user action.
type actionMsg struct {
	text    string
	isError bool
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// refreshCmd reloads the store through the data layer, then hands the new
// snapshot to the model.
func (m Model) refreshCmd() tea.Cmd {
	ctx, refresh, store := m.ctx, m.refresh, m.store
	return func() tea.Msg {
		if refresh != nil {
			rctx, cancel := context.WithTimeout(ctx, ActionTimeout)
			_ = refresh(rctx)
			cancel()
		}
		if store == nil {
			return nil
		}
		return snapshotMsg(store.Snapshot())
	}
}

func (m Model) forceSyncCmd() tea.Cmd {
	ctx, backend := m.ctx, m.backend
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		if !backend.ForceSync(sctx) {
			return actionMsg{text: "Sync unavailable while offline", isError: true}
		}
		return actionMsg{text: "Sync complete"}
	}
}

func (m Model) searchCmd(query string) tea.Cmd {
	ctx, backend := m.ctx, m.backend
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		sctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		records, err := backend.SearchAeds(sctx, query)
		return searchResultMsg{query: query, records: records, err: err}
	}
}

func (m Model) submitCheckCmd(in datalayer.CheckInput) tea.Cmd {
	ctx, backend, online := m.ctx, m.backend, m.isOnline()
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		rec, _, err := backend.LogMonthlyCheck(cctx, in, true)
		if err != nil {
			return actionMsg{text: "Check not saved: " + err.Error(), isError: true}
		}
		text := fmt.Sprintf("Check logged for %s: %s", rec.Title, rec.CalculatedStatus)
		if !online {
			text += " (queued for sync)"
		}
		return actionMsg{text: text}
	}
}

func (m Model) submitAedCmd(msg aedSubmitMsg) tea.Cmd {
	ctx, backend, online := m.ctx, m.backend, m.isOnline()
	if backend == nil {
		return nil
	}
	return func() tea.Msg {
		cctx, cancel := context.WithTimeout(ctx, ActionTimeout)
		defer cancel()
		save, verb := backend.UpdateAed, "Saved"
		if msg.isNew {
			save, verb = backend.AddAed, "Added"
		}
		rec, err := save(cctx, msg.record, true)
		if err != nil {
			return actionMsg{text: "AED not saved: " + err.Error(), isError: true}
		}
		text := fmt.Sprintf("%s %s: %s", verb, rec.Title, rec.CalculatedStatus)
		if !online {
			text += " (queued for sync)"
		}
		return actionMsg{text: text}
	}
}

func (m Model) activityCmd() tea.Cmd {
	path := m.logPath
	if path == "" {
		return nil
	}
	return func() tea.Msg {
		lines, err := logtail.Tail(path, ActivityLineLimit)
		return activityMsg{lines: lines, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// Shutdown signal, not a failure.
		return nil
	}
	return err
}
