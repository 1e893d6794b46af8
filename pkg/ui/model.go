package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vanderheijden86/burrow/pkg/config"
	"github.com/vanderheijden86/burrow/pkg/debug"
	"github.com/vanderheijden86/burrow/pkg/focus"
	"github.com/vanderheijden86/burrow/pkg/insights"
	"github.com/vanderheijden86/burrow/pkg/metrics"
	"github.com/vanderheijden86/burrow/pkg/vault"
	"github.com/vanderheijden86/burrow/pkg/watcher"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// View width thresholds for adaptive layout
const (
	SplitViewThreshold  = 100
	MinPreviewPaneWidth = 40 // Auto-hide preview below this width (bur-dy2)
)

// paneFocus represents which UI element has keyboard focus
type paneFocus int

const (
	focusTree paneFocus = iota
	focusPreview
	focusPicker
	focusInsights
	focusHelp
)

// FileChangedMsg is sent when something in the vault changes on disk
type FileChangedMsg struct{}

// autoCloseMsg ends the session after BUR_TUI_AUTOCLOSE_MS (test hook)
type autoCloseMsg struct{}

// WatchVaultCmd returns a command that waits for vault changes and
// sends FileChangedMsg. Re-issue it after handling each message; the
// watcher channel carries one signal per debounced burst.
func WatchVaultCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func autoCloseCmd(after time.Duration) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return autoCloseMsg{}
	})
}

// envAutoClose reads BUR_TUI_AUTOCLOSE_MS. Zero disables the hook.
func envAutoClose() time.Duration {
	raw := strings.TrimSpace(os.Getenv("BUR_TUI_AUTOCLOSE_MS"))
	if raw == "" {
		return 0
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// RecentSource supplies previously focused paths for the recent
// picker. *history.Journal satisfies it; nil disables the picker.
type RecentSource interface {
	Recent(limit int) ([]string, error)
}

// Model is the root Bubble Tea model for the interactive browser.
type Model struct {
	// Data
	vault     *vault.Vault
	vaultName string

	// Focus machinery. The store owns the focus path and drives the
	// engine; the engine pushes marks into the tree view.
	store   *focus.Store
	engine  *focus.Engine
	arbiter *focus.ClickArbiter

	// Recent-focus journal (nil when history is disabled)
	recent RecentSource

	// File watcher for live reload (nil with --no-watch)
	watcher *watcher.Watcher

	// UI components. The tree is held by pointer so the renderer the
	// engine attached in NewModel stays valid across model copies.
	tree     *TreeView
	preview  PreviewModel
	picker   RecentPickerModel
	insights InsightsOverlay
	theme    Theme

	appConfig config.Config

	// Layout
	width          int
	height         int
	ready          bool
	splitPaneRatio float64
	showPreview    bool

	// Focus and overlay state
	focused      paneFocus
	showPicker   bool
	showInsights bool
	showHelp     bool

	// Status message shown in the footer (cleared on next keypress)
	statusMsg     string
	statusIsError bool

	// Test hook: quit after this long when > 0
	autoClose time.Duration
}

// NewModel builds the root model and wires the tree view into the
// overlay engine. The persisted focus is restored here, after the
// attach, so the restored marks land on the tree.
func NewModel(v *vault.Vault, store *focus.Store, engine *focus.Engine) Model {
	theme := DefaultTheme(lipgloss.DefaultRenderer())
	tree := NewTreeView(v, theme)
	engine.Attach(tree)

	m := Model{
		vault:          v,
		vaultName:      filepath.Base(v.Dir()),
		store:          store,
		engine:         engine,
		arbiter:        focus.NewClickArbiter(focus.DefaultDoubleClickWindow),
		tree:           tree,
		preview:        NewPreviewModel(theme),
		picker:         NewRecentPickerModel(nil, theme),
		insights:       NewInsightsOverlay(theme),
		theme:          theme,
		splitPaneRatio: 0.4,
		showPreview:    true,
		focused:        focusTree,
		autoClose:      envAutoClose(),
	}

	// Initialize as ready with sane dimensions so the first frame
	// renders content even before the terminal reports its size.
	m.width = 120
	m.height = 40
	m.ready = true
	m.recalculateSplitPaneSizes()
	m.picker.SetSize(m.width, m.height-1)
	m.insights.SetSize(m.width, m.height-1)

	cur := store.Restore()
	tree.SetFocusPath(cur)
	if cur != vault.RootPath {
		tree.SelectByPath(cur)
	}
	m.syncPreview()
	return m
}

// WithConfig applies user configuration to the model.
func (m Model) WithConfig(cfg config.Config) Model {
	m.appConfig = cfg
	m.arbiter = focus.NewClickArbiter(cfg.DoubleClickWindow())
	m.showPreview = cfg.PreviewEnabled()
	if r := cfg.UI.SplitRatio; r >= 0.2 && r <= 0.8 {
		m.splitPaneRatio = r
	}
	// "auto" and unknown values keep the renderer's own detection.
	switch strings.ToLower(cfg.UI.Theme) {
	case "dark":
		m.theme.Renderer.SetHasDarkBackground(true)
	case "light":
		m.theme.Renderer.SetHasDarkBackground(false)
	}
	m.recalculateSplitPaneSizes()
	return m
}

// WithWatcher hands the model a started watcher to drive live reload.
func (m Model) WithWatcher(w *watcher.Watcher) Model {
	m.watcher = w
	return m
}

// WithRecent wires the focus journal into the recent picker.
func (m Model) WithRecent(r RecentSource) Model {
	m.recent = r
	return m
}

// WithVaultName overrides the display name derived from the vault dir.
func (m Model) WithVaultName(name string) Model {
	if name != "" {
		m.vaultName = name
	}
	return m
}

func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.watcher != nil {
		cmds = append(cmds, WatchVaultCmd(m.watcher))
	}
	if m.autoClose > 0 {
		cmds = append(cmds, autoCloseCmd(m.autoClose))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.recalculateSplitPaneSizes()
		m.picker.SetSize(m.width, m.height-1)
		m.insights.SetSize(m.width, m.height-1)
		// Rows shift under any armed click when the window resizes.
		m.arbiter.Reset()

	case FileChangedMsg:
		start := time.Now()
		if err := m.vault.Rescan(); err != nil {
			m.statusMsg = fmt.Sprintf("Rescan error: %v", err)
			m.statusIsError = true
		} else {
			m.tree.Invalidate()
			before := m.store.Current()
			cur := m.store.Revalidate()
			m.tree.SetFocusPath(cur)
			if cur != before {
				m.statusMsg = fmt.Sprintf("Focused folder is gone, back to %s", m.vaultName)
				m.statusIsError = true
			}
			m.preview.Reload()
			m.syncPreview()
			debug.LogTiming("ui.reload", time.Since(start))
		}
		m.arbiter.Reset()
		if m.watcher != nil {
			cmds = append(cmds, WatchVaultCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case autoCloseMsg:
		return m, tea.Quit

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		// Clear status message on any keypress
		m.statusMsg = ""
		m.statusIsError = false

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.showPicker {
			return m.handlePickerKeys(msg)
		}
		if m.showInsights {
			return m.handleInsightsKeys(msg)
		}
		if m.showHelp {
			return m.handleHelpKeys(msg)
		}
		if m.tree.IsSearchMode() {
			m = m.handleSearchKeys(msg)
			return m, nil
		}

		// Help overlay toggle works from either pane
		if msg.String() == "?" {
			m.showHelp = true
			m.focused = focusHelp
			return m, nil
		}

		if m.focused == focusPreview {
			return m.handlePreviewKeys(msg)
		}
		return m.handleTreeKeys(msg)
	}

	return m, tea.Batch(cmds...)
}

// ═══════════════════════════════════════════════════════════════════
// KEY HANDLING
// ═══════════════════════════════════════════════════════════════════

func (m Model) handleTreeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "j", "down":
		m.tree.MoveDown()
		m.syncPreview()
	case "k", "up":
		m.tree.MoveUp()
		m.syncPreview()
	case "g", "home":
		m.tree.JumpToTop()
		m.syncPreview()
	case "G", "end":
		m.tree.JumpToBottom()
		m.syncPreview()
	case "ctrl+d", "pgdown":
		m.tree.PageDown()
		m.syncPreview()
	case "ctrl+u", "pgup":
		m.tree.PageUp()
		m.syncPreview()

	case "h", "left":
		m.tree.CollapseOrJumpToParent()
		m.syncPreview()
	case "l", "right":
		m.tree.ExpandOrMoveToChild()
		m.syncPreview()
	case " ":
		m.tree.ToggleExpand()

	case "enter":
		m = m.activateSelection()

	case "backspace":
		m = m.goBack()
	case "R":
		m = m.resetFocus()

	case "r":
		m = m.openRecentPicker()
	case "i":
		m = m.openInsights()

	case "/":
		m.tree.EnterSearchMode()
	case "esc":
		if m.tree.SearchQuery() != "" {
			m.tree.ClearSearch()
		}

	case "y":
		m.yankFocusPath()
	case "p":
		m.showPreview = !m.showPreview
		m.recalculateSplitPaneSizes()
		if !m.splitActive() && m.focused == focusPreview {
			m.focused = focusTree
		}
		m.syncPreview()
	case "tab":
		if m.splitActive() && m.preview.Path() != "" {
			m.focused = focusPreview
		}
	}
	return m, nil
}

// activateSelection drills into the selected folder or, on a note,
// hands focus to the preview pane.
func (m Model) activateSelection() Model {
	node := m.tree.SelectedNode()
	if node == nil {
		return m
	}
	if node.Dir {
		return m.drillInto(node.Path)
	}
	if m.splitActive() {
		m.syncPreview()
		m.focused = focusPreview
	}
	return m
}

func (m Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "j", "down":
		m.preview.ScrollDown()
	case "k", "up":
		m.preview.ScrollUp()
	case "esc", "tab", "h":
		m.focused = focusTree
	case "p":
		m.showPreview = false
		m.focused = focusTree
		m.recalculateSplitPaneSizes()
	}
	return m, nil
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.tree.ClearSearch()
		m.syncPreview()
	case "enter":
		// Keep the filter applied; esc clears it.
		m.tree.ExitSearchMode()
	case "backspace":
		m.tree.SearchBackspace()
		m.syncPreview()
	case "up":
		m.tree.MoveUp()
		m.syncPreview()
	case "down":
		m.tree.MoveDown()
		m.syncPreview()
	case " ":
		m.tree.SearchAddRune(' ')
		m.syncPreview()
	default:
		if msg.Type == tea.KeyRunes {
			for _, r := range msg.Runes {
				m.tree.SearchAddRune(r)
			}
			m.syncPreview()
		}
	}
	return m
}

func (m Model) handlePickerKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.showPicker = false
		m.focused = focusTree
	case "enter":
		path := m.picker.SelectedPath()
		m.showPicker = false
		m.focused = focusTree
		if path != "" {
			m = m.jumpTo(path)
		}
	case "up", "ctrl+p", "ctrl+k":
		m.picker.MoveUp()
	case "down", "ctrl+n", "ctrl+j":
		m.picker.MoveDown()
	default:
		m.picker.UpdateInput(msg)
	}
	return m, nil
}

func (m Model) handleInsightsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "i", "esc", "q", "enter":
		m.showInsights = false
		m.focused = focusTree
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q", "enter":
		m.showHelp = false
		m.focused = focusTree
	}
	return m, nil
}

// ═══════════════════════════════════════════════════════════════════
// MOUSE HANDLING
// ═══════════════════════════════════════════════════════════════════

// handleMouse resolves presses to click targets and feeds them to the
// arbiter. The arbiter reports doubles; on true the native single-click
// handling is suppressed and the double's action runs instead.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.showPicker || m.showInsights || m.showHelp {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if m.previewPaneAt(msg.X) {
			m.preview.ScrollUp()
		} else {
			m.tree.MoveUp()
			m.syncPreview()
			m.arbiter.Reset()
		}
	case tea.MouseButtonWheelDown:
		if m.previewPaneAt(msg.X) {
			m.preview.ScrollDown()
		} else {
			m.tree.MoveDown()
			m.syncPreview()
			m.arbiter.Reset()
		}

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		if m.previewPaneAt(msg.X) {
			if m.preview.Path() != "" {
				m.focused = focusPreview
			}
			return m, nil
		}
		m.focused = focusTree

		// One global header row above the tree; ignore clicks outside
		// the body so footer presses cannot arm the arbiter.
		y := msg.Y - 1
		if y < 0 || y >= m.bodyHeight() {
			return m, nil
		}

		row, ok := m.tree.RowAt(y)
		target := focus.EmptyTarget
		if ok {
			target = focus.ClickTarget{Path: row.Node.Path}
		}
		double := m.arbiter.Observe(target, time.Now())

		if !ok {
			if double {
				m = m.goBack()
			}
			return m, nil
		}
		if double {
			if row.Node.Dir {
				m = m.drillInto(row.Node.Path)
			} else if m.splitActive() {
				m.tree.SelectByPath(row.Node.Path)
				m.syncPreview()
				m.focused = focusPreview
			}
			return m, nil
		}
		// Plain single: move the cursor to the clicked row.
		m.tree.SelectByPath(row.Node.Path)
		m.syncPreview()
	}
	return m, nil
}

func (m Model) previewPaneAt(x int) bool {
	return m.splitActive() && x >= m.treePaneWidth()
}

// ═══════════════════════════════════════════════════════════════════
// FOCUS OPERATIONS
// ═══════════════════════════════════════════════════════════════════

func (m Model) drillInto(path string) Model {
	before := m.store.Current()
	cur := m.store.Drill(path)
	m.afterFocusChange()
	switch {
	case cur == vault.RootPath:
		m.statusMsg = "Focus cleared"
	case before == vault.Normalize(path):
		m.statusMsg = fmt.Sprintf("Backed out to %s", cur)
	default:
		m.statusMsg = fmt.Sprintf("Focused %s", cur)
	}
	m.statusIsError = false
	return m
}

// jumpTo sets the focus directly (recent picker path).
func (m Model) jumpTo(path string) Model {
	cur := m.store.Set(path)
	m.afterFocusChange()
	if cur == vault.RootPath && vault.Normalize(path) != vault.RootPath {
		m.statusMsg = fmt.Sprintf("%s is gone, focus cleared", path)
		m.statusIsError = true
	} else {
		m.statusMsg = fmt.Sprintf("Focused %s", cur)
		m.statusIsError = false
	}
	return m
}

func (m Model) goBack() Model {
	before := m.store.Current()
	if before == vault.RootPath {
		m.statusMsg = "Already at the vault root"
		m.statusIsError = false
		return m
	}
	cur := m.store.Back()
	m.afterFocusChange()
	if cur == vault.RootPath {
		m.statusMsg = "Focus cleared"
	} else {
		m.statusMsg = fmt.Sprintf("Backed out to %s", cur)
	}
	m.statusIsError = false
	return m
}

func (m Model) resetFocus() Model {
	if m.store.Current() == vault.RootPath {
		return m
	}
	m.store.Reset()
	m.afterFocusChange()
	m.statusMsg = "Focus cleared"
	m.statusIsError = false
	return m
}

// afterFocusChange realigns the tree with the store. The store has
// already driven the engine, so the marks are current by the time
// this runs; only the view-side bits remain.
func (m *Model) afterFocusChange() {
	cur := m.store.Current()
	m.tree.SetFocusPath(cur)
	if !m.tree.SelectByPath(cur) {
		// Root has no row; land on the first visible one.
		m.tree.JumpToTop()
	}
	m.arbiter.Reset()
	m.syncPreview()
}

// syncPreview mirrors the tree selection into the preview pane.
func (m *Model) syncPreview() {
	if !m.showPreview {
		return
	}
	node := m.tree.SelectedNode()
	if node != nil && node.IsNote() {
		m.preview.ShowNote(m.vault.Dir(), node)
	} else {
		m.preview.Clear()
	}
}

func (m Model) openRecentPicker() Model {
	if m.recent == nil {
		m.statusMsg = "Focus history is off"
		m.statusIsError = true
		return m
	}
	paths, err := m.recent.Recent(50)
	if err != nil {
		m.statusMsg = fmt.Sprintf("History error: %v", err)
		m.statusIsError = true
		return m
	}
	if len(paths) == 0 {
		m.statusMsg = "Nothing focused yet"
		m.statusIsError = false
		return m
	}
	m.picker.SetPaths(paths)
	m.picker.Reset()
	m.showPicker = true
	m.focused = focusPicker
	return m
}

func (m Model) openInsights() Model {
	m.insights.SetStats(insights.Compute(m.vault.Root()), m.vaultName)
	m.showInsights = true
	m.focused = focusInsights
	return m
}

func (m *Model) yankFocusPath() {
	cur := m.store.Current()
	if err := clipboard.WriteAll(cur); err != nil {
		m.statusMsg = fmt.Sprintf("Clipboard error: %v", err)
		m.statusIsError = true
		return
	}
	m.statusMsg = fmt.Sprintf("Copied %s", cur)
	m.statusIsError = false
}

// Stop releases background resources. Call after the program exits.
func (m *Model) Stop() {
	if m.watcher != nil {
		m.watcher.Stop()
	}
}

// ═══════════════════════════════════════════════════════════════════
// LAYOUT
// ═══════════════════════════════════════════════════════════════════

func (m Model) bodyHeight() int {
	h := m.height - 2 // global header + footer
	if h < 5 {
		h = 5
	}
	return h
}

// treePaneWidth returns the tree's width; the full window when the
// preview is hidden or would fall below its minimum useful width.
func (m Model) treePaneWidth() int {
	if !m.showPreview || m.width < SplitViewThreshold {
		return m.width
	}
	w := int(float64(m.width) * m.splitPaneRatio)
	if w < 30 {
		w = 30
	}
	if m.width-w-1 < MinPreviewPaneWidth {
		return m.width
	}
	return w
}

func (m Model) splitActive() bool {
	return m.treePaneWidth() < m.width
}

func (m *Model) recalculateSplitPaneSizes() {
	bodyH := m.bodyHeight()
	treeW := m.treePaneWidth()
	m.tree.SetSize(treeW, bodyH)
	if treeW < m.width {
		m.preview.SetSize(m.width-treeW-1, bodyH)
	}
}

// ═══════════════════════════════════════════════════════════════════
// RENDERING
// ═══════════════════════════════════════════════════════════════════

func (m Model) View() string {
	defer metrics.Timer(metrics.TreeRender)()

	if !m.ready {
		return "Initializing..."
	}

	var body string
	isOverlay := false

	if m.showPicker {
		body = m.picker.View()
		isOverlay = true
	} else if m.showInsights {
		body = m.insights.View()
		isOverlay = true
	} else if m.showHelp {
		body = m.renderHelpOverlay()
		isOverlay = true
	} else if m.splitActive() {
		body = m.renderSplitView()
	} else {
		body = m.tree.View()
	}

	footer := m.renderFooter()

	// Pin the frame to the terminal size so the header cannot be
	// pushed off the top by an overlong body.
	finalStyle := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		MaxHeight(m.height)

	if isOverlay {
		return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, body, footer))
	}
	header := m.renderGlobalHeader()
	return finalStyle.Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))
}

func (m Model) renderSplitView() string {
	treeW := m.treePaneWidth()
	left := lipgloss.NewStyle().
		Width(treeW).
		MaxWidth(treeW).
		Render(m.tree.View())

	divider := m.theme.MutedText.Render(strings.TrimRight(
		strings.Repeat("│\n", m.bodyHeight()), "\n"))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, divider, m.preview.View())
}

func (m Model) renderGlobalHeader() string {
	name := m.theme.PrimaryBold.Render(" bur")
	vaultPart := m.theme.MutedText.Render("· " + m.vaultName)
	badge := RenderFocusBadge(m.store.Current(), m.theme)

	var watchPart string
	if m.watcher != nil && m.watcher.IsPolling() {
		watchPart = m.theme.MutedText.Render("polling ")
	}

	left := strings.Join([]string{name, vaultPart, badge}, " ")
	right := watchPart + m.theme.MutedText.Render(fmt.Sprintf("%d shown ", m.tree.VisibleCount()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) renderFooter() string {
	// A status message takes the whole bar until the next keypress.
	if m.statusMsg != "" {
		var msgStyle lipgloss.Style
		prefix := "✓ "
		if m.statusIsError {
			prefix = "✗ "
			msgStyle = m.theme.Renderer.NewStyle().
				Foreground(ColorDanger).
				Bold(true).
				Padding(0, 2)
		} else {
			msgStyle = m.theme.Renderer.NewStyle().
				Foreground(ColorSuccess).
				Bold(true).
				Padding(0, 2)
		}
		msgSection := msgStyle.Render(prefix + m.statusMsg)
		remaining := m.width - lipgloss.Width(msgSection)
		if remaining < 0 {
			remaining = 0
		}
		return msgSection + strings.Repeat(" ", remaining)
	}

	keyStyle := m.theme.Renderer.NewStyle().Foreground(ColorMuted)
	labelStyle := m.theme.Renderer.NewStyle().Foreground(ColorText)

	type hint struct {
		key   string
		label string
	}
	var hints []hint
	switch {
	case m.tree.IsSearchMode():
		hints = []hint{
			{"enter", "keep filter"},
			{"esc", "clear"},
			{"↑/↓", "nav"},
		}
	case m.focused == focusPreview:
		hints = []hint{
			{"j/k", "scroll"},
			{"tab", "tree"},
			{"p", "close"},
			{"q", "quit"},
		}
	default:
		hints = []hint{
			{"j/k", "nav"},
			{"enter", "drill"},
			{"bksp", "back"},
			{"R", "reset"},
			{"r", "recent"},
			{"/", "filter"},
			{"i", "insights"},
			{"?", "help"},
			{"q", "quit"},
		}
		if m.tree.SearchQuery() != "" {
			hints = append([]hint{{"esc", "clear filter"}}, hints...)
		}
	}

	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, keyStyle.Render(h.key)+" "+labelStyle.Render(h.label))
	}
	sep := m.theme.MutedText.Render("  ·  ")
	bar := " " + strings.Join(parts, sep)
	// Narrow windows drop trailing hints rather than wrapping the bar.
	for len(parts) > 3 && lipgloss.Width(bar) > m.width {
		parts = parts[:len(parts)-1]
		bar = " " + strings.Join(parts, sep)
	}
	return bar
}

func (m Model) renderHelpOverlay() string {
	title := m.theme.PrimaryBold.Render("Keys")

	section := func(name string, rows [][2]string) string {
		var b strings.Builder
		b.WriteString(m.theme.Header.Render(name) + "\n")
		for _, r := range rows {
			b.WriteString("  " + m.theme.FocusedBold.Render(padRight(r[0], 14)) + " " + r[1] + "\n")
		}
		return b.String()
	}

	body := strings.Join([]string{
		title,
		"",
		section("Navigate", [][2]string{
			{"j/k ↑/↓", "move"},
			{"h/l ←/→", "collapse / expand"},
			{"g/G", "top / bottom"},
			{"space", "toggle folder"},
			{"/", "filter rows"},
		}),
		section("Focus", [][2]string{
			{"enter", "drill into folder"},
			{"2×click", "drill (empty space: back)"},
			{"backspace", "back one level"},
			{"R", "reset to root"},
			{"r", "recent folders"},
		}),
		section("Panels", [][2]string{
			{"p", "toggle preview"},
			{"tab", "tree / preview"},
			{"i", "vault insights"},
			{"y", "copy focus path"},
		}),
		m.theme.MutedText.Render("?: close"),
	}, "\n")

	box := m.theme.Renderer.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.Border).
		Padding(1, 3).
		Render(body)

	return lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, box)
}

// ═══════════════════════════════════════════════════════════════════
// TEST AND ROBOT ACCESSORS
// ═══════════════════════════════════════════════════════════════════

// FocusPath returns the current focus (for tests and robot output).
func (m Model) FocusPath() string {
	return m.store.Current()
}

// Tree exposes the tree view (for tests and robot output).
func (m Model) Tree() *TreeView {
	return m.tree
}

// PickerVisible reports whether the recent picker overlay is open.
func (m Model) PickerVisible() bool {
	return m.showPicker
}

// InsightsVisible reports whether the insights overlay is open.
func (m Model) InsightsVisible() bool {
	return m.showInsights
}

// StatusLine returns the footer status (for tests).
func (m Model) StatusLine() (string, bool) {
	return m.statusMsg, m.statusIsError
}
