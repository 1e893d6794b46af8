package ui

import (
	"fmt"
	"strings"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// treeRow is one visible line of the tree pane.
type treeRow struct {
	Node *vault.Node
	Stub bool // Title-hidden ancestor rendered as an indent stub
}

// TreeView renders the vault tree with overlay marks applied. It
// satisfies focus.Renderer and focus.ExpandController: the engine
// pushes hide / title-off / expand marks into the maps here, and the
// visible row list is rebuilt lazily on the next read.
//
// The model holds a *TreeView so the pointer the engine attached stays
// valid across Bubble Tea's model copies.
type TreeView struct {
	vault *vault.Vault
	theme Theme

	rows           []treeRow
	cursor         int
	viewportOffset int // Index of first visible row
	width          int
	height         int

	// Overlay marks, keyed by path. A hidden folder drops its whole
	// subtree from the rows; a title-off ancestor renders as a stub.
	hidden   map[string]bool
	titleOff map[string]bool

	// Expansion state. Engine directives and manual toggles both land
	// here; unset paths default to collapsed. Survives ClearMarks, the
	// same split MarkMap makes.
	expanded map[string]bool

	// Focus context for row styling
	focusPath string

	// Search filter over visible rows (bur-s3f)
	searchMode  bool
	searchQuery string

	dirty bool // Rows need rebuilding before the next read
}

// NewTreeView returns a tree view over v with everything collapsed
// except the top level.
func NewTreeView(v *vault.Vault, theme Theme) *TreeView {
	return &TreeView{
		vault:     v,
		theme:     theme,
		focusPath: vault.RootPath,
		hidden:    make(map[string]bool),
		titleOff:  make(map[string]bool),
		expanded:  make(map[string]bool),
		dirty:     true,
	}
}

// SetSize updates the available dimensions for the tree pane.
func (t *TreeView) SetSize(width, height int) {
	t.width = width
	t.height = height
}

// SetFocusPath records the focus path used for row styling. The marks
// themselves arrive separately through the engine push.
func (t *TreeView) SetFocusPath(path string) {
	t.focusPath = vault.Normalize(path)
	t.dirty = true
}

// Invalidate forces a row rebuild on the next read. Call after a vault
// rescan: the node pointers behind the rows are stale.
func (t *TreeView) Invalidate() {
	t.dirty = true
}

// ── focus.Renderer ──

func (t *TreeView) SetNodeHidden(path string, hidden bool) {
	if hidden {
		t.hidden[path] = true
	} else {
		delete(t.hidden, path)
	}
	t.dirty = true
}

func (t *TreeView) SetTitleHidden(path string, hidden bool) {
	if hidden {
		t.titleOff[path] = true
	} else {
		delete(t.titleOff, path)
	}
	t.dirty = true
}

func (t *TreeView) ClearMarks() {
	clear(t.hidden)
	clear(t.titleOff)
	t.dirty = true
}

// ── focus.ExpandController ──

func (t *TreeView) SetExpanded(path string, expanded bool) {
	t.expanded[path] = expanded
	t.dirty = true
}

// isExpanded decides whether a folder shows its children. Title-off
// ancestors always do: the branch down to the focus must stay reachable
// no matter what the user collapsed before drilling.
func (t *TreeView) isExpanded(n *vault.Node) bool {
	if t.titleOff[n.Path] {
		return true
	}
	if exp, ok := t.expanded[n.Path]; ok {
		return exp
	}
	return false
}

// ensureRows rebuilds the visible row list if any mark, expansion, or
// filter changed since the last read.
func (t *TreeView) ensureRows() {
	if !t.dirty {
		return
	}
	t.rows = t.rows[:0]
	if root := t.vault.Root(); root != nil {
		for _, child := range root.Children {
			t.appendVisible(child)
		}
	}
	if t.searchQuery != "" {
		t.rows = t.filterRows(t.rows)
	}
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.dirty = false
}

// appendVisible adds a node and its visible descendants to rows.
// Hidden nodes drop out subtree and all; stubs still recurse so the
// focused branch shows through its folded ancestors.
func (t *TreeView) appendVisible(n *vault.Node) {
	if n == nil || t.hidden[n.Path] {
		return
	}
	t.rows = append(t.rows, treeRow{Node: n, Stub: t.titleOff[n.Path]})
	if n.Dir && t.isExpanded(n) {
		for _, child := range n.Children {
			t.appendVisible(child)
		}
	}
}

// filterRows keeps rows whose name contains the search query. Stubs
// have no visible title, so they never match.
func (t *TreeView) filterRows(rows []treeRow) []treeRow {
	q := strings.ToLower(t.searchQuery)
	out := rows[:0]
	for _, row := range rows {
		if row.Stub {
			continue
		}
		if strings.Contains(strings.ToLower(row.Node.Name), q) {
			out = append(out, row)
		}
	}
	return out
}

// ── Navigation ──

func (t *TreeView) MoveDown() {
	t.ensureRows()
	if t.cursor < len(t.rows)-1 {
		t.cursor++
	}
	t.ensureCursorVisible()
}

func (t *TreeView) MoveUp() {
	t.ensureRows()
	if t.cursor > 0 {
		t.cursor--
	}
	t.ensureCursorVisible()
}

func (t *TreeView) JumpToTop() {
	t.ensureRows()
	t.cursor = 0
	t.viewportOffset = 0
}

func (t *TreeView) JumpToBottom() {
	t.ensureRows()
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
	}
	t.ensureCursorVisible()
}

func (t *TreeView) PageDown() {
	t.ensureRows()
	half := t.effectiveVisibleCount() / 2
	if half < 1 {
		half = 1
	}
	t.cursor += half
	if t.cursor >= len(t.rows) {
		t.cursor = len(t.rows) - 1
	}
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

func (t *TreeView) PageUp() {
	t.ensureRows()
	half := t.effectiveVisibleCount() / 2
	if half < 1 {
		half = 1
	}
	t.cursor -= half
	if t.cursor < 0 {
		t.cursor = 0
	}
	t.ensureCursorVisible()
}

// ToggleExpand flips the expansion of the selected folder. Selecting a
// file is a no-op.
func (t *TreeView) ToggleExpand() {
	node := t.SelectedNode()
	if node == nil || !node.Dir {
		return
	}
	t.expanded[node.Path] = !t.isExpanded(node)
	t.dirty = true
}

// ExpandOrMoveToChild expands a collapsed folder; on an expanded folder
// it steps onto the first child.
func (t *TreeView) ExpandOrMoveToChild() {
	node := t.SelectedNode()
	if node == nil || !node.Dir {
		return
	}
	if !t.isExpanded(node) {
		t.expanded[node.Path] = true
		t.dirty = true
		return
	}
	if len(node.Children) > 0 {
		t.MoveDown()
	}
}

// CollapseOrJumpToParent collapses an expanded folder; on a file or a
// collapsed folder it jumps to the parent row.
func (t *TreeView) CollapseOrJumpToParent() {
	node := t.SelectedNode()
	if node == nil {
		return
	}
	if node.Dir && t.isExpanded(node) && !t.titleOff[node.Path] {
		t.expanded[node.Path] = false
		t.dirty = true
		return
	}
	if node.Parent != nil && !vault.IsRoot(node.Parent.Path) {
		t.SelectByPath(node.Parent.Path)
	}
}

// SelectedNode returns the node under the cursor, or nil.
func (t *TreeView) SelectedNode() *vault.Node {
	t.ensureRows()
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return nil
	}
	return t.rows[t.cursor].Node
}

// SelectedRow returns the row under the cursor and whether one exists.
func (t *TreeView) SelectedRow() (treeRow, bool) {
	t.ensureRows()
	if t.cursor < 0 || t.cursor >= len(t.rows) {
		return treeRow{}, false
	}
	return t.rows[t.cursor], true
}

// SelectByPath moves the cursor to the row showing path. Returns false
// when the path is not visible (hidden, collapsed away, or gone).
func (t *TreeView) SelectByPath(path string) bool {
	t.ensureRows()
	path = vault.Normalize(path)
	for i, row := range t.rows {
		if row.Node.Path == path {
			t.cursor = i
			t.ensureCursorVisible()
			return true
		}
	}
	return false
}

// RowAt maps a y offset inside the tree pane to the row rendered there.
// Used by the mouse handler to resolve click targets.
func (t *TreeView) RowAt(y int) (treeRow, bool) {
	t.ensureRows()
	if y < 0 {
		return treeRow{}, false
	}
	start, end := t.visibleRange()
	idx := start + y
	if idx >= end {
		return treeRow{}, false
	}
	return t.rows[idx], true
}

// RowIndex returns the cursor position (for tests).
func (t *TreeView) RowIndex() int {
	return t.cursor
}

// VisibleCount returns the number of rows the overlay leaves visible.
func (t *TreeView) VisibleCount() int {
	t.ensureRows()
	return len(t.rows)
}

// Rows returns the current visible rows (for tests and robot output).
func (t *TreeView) Rows() []treeRow {
	t.ensureRows()
	return t.rows
}

// ── Search ──

func (t *TreeView) EnterSearchMode() {
	t.searchMode = true
}

func (t *TreeView) ExitSearchMode() {
	t.searchMode = false
}

func (t *TreeView) IsSearchMode() bool {
	return t.searchMode
}

func (t *TreeView) SearchQuery() string {
	return t.searchQuery
}

func (t *TreeView) SearchAddRune(r rune) {
	t.searchQuery += string(r)
	t.dirty = true
}

func (t *TreeView) SearchBackspace() {
	if t.searchQuery == "" {
		return
	}
	runes := []rune(t.searchQuery)
	t.searchQuery = string(runes[:len(runes)-1])
	t.dirty = true
}

func (t *TreeView) ClearSearch() {
	t.searchMode = false
	t.searchQuery = ""
	t.dirty = true
}

// ── Rendering ──

// effectiveVisibleCount returns the number of row lines that fit,
// accounting for the position indicator and the search bar. Keeps
// ensureCursorVisible and visibleRange in sync.
func (t *TreeView) effectiveVisibleCount() int {
	visibleCount := t.height
	if visibleCount <= 0 {
		visibleCount = 20
	}
	if t.searchMode {
		visibleCount--
	}
	// Reserve a line for the position indicator when scrolling is needed
	if len(t.rows) > visibleCount {
		visibleCount--
	}
	if visibleCount < 1 {
		visibleCount = 1
	}
	return visibleCount
}

// ensureCursorVisible adjusts viewportOffset so the cursor stays in
// view, scrolling just enough to keep it at the nearest edge.
func (t *TreeView) ensureCursorVisible() {
	if len(t.rows) == 0 {
		return
	}

	visibleCount := t.effectiveVisibleCount()

	if t.cursor < t.viewportOffset {
		t.viewportOffset = t.cursor
	}
	if t.cursor >= t.viewportOffset+visibleCount {
		t.viewportOffset = t.cursor - visibleCount + 1
	}

	maxOffset := len(t.rows) - visibleCount
	if maxOffset < 0 {
		maxOffset = 0
	}
	if t.viewportOffset > maxOffset {
		t.viewportOffset = maxOffset
	}
	if t.viewportOffset < 0 {
		t.viewportOffset = 0
	}
}

// visibleRange returns the [start, end) slice of rows on screen.
func (t *TreeView) visibleRange() (start, end int) {
	if len(t.rows) == 0 {
		return 0, 0
	}

	visibleCount := t.effectiveVisibleCount()

	start = t.viewportOffset
	if start < 0 {
		start = 0
	}
	end = start + visibleCount
	if end > len(t.rows) {
		end = len(t.rows)
		start = end - visibleCount
		if start < 0 {
			start = 0
		}
	}
	return start, end
}

func (t *TreeView) View() string {
	t.ensureRows()
	if len(t.rows) == 0 {
		return t.renderEmptyState()
	}

	var sb strings.Builder
	start, end := t.visibleRange()

	// Render only the rows in view (windowed rendering)
	for i := start; i < end; i++ {
		line := t.renderRow(t.rows[i], i == t.cursor)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	// Position indicator when the tree overflows the pane
	if len(t.rows) > t.effectiveVisibleCount() {
		sb.WriteString(t.renderPositionIndicator(start, end))
		sb.WriteString("\n")
	}

	if t.searchMode {
		sb.WriteString(t.renderSearchBar())
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n")
}

// renderRow renders one line: indent, disclosure or file glyph, name.
// Stubs render the indent guide only; the focused folder gets the
// focus-ring style.
func (t *TreeView) renderRow(row treeRow, isSelected bool) string {
	node := row.Node
	depth := vault.Depth(node.Path)
	indent := strings.Repeat(" ", IndentWidth*(depth-1))

	var sb strings.Builder
	sb.WriteString(indent)

	switch {
	case row.Stub:
		// Ancestor of the focus: container stays, title goes (bur-t9h)
		sb.WriteString(t.theme.StubText.Render("▾ ·"))

	case node.Dir:
		indicator := "▸"
		if t.isExpanded(node) {
			indicator = "▾"
		}
		sb.WriteString(t.theme.MutedText.Render(indicator))
		sb.WriteString(" ")

		nameStyle := t.theme.FolderText
		if node.Path == t.focusPath {
			nameStyle = t.theme.FocusedBold
		}
		name := truncate(node.Name, t.nameWidth(depth, node))
		sb.WriteString(nameStyle.Render(name))

		if badge := RenderCountBadge(len(node.Children)); badge != "" {
			sb.WriteString(" ")
			sb.WriteString(badge)
		}

	default:
		icon, color := t.theme.FileIcon(node.IsNote())
		sb.WriteString(t.theme.Renderer.NewStyle().Foreground(color).Render(icon))
		sb.WriteString(" ")

		name := truncate(node.Name, t.nameWidth(depth, node))
		if node.IsNote() {
			sb.WriteString(t.theme.NoteText.Render(name))
		} else {
			sb.WriteString(t.theme.MutedText.Render(name))
		}
	}

	line := sb.String()
	if isSelected {
		line = t.theme.Selected.Render(line)
	}
	return line
}

// nameWidth returns the cell budget for a row's name: pane width minus
// indent, glyph, and the count badge folders carry.
func (t *TreeView) nameWidth(depth int, node *vault.Node) int {
	width := t.width
	if width <= 0 {
		width = 80
	}
	used := IndentWidth*(depth-1) + 2 // indent + glyph + space
	if node.Dir {
		used += len(fmt.Sprintf(" (%d)", len(node.Children)))
	}
	w := width - used - 1
	if w < 8 {
		w = 8
	}
	return w
}

// renderPositionIndicator renders the scroll position line.
func (t *TreeView) renderPositionIndicator(start, end int) string {
	return t.theme.MutedText.Render(
		fmt.Sprintf(" %d-%d of %d", start+1, end, len(t.rows)))
}

func (t *TreeView) renderSearchBar() string {
	prompt := t.theme.PrimaryBold.Render("/")
	return prompt + t.theme.Base.Render(t.searchQuery) + t.theme.MutedText.Render("▌")
}

func (t *TreeView) renderEmptyState() string {
	if t.searchQuery != "" {
		return t.theme.MutedText.Render(fmt.Sprintf("No rows match %q.", t.searchQuery))
	}
	var sb strings.Builder
	sb.WriteString(t.theme.PrimaryBold.Render("Empty vault"))
	sb.WriteString("\n\n")
	sb.WriteString(t.theme.MutedText.Render("No folders or notes found under the vault root."))
	return sb.String()
}
