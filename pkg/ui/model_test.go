package ui_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/burrow/pkg/focus"
	"github.com/vanderheijden86/burrow/pkg/ui"
	"github.com/vanderheijden86/burrow/pkg/vault"
)

// newTestModel builds a model over a small on-disk vault.
//
//	/Journal
//	  2024.md
//	/Projects
//	  /Alpha
//	    notes.md
//	  /Beta
//	    plan.md
//	readme.md
//
// Default rows (nothing expanded): /Journal, /Projects, /readme.md.
func newTestModel(t *testing.T) (ui.Model, *vault.Vault) {
	t.Helper()
	dir := t.TempDir()
	files := []string{
		"Journal/2024.md",
		"Projects/Alpha/notes.md",
		"Projects/Beta/plan.md",
		"readme.md",
	}
	for _, f := range files {
		full := filepath.Join(dir, filepath.FromSlash(f))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("# "+filepath.Base(f)+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	v, err := vault.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	engine := focus.NewEngine(v)
	store := focus.NewStore(v, engine)
	return ui.NewModel(v, store, engine), v
}

// sendKey sends a rune key message through Update.
func sendKey(t *testing.T, m ui.Model, key string) ui.Model {
	t.Helper()
	newM, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)})
	return newM.(ui.Model)
}

// sendSpecialKey sends a special key (enter, esc, ...) through Update.
func sendSpecialKey(t *testing.T, m ui.Model, keyType tea.KeyType) ui.Model {
	t.Helper()
	newM, _ := m.Update(tea.KeyMsg{Type: keyType})
	return newM.(ui.Model)
}

func clickAt(t *testing.T, m ui.Model, x, y int) ui.Model {
	t.Helper()
	newM, _ := m.Update(tea.MouseMsg{
		X:      x,
		Y:      y,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	})
	return newM.(ui.Model)
}

func TestModelStartsAtRoot(t *testing.T) {
	m, _ := newTestModel(t)

	if m.FocusPath() != "/" {
		t.Errorf("Expected root focus on startup, got %s", m.FocusPath())
	}
	if m.Tree().VisibleCount() != 3 {
		t.Errorf("Expected 3 top-level rows, got %d", m.Tree().VisibleCount())
	}
}

func TestModelEnterDrillsIntoFolder(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "j") // /Projects
	m = sendSpecialKey(t, m, tea.KeyEnter)

	if m.FocusPath() != "/Projects" {
		t.Fatalf("Expected focus /Projects after enter, got %s", m.FocusPath())
	}
	paths := treeRowPaths(m)
	want := []string{"/Projects", "/Projects/Alpha", "/Projects/Beta"}
	if len(paths) != len(want) {
		t.Fatalf("Expected rows %v, got %v", want, paths)
	}
	if node := m.Tree().SelectedNode(); node == nil || node.Path != "/Projects" {
		t.Errorf("Expected cursor on the focused folder, got %v", node)
	}
	if status, isErr := m.StatusLine(); isErr || !strings.Contains(status, "/Projects") {
		t.Errorf("Expected a focus confirmation, got %q (err=%v)", status, isErr)
	}
}

func TestModelEnterOnFocusedFolderBacksOut(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.FocusPath() != "/Projects" {
		t.Fatalf("Expected /Projects, got %s", m.FocusPath())
	}

	// Cursor sits on /Projects; drilling it again zooms back out.
	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.FocusPath() != "/" {
		t.Errorf("Expected root after drilling the focused folder, got %s", m.FocusPath())
	}
}

func TestModelBackspaceClimbsOneLevel(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyEnter) // focus /Projects
	m = sendKey(t, m, "j")                 // /Projects/Alpha
	m = sendSpecialKey(t, m, tea.KeyEnter) // focus /Projects/Alpha

	if m.FocusPath() != "/Projects/Alpha" {
		t.Fatalf("Expected /Projects/Alpha, got %s", m.FocusPath())
	}

	m = sendSpecialKey(t, m, tea.KeyBackspace)
	if m.FocusPath() != "/Projects" {
		t.Errorf("Expected /Projects after backspace, got %s", m.FocusPath())
	}
	m = sendSpecialKey(t, m, tea.KeyBackspace)
	if m.FocusPath() != "/" {
		t.Errorf("Expected root after second backspace, got %s", m.FocusPath())
	}
	// Backing out of the root is a no-op with a gentle status.
	m = sendSpecialKey(t, m, tea.KeyBackspace)
	if m.FocusPath() != "/" {
		t.Errorf("Expected root to stay, got %s", m.FocusPath())
	}
}

func TestModelResetKey(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyEnter)
	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.FocusPath() != "/Projects/Alpha" {
		t.Fatalf("Expected /Projects/Alpha, got %s", m.FocusPath())
	}

	m = sendKey(t, m, "R")
	if m.FocusPath() != "/" {
		t.Errorf("Expected root after reset, got %s", m.FocusPath())
	}
	// Hide marks clear; expansion survives, so the drilled branch stays
	// open: Journal, Projects, Alpha, notes.md, Beta, readme.md.
	if m.Tree().VisibleCount() != 6 {
		t.Errorf("Expected the whole tree back after reset, got %d rows", m.Tree().VisibleCount())
	}
}

func TestModelDoubleClickDrills(t *testing.T) {
	m, _ := newTestModel(t)

	// Row y=1 under the one-line header is /Projects.
	m = clickAt(t, m, 2, 2)
	if m.FocusPath() != "/" {
		t.Fatalf("Expected single click to only select, got focus %s", m.FocusPath())
	}
	if node := m.Tree().SelectedNode(); node == nil || node.Path != "/Projects" {
		t.Fatalf("Expected single click to select /Projects, got %v", node)
	}

	m = clickAt(t, m, 2, 2)
	if m.FocusPath() != "/Projects" {
		t.Errorf("Expected double click to drill into /Projects, got %s", m.FocusPath())
	}
}

func TestModelDoubleClickEmptySpaceGoesBack(t *testing.T) {
	m, _ := newTestModel(t)

	m = clickAt(t, m, 2, 2)
	m = clickAt(t, m, 2, 2) // focus /Projects, 3 rows visible

	// Click well below the last row.
	m = clickAt(t, m, 2, 10)
	m = clickAt(t, m, 2, 10)
	if m.FocusPath() != "/" {
		t.Errorf("Expected empty-space double click to back out, got %s", m.FocusPath())
	}
}

func TestModelClicksOnDifferentRowsDoNotPair(t *testing.T) {
	m, _ := newTestModel(t)

	m = clickAt(t, m, 2, 1) // /Journal
	m = clickAt(t, m, 2, 2) // /Projects
	if m.FocusPath() != "/" {
		t.Errorf("Expected two singles on different rows, got focus %s", m.FocusPath())
	}
	if node := m.Tree().SelectedNode(); node == nil || node.Path != "/Projects" {
		t.Errorf("Expected cursor on the last clicked row, got %v", node)
	}
}

func TestModelSearchModeCapturesKeys(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "/")
	if !m.Tree().IsSearchMode() {
		t.Fatal("Expected search mode after /")
	}

	// Letters go into the query, not navigation.
	m = sendKey(t, m, "j")
	if m.Tree().SearchQuery() != "j" {
		t.Errorf("Expected query 'j', got %q", m.Tree().SearchQuery())
	}
	if m.Tree().RowIndex() != 0 {
		t.Errorf("Expected cursor to stay put, got row %d", m.Tree().RowIndex())
	}

	m = sendSpecialKey(t, m, tea.KeyEsc)
	if m.Tree().IsSearchMode() || m.Tree().SearchQuery() != "" {
		t.Error("Expected esc to leave search mode and clear the query")
	}
}

func TestModelSearchEnterKeepsFilter(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "/")
	m = sendKey(t, m, "j")
	m = sendKey(t, m, "o") // "jo" matches Journal only
	m = sendSpecialKey(t, m, tea.KeyEnter)

	if m.Tree().IsSearchMode() {
		t.Error("Expected enter to leave search mode")
	}
	if m.Tree().SearchQuery() != "jo" {
		t.Errorf("Expected the filter to survive enter, got %q", m.Tree().SearchQuery())
	}
	if m.Tree().VisibleCount() != 1 {
		t.Errorf("Expected 1 filtered row, got %d", m.Tree().VisibleCount())
	}
}

func TestModelFileChangePicksUpNewFolders(t *testing.T) {
	m, v := newTestModel(t)

	if err := os.MkdirAll(filepath.Join(v.Dir(), "Archive"), 0o755); err != nil {
		t.Fatal(err)
	}
	newM, _ := m.Update(ui.FileChangedMsg{})
	m = newM.(ui.Model)

	if m.Tree().VisibleCount() != 4 {
		t.Errorf("Expected the new folder to appear, got %d rows", m.Tree().VisibleCount())
	}
}

func TestModelFileChangeDropsStaleFocus(t *testing.T) {
	m, v := newTestModel(t)

	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.FocusPath() != "/Projects" {
		t.Fatalf("Expected /Projects, got %s", m.FocusPath())
	}

	if err := os.RemoveAll(filepath.Join(v.Dir(), "Projects")); err != nil {
		t.Fatal(err)
	}
	newM, _ := m.Update(ui.FileChangedMsg{})
	m = newM.(ui.Model)

	if m.FocusPath() != "/" {
		t.Errorf("Expected fallback to root after the focused folder vanished, got %s", m.FocusPath())
	}
	if status, isErr := m.StatusLine(); !isErr || status == "" {
		t.Errorf("Expected a warning status, got %q (err=%v)", status, isErr)
	}
	if m.Tree().VisibleCount() != 2 {
		t.Errorf("Expected the remaining top level, got %d rows", m.Tree().VisibleCount())
	}
}

func TestModelInsightsOverlayToggles(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "i")
	if !m.InsightsVisible() {
		t.Fatal("Expected insights overlay after i")
	}
	if out := m.View(); !strings.Contains(out, "Vault insights") {
		t.Error("Expected the insights panel in the rendered view")
	}

	m = sendSpecialKey(t, m, tea.KeyEsc)
	if m.InsightsVisible() {
		t.Error("Expected esc to close the insights overlay")
	}
}

type fakeRecent struct {
	paths []string
}

func (f fakeRecent) Recent(limit int) ([]string, error) {
	if limit < len(f.paths) {
		return f.paths[:limit], nil
	}
	return f.paths, nil
}

func TestModelRecentPickerJumps(t *testing.T) {
	m, _ := newTestModel(t)
	m = m.WithRecent(fakeRecent{paths: []string{"/Projects/Alpha", "/Journal"}})

	m = sendKey(t, m, "r")
	if !m.PickerVisible() {
		t.Fatal("Expected recent picker after r")
	}

	m = sendSpecialKey(t, m, tea.KeyEnter)
	if m.PickerVisible() {
		t.Error("Expected enter to close the picker")
	}
	if m.FocusPath() != "/Projects/Alpha" {
		t.Errorf("Expected jump to the most recent path, got %s", m.FocusPath())
	}
}

func TestModelRecentPickerWithoutJournal(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "r")
	if m.PickerVisible() {
		t.Error("Expected no picker when history is off")
	}
	if status, isErr := m.StatusLine(); !isErr || status == "" {
		t.Errorf("Expected a history-off status, got %q (err=%v)", status, isErr)
	}
}

func TestModelQuitKeys(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("Expected a quit command for q")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected q to produce tea.QuitMsg")
	}

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected a quit command for ctrl+c")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected ctrl+c to produce tea.QuitMsg")
	}
}

func TestModelViewRendersAtNarrowWidths(t *testing.T) {
	m, _ := newTestModel(t)

	newM, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 16})
	m = newM.(ui.Model)

	out := m.View()
	if out == "" {
		t.Fatal("Expected a rendered frame")
	}
	if !strings.Contains(out, "bur") {
		t.Error("Expected the header brand in the frame")
	}
	if !strings.Contains(out, "Projects") {
		t.Error("Expected tree content in the frame")
	}
}

func TestModelStatusClearsOnNextKey(t *testing.T) {
	m, _ := newTestModel(t)

	m = sendKey(t, m, "j")
	m = sendSpecialKey(t, m, tea.KeyEnter)
	if status, _ := m.StatusLine(); status == "" {
		t.Fatal("Expected a status after drilling")
	}

	m = sendKey(t, m, "k")
	if status, _ := m.StatusLine(); status != "" {
		t.Errorf("Expected the status to clear on the next key, got %q", status)
	}
}

func treeRowPaths(m ui.Model) []string {
	rows := m.Tree().Rows()
	paths := make([]string, len(rows))
	for i, r := range rows {
		paths[i] = r.Node.Path
	}
	return paths
}
