package robot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/burrow/pkg/focus"
	"github.com/vanderheijden86/burrow/pkg/vault"
)

// openTestVault scans a small fixture vault:
//
//	Projects/plan.md
//	Projects/2024/q1.md
//	Archive/old.md
//	scratch.md
func openTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	dir := t.TempDir()
	for _, d := range []string{"Projects/2024", "Archive"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	for _, f := range []string{"Projects/plan.md", "Projects/2024/q1.md", "Archive/old.md", "scratch.md"} {
		if err := os.WriteFile(filepath.Join(dir, f), []byte("# note"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	v, err := vault.Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	return v
}

func TestBuildStateReport(t *testing.T) {
	v := openTestVault(t)

	rep := BuildStateReport(v, "/Projects")

	if rep.Vault != v.Dir() {
		t.Errorf("Vault = %q, expected %q", rep.Vault, v.Dir())
	}
	if rep.FocusPath != "/Projects" {
		t.Errorf("FocusPath = %q, expected /Projects", rep.FocusPath)
	}
	if rep.Folders != 3 {
		t.Errorf("Folders = %d, expected 3", rep.Folders)
	}
	if rep.Notes != 4 {
		t.Errorf("Notes = %d, expected 4", rep.Notes)
	}
	if rep.Attachments != 0 {
		t.Errorf("Attachments = %d, expected 0", rep.Attachments)
	}
	if _, err := time.Parse(time.RFC3339, rep.GeneratedAt); err != nil {
		t.Errorf("GeneratedAt %q is not RFC3339: %v", rep.GeneratedAt, err)
	}
}

func TestBuildTreeReport_MarksFromEngine(t *testing.T) {
	v := openTestVault(t)

	engine := focus.NewEngine(v)
	marks := focus.NewMarkMap()
	engine.Attach(marks)
	engine.Recompute("/Projects")

	rep := BuildTreeReport(v, "/Projects", marks)

	rows := map[string]TreeNode{}
	for _, n := range rep.Nodes {
		rows[n.Path] = n
	}

	cases := []struct {
		path        string
		relation    string
		hidden      bool
		titleHidden bool
	}{
		{"/", "ancestor", false, true},
		{"/Projects", "self", false, false},
		{"/Projects/plan.md", "descendant", false, false},
		{"/Projects/2024", "descendant", false, false},
		{"/Archive", "unrelated", true, false},
		{"/scratch.md", "unrelated", true, false},
	}
	for _, c := range cases {
		row, ok := rows[c.path]
		if !ok {
			t.Errorf("missing row for %s", c.path)
			continue
		}
		if row.Relation != c.relation {
			t.Errorf("%s relation = %q, expected %q", c.path, row.Relation, c.relation)
		}
		if row.Hidden != c.hidden {
			t.Errorf("%s hidden = %v, expected %v", c.path, row.Hidden, c.hidden)
		}
		if row.TitleHidden != c.titleHidden {
			t.Errorf("%s title_hidden = %v, expected %v", c.path, row.TitleHidden, c.titleHidden)
		}
	}

	if len(rep.Nodes) != v.Len() {
		t.Errorf("report has %d nodes, vault has %d", len(rep.Nodes), v.Len())
	}
}

func TestBuildTreeReport_RootFocusNoMarks(t *testing.T) {
	v := openTestVault(t)

	rep := BuildTreeReport(v, "/", focus.NewMarkMap())

	for _, n := range rep.Nodes {
		if n.Relation != "root-focus" {
			t.Errorf("%s relation = %q, expected root-focus", n.Path, n.Relation)
		}
		if n.Hidden || n.TitleHidden {
			t.Errorf("%s carries marks under root focus", n.Path)
		}
	}
}

func TestBuildTreeReport_NilMarks(t *testing.T) {
	v := openTestVault(t)

	rep := BuildTreeReport(v, "/Projects", nil)
	for _, n := range rep.Nodes {
		if n.Hidden || n.TitleHidden {
			t.Fatalf("nil marks must yield unmarked rows, got %+v", n)
		}
	}
}

func TestBuildInsightsReport(t *testing.T) {
	v := openTestVault(t)

	rep := BuildInsightsReport(v, "/")

	if rep.Stats.Notes != 4 || rep.Stats.Folders != 3 {
		t.Errorf("stats = %+v, expected 4 notes across 3 folders", rep.Stats)
	}
	if rep.Stats.MaxDepth != 3 {
		t.Errorf("MaxDepth = %d, expected 3", rep.Stats.MaxDepth)
	}
}

func TestWrite_IndentedJSON(t *testing.T) {
	v := openTestVault(t)
	rep := BuildStateReport(v, "/")

	var buf bytes.Buffer
	if err := Write(&buf, rep); err != nil {
		t.Fatalf("Write: %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Error("output should end with a newline")
	}
	if !strings.Contains(out, "  \"focus_path\"") {
		t.Error("output should be indented")
	}

	var decoded StateReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.FocusPath != "/" || decoded.Notes != rep.Notes {
		t.Errorf("round-trip mismatch: %+v vs %+v", decoded, rep)
	}
}
