package testutil

import (
	"strings"
	"testing"
)

func TestBalancedCounts(t *testing.T) {
	// depth 1, 2 folders, 3 notes: 3 root notes + 2 folders * 3 notes.
	paths := Balanced(1, 2, 3)

	folders, notes := 0, 0
	for _, p := range paths {
		if strings.HasSuffix(p, "/") {
			folders++
		} else {
			notes++
		}
	}
	if folders != 2 {
		t.Errorf("expected 2 folders, got %d", folders)
	}
	if notes != 9 {
		t.Errorf("expected 9 notes, got %d", notes)
	}
}

func TestBalancedIsDeterministic(t *testing.T) {
	a := Balanced(2, 2, 1)
	b := Balanced(2, 2, 1)
	if len(a) != len(b) {
		t.Fatalf("expected identical lengths, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("expected identical trees, diverged at %d: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestOpenVaultScansWrittenTree(t *testing.T) {
	v := OpenVault(t,
		"Projects/",
		"Projects/plan.md",
		"Projects/Deep/idea.md",
		"loose.md",
	)

	AssertExists(t, v, "/Projects")
	AssertFolder(t, v, "/Projects/Deep")
	AssertExists(t, v, "/Projects/Deep/idea.md")
	AssertExists(t, v, "/loose.md")
	AssertMissing(t, v, "/nope.md")

	// root + 2 folders + 3 files
	AssertNodeCount(t, v, 6)
}

func TestDeepChain(t *testing.T) {
	v := OpenVault(t, Deep(4)...)

	AssertFolder(t, v, "/level-00/level-01/level-02/level-03")
	AssertExists(t, v, "/level-00/level-01/level-02/level-03/bottom.md")
}
