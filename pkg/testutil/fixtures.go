// Package testutil provides deterministic vault fixtures for tests.
// Generators produce the same tree for the same parameters so failures
// reproduce exactly.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// WriteTree materializes vault-relative paths under dir. Entries ending
// in "/" become folders; everything else becomes a file with a small
// markdown body.
func WriteTree(t *testing.T, dir string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		rel := strings.TrimPrefix(p, "/")
		full := filepath.Join(dir, filepath.FromSlash(strings.TrimSuffix(rel, "/")))
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0o755); err != nil {
				t.Fatalf("mkdir %s: %v", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("mkdir for %s: %v", p, err)
		}
		body := fmt.Sprintf("# %s\n\nfixture note\n", filepath.Base(full))
		if err := os.WriteFile(full, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// OpenVault writes paths into a fresh temp dir and scans it.
func OpenVault(t *testing.T, paths ...string) *vault.Vault {
	t.Helper()
	dir := t.TempDir()
	WriteTree(t, dir, paths...)
	v, err := vault.Open(dir)
	if err != nil {
		t.Fatalf("opening fixture vault: %v", err)
	}
	return v
}

// Balanced returns the paths of a uniform tree: folders per level,
// notes per folder, to the given depth. Depth 0 yields only root-level
// notes. Paths come back sorted the way a scan would order them.
func Balanced(depth, foldersPerLevel, notesPerFolder int) []string {
	var out []string
	var walk func(prefix string, level int)
	walk = func(prefix string, level int) {
		for n := 0; n < notesPerFolder; n++ {
			out = append(out, fmt.Sprintf("%snote-%02d.md", prefix, n))
		}
		if level >= depth {
			return
		}
		for f := 0; f < foldersPerLevel; f++ {
			sub := fmt.Sprintf("%sfolder-%02d/", prefix, f)
			out = append(out, sub)
			walk(sub, level+1)
		}
	}
	walk("", 0)
	return out
}

// Flat returns n root-level notes.
func Flat(n int) []string {
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, fmt.Sprintf("note-%03d.md", i))
	}
	return out
}

// Deep returns a single chain of nested folders with one note at the
// bottom, for depth and ancestor-walk tests.
func Deep(depth int) []string {
	var out []string
	prefix := ""
	for i := 0; i < depth; i++ {
		prefix += fmt.Sprintf("level-%02d/", i)
		out = append(out, prefix)
	}
	out = append(out, prefix+"bottom.md")
	return out
}
