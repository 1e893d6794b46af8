package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.UI.SplitRatio != 0.4 {
		t.Errorf("expected split ratio 0.4, got %f", cfg.UI.SplitRatio)
	}
	if cfg.DoubleClickMS != 300 {
		t.Errorf("expected double_click_ms 300, got %d", cfg.DoubleClickMS)
	}
	if !cfg.PersistEnabled() {
		t.Error("expected focus persistence on by default")
	}
	if !cfg.HistoryEnabled() {
		t.Error("expected history on by default")
	}
	if !cfg.PreviewEnabled() {
		t.Error("expected preview on by default")
	}
}

func TestLoadFrom_NonExistent(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}
	if cfg.DoubleClickMS != 300 {
		t.Errorf("expected default config, got double_click_ms %d", cfg.DoubleClickMS)
	}
}

func TestLoadFrom_ValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	content := `
vaults:
  - name: notes
    path: ~/notes
  - name: work
    path: /srv/work-vault

default_vault: notes

ignore:
  - Attachments
  - _build

double_click_ms: 450
persist_focus: false

ui:
  theme: dark
  split_ratio: 0.5
  preview: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if len(cfg.Vaults) != 2 {
		t.Fatalf("expected 2 vaults, got %d", len(cfg.Vaults))
	}
	// Path should have ~ expanded
	home, _ := os.UserHomeDir()
	expectedPath := filepath.Join(home, "notes")
	if cfg.Vaults[0].Path != expectedPath {
		t.Errorf("expected expanded path %q, got %q", expectedPath, cfg.Vaults[0].Path)
	}
	if cfg.Vaults[1].Path != "/srv/work-vault" {
		t.Errorf("expected absolute path preserved, got %q", cfg.Vaults[1].Path)
	}

	if cfg.DefaultVault != "notes" {
		t.Errorf("expected default_vault 'notes', got %q", cfg.DefaultVault)
	}
	if len(cfg.Ignore) != 2 || cfg.Ignore[0] != "Attachments" {
		t.Errorf("unexpected ignore list %v", cfg.Ignore)
	}
	if got := cfg.DoubleClickWindow(); got != 450*time.Millisecond {
		t.Errorf("expected 450ms window, got %v", got)
	}
	if cfg.PersistEnabled() {
		t.Error("expected persist_focus false")
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("expected theme 'dark', got %q", cfg.UI.Theme)
	}
	if cfg.UI.SplitRatio != 0.5 {
		t.Errorf("expected split_ratio 0.5, got %f", cfg.UI.SplitRatio)
	}
	if cfg.PreviewEnabled() {
		t.Error("expected preview false")
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(path, []byte("{{invalid yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadFrom(path)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := Config{
		Vaults: []Vault{
			{Name: "notes", Path: "/vaults/notes"},
			{Name: "work", Path: "/vaults/work"},
		},
		DefaultVault:  "work",
		DoubleClickMS: 250,
	}

	if err := SaveTo(cfg, path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}

	if len(loaded.Vaults) != 2 {
		t.Errorf("expected 2 vaults, got %d", len(loaded.Vaults))
	}
	if loaded.Vaults[0].Name != "notes" {
		t.Errorf("expected 'notes', got %q", loaded.Vaults[0].Name)
	}
	if loaded.DefaultVault != "work" {
		t.Errorf("expected default 'work', got %q", loaded.DefaultVault)
	}
	if loaded.DoubleClickMS != 250 {
		t.Errorf("expected 250, got %d", loaded.DoubleClickMS)
	}
}

func TestFindVault(t *testing.T) {
	cfg := Config{
		Vaults: []Vault{
			{Name: "alpha", Path: "/a"},
			{Name: "Beta", Path: "/b"},
		},
	}

	v := cfg.FindVault("alpha")
	if v == nil || v.Name != "alpha" {
		t.Error("expected to find 'alpha'")
	}

	// Case-insensitive
	v = cfg.FindVault("BETA")
	if v == nil || v.Name != "Beta" {
		t.Error("expected to find 'Beta' case-insensitively")
	}

	v = cfg.FindVault("nonexistent")
	if v != nil {
		t.Error("expected nil for nonexistent vault")
	}
}

func TestResolveVault(t *testing.T) {
	cfg := Config{
		Vaults: []Vault{
			{Name: "notes", Path: "/vaults/notes"},
		},
		DefaultVault: "notes",
	}

	if got := cfg.ResolveVault("notes"); got != "/vaults/notes" {
		t.Errorf("registered name resolved to %q", got)
	}
	if got := cfg.ResolveVault("/somewhere/else"); got != "/somewhere/else" {
		t.Errorf("path argument resolved to %q", got)
	}
	if got := cfg.ResolveVault(""); got != "/vaults/notes" {
		t.Errorf("empty argument should use default vault, got %q", got)
	}

	empty := Config{}
	if got := empty.ResolveVault(""); got != "." {
		t.Errorf("no default vault should fall back to cwd, got %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home dir")
	}

	tests := []struct {
		input    string
		expected string
	}{
		{"~/foo", filepath.Join(home, "foo")},
		{"~/", filepath.Join(home, "")},
		{"/absolute", "/absolute"},
		{"relative", "relative"},
	}

	for _, tt := range tests {
		got := expandHome(tt.input)
		if got != tt.expected {
			t.Errorf("expandHome(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestConfigDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	got := ConfigDir()
	expected := filepath.Join(dir, "burrow")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestDataDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DataDir()
	expected := filepath.Join(dir, "burrow")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}

func TestStateDir_XDGOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	got := StateDir()
	expected := filepath.Join(dir, "burrow")
	if got != expected {
		t.Errorf("expected %q, got %q", expected, got)
	}
}
