package main_test

import (
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type stateReport struct {
	GeneratedAt string `json:"generated_at"`
	Vault       string `json:"vault"`
	FocusPath   string `json:"focus_path"`
	Folders     int    `json:"folders"`
	Notes       int    `json:"notes"`
	Attachments int    `json:"attachments"`
}

func robotState(t *testing.T, vaultDir string) (stateReport, string) {
	t.Helper()
	out, stderr := runBur(t, vaultDir, "--robot-state")
	var rep stateReport
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("decode --robot-state: %v\nout=%s", err, out)
	}
	return rep, stderr
}

func TestHeadlessFocusRoundTrip(t *testing.T) {
	dir := seedVault(t)

	out, _ := runBur(t, dir, "--focus", "/Projects/Alpha")
	if got := strings.TrimSpace(out); got != "/Projects/Alpha" {
		t.Fatalf("--focus printed %q, want /Projects/Alpha", got)
	}

	rep, _ := robotState(t, dir)
	if rep.FocusPath != "/Projects/Alpha" {
		t.Fatalf("focus did not persist across invocations: %q", rep.FocusPath)
	}
	if rep.Folders != 4 || rep.Notes != 5 || rep.Attachments != 0 {
		t.Fatalf("wrong counts: folders=%d notes=%d attachments=%d",
			rep.Folders, rep.Notes, rep.Attachments)
	}

	out, _ = runBur(t, dir, "--back")
	if got := strings.TrimSpace(out); got != "/Projects" {
		t.Fatalf("--back printed %q, want /Projects", got)
	}
	if rep, _ := robotState(t, dir); rep.FocusPath != "/Projects" {
		t.Fatalf("back did not persist: %q", rep.FocusPath)
	}

	out, _ = runBur(t, dir, "--reset-focus")
	if got := strings.TrimSpace(out); got != "/" {
		t.Fatalf("--reset-focus printed %q, want /", got)
	}
	if rep, _ := robotState(t, dir); rep.FocusPath != "/" {
		t.Fatalf("reset did not persist: %q", rep.FocusPath)
	}
}

func TestFocusAcceptsRelativePaths(t *testing.T) {
	dir := seedVault(t)
	out, _ := runBur(t, dir, "--focus", "Projects/Beta")
	if got := strings.TrimSpace(out); got != "/Projects/Beta" {
		t.Fatalf("missing leading slash should normalize, got %q", got)
	}
}

func TestFocusOnMissingFolderFailsSoft(t *testing.T) {
	dir := seedVault(t)
	out, stderr := runBur(t, dir, "--focus", "/Does/Not/Exist")
	if got := strings.TrimSpace(out); got != "/" {
		t.Fatalf("missing folder should fall back to root, got %q", got)
	}
	if !strings.Contains(stderr, "is gone") {
		t.Fatalf("expected a warning on stderr, got: %s", stderr)
	}
}

func TestStaleFocusFallsBackToRoot(t *testing.T) {
	dir := seedVault(t)
	runBur(t, dir, "--focus", "/Projects/Alpha")

	if err := os.RemoveAll(filepath.Join(dir, "Projects", "Alpha")); err != nil {
		t.Fatalf("remove focused folder: %v", err)
	}

	rep, stderr := robotState(t, dir)
	if rep.FocusPath != "/" {
		t.Fatalf("stale focus should fall back to root, got %q", rep.FocusPath)
	}
	if !strings.Contains(stderr, "is gone") {
		t.Fatalf("expected a stale warning on stderr, got: %s", stderr)
	}
}

func TestMutationFlagsAreExclusive(t *testing.T) {
	dir := seedVault(t)
	cmd := burCommand(t, dir, "--focus", "/Projects", "--back")
	out, err := cmd.CombinedOutput()

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected an exit error, got %v\n%s", err, out)
	}
	if code := exitErr.ExitCode(); code != 2 {
		t.Fatalf("expected exit code 2, got %d\n%s", code, out)
	}
	if !strings.Contains(string(out), "mutually exclusive") {
		t.Fatalf("expected a usage error, got: %s", out)
	}
}

func TestFocusStateAndJournalLiveInVault(t *testing.T) {
	dir := seedVault(t)
	runBur(t, dir, "--focus", "/Journal")

	if _, err := os.Stat(filepath.Join(dir, ".burrow", "focus.json")); err != nil {
		t.Fatalf("focus.json missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".burrow", "history.db")); err != nil {
		t.Fatalf("history.db missing: %v", err)
	}
}

func TestBurrowDirOverridesStateLocation(t *testing.T) {
	dir := seedVault(t)
	stateDir := t.TempDir()

	cmd := burCommand(t, dir, "--focus", "/Journal")
	cmd.Env = append(cmd.Env, "BURROW_DIR="+stateDir)
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("bur --focus with BURROW_DIR failed: %v\n%s", err, out)
	}

	if _, err := os.Stat(filepath.Join(stateDir, "focus.json")); err != nil {
		t.Fatalf("focus.json not under BURROW_DIR: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".burrow")); !os.IsNotExist(err) {
		t.Fatalf("state leaked into the vault: stat err=%v", err)
	}
}
