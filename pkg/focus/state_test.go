package focus

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateStoreFirstRun(t *testing.T) {
	ss := NewFileStateStore(filepath.Join(t.TempDir(), ".burrow"))
	st, err := ss.Load()
	if err != nil {
		t.Fatalf("Load on first run: %v", err)
	}
	if st.FocusPath != "/" || st.Version != stateVersion {
		t.Errorf("first run state = %+v", st)
	}
}

func TestStateStoreRoundTrip(t *testing.T) {
	ss := NewFileStateStore(filepath.Join(t.TempDir(), ".burrow"))
	if err := ss.Save(State{Version: stateVersion, FocusPath: "/Notes/Daily"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	st, err := ss.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.FocusPath != "/Notes/Daily" {
		t.Errorf("FocusPath = %q", st.FocusPath)
	}
}

func TestStateStoreCorruptFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".burrow")
	ss := NewFileStateStore(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ss.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ss.Load(); err == nil {
		t.Fatal("expected error for corrupt state file")
	}
}

func TestStateStoreUnknownVersionIgnored(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".burrow")
	ss := NewFileStateStore(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(ss.Path(), []byte(`{"version":99,"focus_path":"/X"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	st, err := ss.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if st.FocusPath != "/" {
		t.Errorf("unknown version should yield root focus, got %q", st.FocusPath)
	}
}
