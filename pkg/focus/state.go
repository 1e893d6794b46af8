package focus

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// State is the persisted focus document.
//
// File format (JSON):
//
//	{
//	  "version": 1,
//	  "focus_path": "/Projects/2024"
//	}
//
// Design notes:
//   - One document per vault, under the vault's state directory
//   - Version field enables future schema migrations
//   - Corrupted/missing file = root focus (graceful degradation)
type State struct {
	Version   int    `json:"version"`
	FocusPath string `json:"focus_path"`
}

// stateVersion is the current schema version for focus persistence.
const stateVersion = 1

// stateFileName is the filename for the persisted focus document.
const stateFileName = "focus.json"

// StateStore loads and saves the persisted focus document. The Store
// treats every failure as non-fatal.
type StateStore interface {
	Load() (State, error)
	Save(State) error
}

// FileStateStore keeps the focus document as JSON under a state
// directory (normally <vault>/.burrow, or wherever BURROW_DIR points).
type FileStateStore struct {
	dir string
}

// NewFileStateStore returns a store writing under dir. The directory
// is created on first save, not here.
func NewFileStateStore(dir string) *FileStateStore {
	return &FileStateStore{dir: dir}
}

// Path returns the full path of the focus document.
func (f *FileStateStore) Path() string {
	return filepath.Join(f.dir, stateFileName)
}

// Load reads the focus document. A missing file is a first run and
// returns root focus; an unknown schema version is ignored the same
// way rather than guessed at. (bur-2qd)
func (f *FileStateStore) Load() (State, error) {
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return State{Version: stateVersion, FocusPath: vault.RootPath}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("reading focus state: %w", err)
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}, fmt.Errorf("parsing focus state: %w", err)
	}
	if st.Version != stateVersion {
		log.Printf("warning: focus state version %d is unknown, starting at the vault root", st.Version)
		return State{Version: stateVersion, FocusPath: vault.RootPath}, nil
	}
	if st.FocusPath == "" {
		st.FocusPath = vault.RootPath
	}
	return st, nil
}

// Save writes the focus document, creating the state directory on
// first use.
func (f *FileStateStore) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling focus state: %w", err)
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(f.Path(), data, 0644); err != nil {
		return fmt.Errorf("writing focus state: %w", err)
	}
	return nil
}
