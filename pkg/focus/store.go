package focus

import (
	"log"

	"github.com/vanderheijden86/burrow/pkg/debug"
	"github.com/vanderheijden86/burrow/pkg/metrics"
	"github.com/vanderheijden86/burrow/pkg/vault"
)

// Journal actions recorded for applied focus transitions.
const (
	ActionFocus = "focus"
	ActionBack  = "back"
	ActionReset = "reset"
)

// Recorder receives applied focus transitions, most recent first in
// whatever store backs it. Implementations must not block and must
// swallow their own failures; the journal is advisory.
type Recorder interface {
	Record(action, path string)
}

// Store owns the single authoritative focus path for one vault. All
// methods run on the host event loop; the Store does no locking of its
// own.
//
// Every mutation fails soft: a path that no longer resolves to a
// folder falls back to the root focus with a warning, and the returned
// string is always the path actually applied. No Store method returns
// an error.
type Store struct {
	source  TreeSource
	engine  *Engine
	state   StateStore
	journal Recorder
	current string
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithStateStore enables persistence of the focus path.
func WithStateStore(ss StateStore) StoreOption {
	return func(s *Store) { s.state = ss }
}

// WithRecorder enables journaling of focus transitions.
func WithRecorder(r Recorder) StoreOption {
	return func(s *Store) { s.journal = r }
}

// NewStore returns a Store at root focus. Call Restore after the
// host's renderers are attached to pick up the persisted focus.
func NewStore(source TreeSource, engine *Engine, opts ...StoreOption) *Store {
	s := &Store{source: source, engine: engine, current: vault.RootPath}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the focus path. Never empty; "/" means root focus.
func (s *Store) Current() string {
	if s.current == "" {
		return vault.RootPath
	}
	return s.current
}

// Set focuses path. Focusing the root is identical to Reset.
func (s *Store) Set(path string) string {
	path = vault.Normalize(path)
	if path == vault.RootPath {
		return s.Reset()
	}
	return s.apply(ActionFocus, path)
}

// Reset returns to root focus and clears every overlay mark.
func (s *Store) Reset() string {
	return s.apply(ActionReset, vault.RootPath)
}

// Back climbs one level toward the root. At root focus it is a
// complete no-op: nothing recomputes, persists, or journals. When the
// current path itself no longer resolves, Back skips the parent walk
// and falls straight back to the root.
func (s *Store) Back() string {
	cur := s.Current()
	if cur == vault.RootPath {
		return cur
	}
	if !s.source.FolderExists(cur) {
		log.Printf("warning: focused folder %s is gone, falling back to the vault root", cur)
		return s.apply(ActionReset, vault.RootPath)
	}
	return s.apply(ActionBack, vault.Parent(cur))
}

// Drill is the gesture entry point. Drilling into the folder you are
// already focused on zooms back out one level instead, so a repeated
// double-click toggles rather than dead-ends. (bur-7vu)
func (s *Store) Drill(path string) string {
	path = vault.Normalize(path)
	if path == vault.RootPath {
		return s.Reset()
	}
	if path == s.Current() {
		return s.Back()
	}
	return s.apply(ActionFocus, path)
}

// Restore loads the persisted focus path and applies it through the
// same stale-path validation as Set, so a folder deleted since the
// last session falls back to the root focus with a warning instead of
// an error. Restores are not journaled; only user actions are.
func (s *Store) Restore() string {
	if s.state == nil {
		return s.Current()
	}
	st, err := s.state.Load()
	if err != nil {
		log.Printf("warning: could not load focus state: %v", err)
		return s.Current()
	}
	path := vault.Normalize(st.FocusPath)
	if path == vault.RootPath {
		return s.Current()
	}
	if !s.source.FolderExists(path) {
		log.Printf("warning: focused folder %s is gone, starting at the vault root", path)
		return s.Current()
	}
	s.current = path
	s.engine.FocusChanged(path)
	debug.Log("focus: restored %s", path)
	return path
}

// Revalidate re-checks the current focus against the tree and
// recomputes marks. Call after a rescan: if the focused folder
// vanished the view falls back to root focus.
func (s *Store) Revalidate() string {
	cur := s.Current()
	if cur == vault.RootPath {
		s.engine.Clear()
		return cur
	}
	if !s.source.FolderExists(cur) {
		log.Printf("warning: focused folder %s is gone, falling back to the vault root", cur)
		return s.apply(ActionReset, vault.RootPath)
	}
	s.engine.Recompute(cur)
	return cur
}

// apply is the single mutation path: validate, update, persist,
// recompute, journal. Persistence runs before the overlay pushes and
// its failures never block the visual update. Root focus always means
// clear-everything.
func (s *Store) apply(action, path string) string {
	defer metrics.Timer(metrics.FocusApply)()

	if path != vault.RootPath && !s.source.FolderExists(path) {
		log.Printf("warning: focused folder %s is gone, falling back to the vault root", path)
		action, path = ActionReset, vault.RootPath
	}
	s.current = path
	s.persist()
	if path == vault.RootPath {
		s.engine.Clear()
	} else {
		s.engine.FocusChanged(path)
	}
	if s.journal != nil {
		s.journal.Record(action, path)
	}
	debug.Log("focus: %s -> %s", action, path)
	return path
}

// persist writes the focus path through the state store. Failures are
// warned and swallowed; the in-memory path stays authoritative.
func (s *Store) persist() {
	if s.state == nil {
		return
	}
	if err := s.state.Save(State{Version: stateVersion, FocusPath: s.current}); err != nil {
		log.Printf("warning: could not save focus state: %v", err)
	}
}
