package focus

import (
	"time"

	"github.com/vanderheijden86/burrow/pkg/debug"
)

// TreeSource is the read surface the focus machinery needs from the
// host's tree. pkg/vault satisfies it; tests use fakes.
type TreeSource interface {
	// FolderExists reports whether path currently resolves to a folder.
	// Notes and attachments do not count: only folders can hold focus,
	// and a path that now resolves to a file is as stale as a missing
	// one.
	FolderExists(path string) bool
	// Paths returns the path of every node in the tree, root included.
	Paths() []string
	// FolderChildren returns the paths of the direct subfolders of path.
	FolderChildren(path string) []string
}

// Renderer is a mark sink: any view that can hide nodes and suppress
// titles. Renderers own their mark storage; the engine never reads it
// back, it only pushes.
type Renderer interface {
	// SetNodeHidden marks path (and implicitly its subtree, since
	// hidden containers don't render children) in or out of view.
	// hidden=false removes the mark.
	SetNodeHidden(path string, hidden bool)
	// SetTitleHidden suppresses or restores the title of path while
	// the node itself stays rendered as a container.
	SetTitleHidden(path string, hidden bool)
	// ClearMarks removes every mark at once.
	ClearMarks()
}

// ExpandController is an optional Renderer capability: views that track
// expand/collapse state per node accept expansion directives through
// it. Renderers without it skip directives silently.
type ExpandController interface {
	SetExpanded(path string, expanded bool)
}

// Engine derives per-node view marks from a focus path and pushes them
// to every attached renderer. It keeps no mark state of its own:
// Recompute rebuilds everything from (tree, focus), which is what makes
// repeated recomputes idempotent and multiple renderers consistent.
// With no renderer attached every method is a no-op.
type Engine struct {
	source    TreeSource
	renderers []Renderer
}

// NewEngine returns an engine reading from source.
func NewEngine(source TreeSource) *Engine {
	return &Engine{source: source}
}

// Attach registers a renderer. Attaching the same renderer twice is a
// no-op.
func (e *Engine) Attach(r Renderer) {
	for _, have := range e.renderers {
		if have == r {
			return
		}
	}
	e.renderers = append(e.renderers, r)
}

// Detach removes a renderer. The renderer keeps whatever marks it has;
// a detached view is the host's to dispose of.
func (e *Engine) Detach(r Renderer) {
	for i, have := range e.renderers {
		if have == r {
			e.renderers = append(e.renderers[:i], e.renderers[i+1:]...)
			return
		}
	}
}

// RendererCount returns the number of attached renderers.
func (e *Engine) RendererCount() int {
	return len(e.renderers)
}

// Recompute classifies every node against focusPath and pushes the
// resulting marks to all renderers. Marks are total: every node gets
// both marks set on every pass, so stale marks cannot survive a
// recompute.
func (e *Engine) Recompute(focusPath string) {
	if len(e.renderers) == 0 {
		return
	}
	start := time.Now()
	n := 0
	for _, path := range e.source.Paths() {
		rel := Classify(path, focusPath)
		hidden := rel == RelationUnrelated
		titleHidden := rel == RelationAncestor
		for _, r := range e.renderers {
			r.SetNodeHidden(path, hidden)
			r.SetTitleHidden(path, titleHidden)
		}
		n++
	}
	debug.LogTiming("overlay.recompute", time.Since(start))
	debug.Log("overlay: recomputed %d nodes for focus %s across %d renderers", n, focusPath, len(e.renderers))
}

// Clear removes every mark from every renderer. Resetting focus uses
// this full-clear path rather than unmarking incrementally.
func (e *Engine) Clear() {
	for _, r := range e.renderers {
		r.ClearMarks()
	}
}

// FocusChanged applies the expansion directive for a newly focused
// folder and recomputes marks. The directive opens exactly one tidy
// level: the focused folder expands, each of its direct subfolders
// collapses, and the user opens branches deliberately from there.
func (e *Engine) FocusChanged(focusPath string) {
	for _, r := range e.renderers {
		ec, ok := r.(ExpandController)
		if !ok {
			continue
		}
		ec.SetExpanded(focusPath, true)
		for _, child := range e.source.FolderChildren(focusPath) {
			ec.SetExpanded(child, false)
		}
	}
	e.Recompute(focusPath)
}

// MarkMap is a ready-made Renderer whose marks live in plain maps. The
// tree view embeds one; headless consumers (robot reports, tests)
// attach one directly. A false mark deletes the entry, so map contents
// always equal the set of marked paths.
type MarkMap struct {
	Hidden      map[string]bool
	TitleOff    map[string]bool
	ExpandState map[string]bool
}

// NewMarkMap returns an empty MarkMap.
func NewMarkMap() *MarkMap {
	return &MarkMap{
		Hidden:      make(map[string]bool),
		TitleOff:    make(map[string]bool),
		ExpandState: make(map[string]bool),
	}
}

func (m *MarkMap) SetNodeHidden(path string, hidden bool) {
	if hidden {
		m.Hidden[path] = true
	} else {
		delete(m.Hidden, path)
	}
}

func (m *MarkMap) SetTitleHidden(path string, hidden bool) {
	if hidden {
		m.TitleOff[path] = true
	} else {
		delete(m.TitleOff, path)
	}
}

func (m *MarkMap) ClearMarks() {
	clear(m.Hidden)
	clear(m.TitleOff)
}

// SetExpanded records an expansion directive. Unlike marks these are
// overrides consumed by the view, not cleared by ClearMarks.
func (m *MarkMap) SetExpanded(path string, expanded bool) {
	m.ExpandState[path] = expanded
}
