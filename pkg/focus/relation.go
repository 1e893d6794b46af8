// Package focus implements burrow's drill-down machinery: the relation
// classifier, the focus state store, the overlay engine that turns a
// focus path into per-node view marks, and the double-click arbiter.
//
// The whole package runs on the host event loop. Nothing here locks,
// spawns goroutines, or blocks; persistence is a best-effort local
// file write and every failure degrades to the root focus (the whole
// vault visible) rather than surfacing an error to the loop.
package focus

import (
	"strings"

	"github.com/vanderheijden86/burrow/pkg/vault"
)

// Relation places one tree node relative to the focused folder. The
// overlay engine derives every node's visibility from this value
// alone, so the five cases must stay disjoint and total.
type Relation int

const (
	// RelationRootFocus means no folder is focused: every node is in
	// view and no marks apply.
	RelationRootFocus Relation = iota
	// RelationSelf is the focused folder itself.
	RelationSelf
	// RelationDescendant lies strictly below the focused folder.
	RelationDescendant
	// RelationAncestor lies on the path from the root to the focused
	// folder. Ancestors stay visible as containers with their titles
	// suppressed, which is what pins the focused folder to the top of
	// the view.
	RelationAncestor
	// RelationUnrelated is everything else; unrelated nodes are hidden.
	RelationUnrelated
)

func (r Relation) String() string {
	switch r {
	case RelationRootFocus:
		return "root-focus"
	case RelationSelf:
		return "self"
	case RelationDescendant:
		return "descendant"
	case RelationAncestor:
		return "ancestor"
	case RelationUnrelated:
		return "unrelated"
	default:
		return "unknown"
	}
}

// Classify places candidate relative to focusPath. Both arguments are
// normalized vault paths. The prefix tests append the separator before
// comparing so sibling folders sharing a name prefix ("/Work" vs
// "/Workbench") never read as related. (bur-4fk)
//
// The result depends only on the two arguments; callers may cache or
// recompute freely.
func Classify(candidate, focusPath string) Relation {
	if focusPath == "" || focusPath == vault.RootPath {
		return RelationRootFocus
	}
	if candidate == focusPath {
		return RelationSelf
	}
	if strings.HasPrefix(candidate, withSep(focusPath)) {
		return RelationDescendant
	}
	if strings.HasPrefix(focusPath, withSep(candidate)) {
		return RelationAncestor
	}
	return RelationUnrelated
}

// withSep returns p with a trailing separator for prefix testing. The
// root already is a separator.
func withSep(p string) string {
	if p == vault.RootPath {
		return p
	}
	return p + "/"
}
