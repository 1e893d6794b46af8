package vault

import (
	"sort"
	"strings"
	"time"
)

// Node is one entry in the vault tree. Nodes form a doubly linked
// hierarchy; the Vault owns the root and a path index over all of
// them. Nodes are plain data: all mutation happens inside a scan.
type Node struct {
	Path     string
	Name     string
	Dir      bool
	Size     int64
	ModTime  time.Time
	Parent   *Node
	Children []*Node
}

// IsNote reports whether the node is a Markdown note.
func (n *Node) IsNote() bool {
	return !n.Dir && strings.HasSuffix(strings.ToLower(n.Name), ".md")
}

// SortChildren orders children folders-first, then case-insensitively
// by name, recursively. Scans call it once so render order and Paths
// order agree.
func (n *Node) SortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
	for _, c := range n.Children {
		if c.Dir {
			c.SortChildren()
		}
	}
}

// Walk visits n and every node below it depth-first, in child order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// FolderChildren returns only the directory children of n.
func (n *Node) FolderChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Dir {
			out = append(out, c)
		}
	}
	return out
}
