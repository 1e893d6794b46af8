package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/burrow/pkg/debug"
	"github.com/vanderheijden86/burrow/pkg/metrics"
)

// Vault is an in-memory snapshot of a notes directory: the root node
// plus a path index over every node. Snapshots are immutable between
// scans; Rescan builds a fresh tree and swaps it in, so readers on the
// event loop never see a half-built hierarchy.
type Vault struct {
	dir    string
	ignore map[string]bool
	root   *Node
	index  map[string]*Node
}

// defaultIgnore lists directory names skipped during scans. The state
// dir must be here or the watcher/scan would feed on burrow's own
// writes.
var defaultIgnore = []string{".git", ".obsidian", ".burrow", ".trash", "node_modules"}

// Option configures a Vault before the first scan.
type Option func(*Vault)

// WithIgnore adds directory names to skip in addition to the defaults.
func WithIgnore(names ...string) Option {
	return func(v *Vault) {
		for _, n := range names {
			if n != "" {
				v.ignore[n] = true
			}
		}
	}
}

// Open scans dir into a Vault. dir must exist and be a directory.
func Open(dir string, opts ...Option) (*Vault, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving vault path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("opening vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("opening vault: %s is not a directory", abs)
	}

	v := &Vault{dir: abs, ignore: make(map[string]bool)}
	for _, n := range defaultIgnore {
		v.ignore[n] = true
	}
	for _, opt := range opts {
		opt(v)
	}
	if err := v.scan(); err != nil {
		return nil, err
	}
	return v, nil
}

// Dir returns the absolute OS path of the vault root.
func (v *Vault) Dir() string { return v.dir }

// Root returns the root node of the current snapshot.
func (v *Vault) Root() *Node { return v.root }

// Len returns the number of nodes in the snapshot, root included.
func (v *Vault) Len() int { return len(v.index) }

// Resolve returns the node at path, or nil when the path no longer
// exists in the snapshot. Callers treat nil as "stale path".
func (v *Vault) Resolve(path string) *Node {
	return v.index[Normalize(path)]
}

// Exists reports whether path resolves in the current snapshot.
func (v *Vault) Exists(path string) bool {
	return v.Resolve(path) != nil
}

// FolderExists reports whether path resolves to a folder. A path that
// resolves to a note or attachment is treated like a stale one.
func (v *Vault) FolderExists(path string) bool {
	n := v.Resolve(path)
	return n != nil && n.Dir
}

// Paths returns the path of every node in the snapshot, root first,
// parents before children, in render order.
func (v *Vault) Paths() []string {
	out := make([]string, 0, len(v.index))
	v.root.Walk(func(n *Node) {
		out = append(out, n.Path)
	})
	return out
}

// FolderChildren returns the paths of the direct subfolders of path.
func (v *Vault) FolderChildren(path string) []string {
	n := v.Resolve(path)
	if n == nil {
		return nil
	}
	var out []string
	for _, c := range n.Children {
		if c.Dir {
			out = append(out, c.Path)
		}
	}
	return out
}

// Rescan rebuilds the snapshot from disk. On error the previous
// snapshot stays in place.
func (v *Vault) Rescan() error {
	return v.scan()
}

// scan reads the whole vault into a new tree and swaps it in on
// success. Top-level subtrees are scanned in parallel; each goroutine
// builds into its own index slot so no locking is needed.
func (v *Vault) scan() error {
	start := time.Now()

	entries, err := os.ReadDir(v.dir)
	if err != nil {
		return fmt.Errorf("reading vault root: %w", err)
	}

	root := &Node{Path: RootPath, Dir: true}
	var subDirs []*Node
	for _, entry := range entries {
		if v.skip(entry) {
			continue
		}
		child := &Node{
			Path:   Join(RootPath, entry.Name()),
			Name:   entry.Name(),
			Dir:    entry.IsDir(),
			Parent: root,
		}
		if info, err := entry.Info(); err == nil {
			child.Size = info.Size()
			child.ModTime = info.ModTime()
		}
		root.Children = append(root.Children, child)
		if child.Dir {
			subDirs = append(subDirs, child)
		}
	}

	subIndexes := make([]map[string]*Node, len(subDirs))

	g, _ := errgroup.WithContext(context.Background())
	// Limit concurrency to avoid resource exhaustion (file descriptors)
	g.SetLimit(32)
	for i, dir := range subDirs {
		i, dir := i, dir // capture loop variables
		g.Go(func() error {
			local := make(map[string]*Node)
			v.scanDir(filepath.Join(v.dir, dir.Name), dir, local)
			subIndexes[i] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	index := make(map[string]*Node, len(entries)+1)
	index[RootPath] = root
	for _, c := range root.Children {
		index[c.Path] = c
	}
	for _, local := range subIndexes {
		for p, n := range local {
			index[p] = n
		}
	}

	root.SortChildren()
	v.root = root
	v.index = index

	metrics.VaultScan.Record(time.Since(start))
	debug.LogTiming("vault.scan", time.Since(start))
	debug.Log("vault: scanned %d nodes under %s", len(index), v.dir)
	return nil
}

// scanDir fills parent's subtree from osPath. Unreadable directories
// stay in the tree as empty folders rather than failing the scan.
func (v *Vault) scanDir(osPath string, parent *Node, index map[string]*Node) {
	entries, err := os.ReadDir(osPath)
	if err != nil {
		debug.Log("vault: skipping unreadable dir %s: %v", osPath, err)
		return
	}
	for _, entry := range entries {
		if v.skip(entry) {
			continue
		}
		child := &Node{
			Path:   Join(parent.Path, entry.Name()),
			Name:   entry.Name(),
			Dir:    entry.IsDir(),
			Parent: parent,
		}
		if info, err := entry.Info(); err == nil {
			child.Size = info.Size()
			child.ModTime = info.ModTime()
		}
		parent.Children = append(parent.Children, child)
		index[child.Path] = child
		if child.Dir {
			v.scanDir(filepath.Join(osPath, entry.Name()), child, index)
		}
	}
}

func (v *Vault) skip(entry os.DirEntry) bool {
	name := entry.Name()
	if entry.IsDir() && v.ignore[name] {
		return true
	}
	// Hidden files and folders are noise in a notes vault.
	return len(name) > 0 && name[0] == '.'
}
