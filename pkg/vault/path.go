package vault

import "strings"

// Vault paths are slash-delimited and vault-relative: "/" is the vault
// root, "/Projects/2024" is two levels down. No trailing slash, no OS
// separators. Every path entering the focus machinery goes through
// Normalize first; the relation tests in pkg/focus assume it.
const RootPath = "/"

// Normalize maps any user- or OS-supplied path onto the canonical
// form. The empty string normalizes to the root.
func Normalize(p string) string {
	if p == "" || p == RootPath {
		return RootPath
	}
	p = strings.ReplaceAll(p, "\\", "/")
	for strings.Contains(p, "//") {
		p = strings.ReplaceAll(p, "//", "/")
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return RootPath
	}
	return p
}

// Parent returns the path one level above p. The root is its own
// parent, so climbing out of the vault is impossible by construction.
func Parent(p string) string {
	p = Normalize(p)
	if p == RootPath {
		return RootPath
	}
	i := strings.LastIndexByte(p, '/')
	if i <= 0 {
		return RootPath
	}
	return p[:i]
}

// Join appends a child name to base.
func Join(base, name string) string {
	base = Normalize(base)
	if base == RootPath {
		return RootPath + name
	}
	return base + "/" + name
}

// Base returns the final path element, or "" for the root.
func Base(p string) string {
	p = Normalize(p)
	if p == RootPath {
		return ""
	}
	return p[strings.LastIndexByte(p, '/')+1:]
}

// Depth counts segments below the root: 0 for "/", 1 for "/Projects",
// 2 for "/Projects/2024".
func Depth(p string) int {
	p = Normalize(p)
	if p == RootPath {
		return 0
	}
	return strings.Count(p, "/")
}

// IsRoot reports whether p normalizes to the vault root.
func IsRoot(p string) bool {
	return Normalize(p) == RootPath
}
