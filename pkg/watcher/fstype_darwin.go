//go:build darwin

package watcher

import (
	"strings"

	"golang.org/x/sys/unix"
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(existingAncestor(path), &st); err != nil {
		return FSTypeUnknown
	}
	buf := make([]byte, 0, len(st.Fstypename))
	for _, c := range st.Fstypename {
		if c == 0 {
			break
		}
		buf = append(buf, byte(c))
	}
	switch name := string(buf); {
	case name == "nfs":
		return FSTypeNFS
	case name == "smbfs" || name == "cifs":
		return FSTypeSMB
	case strings.Contains(name, "fuse"):
		return FSTypeFUSE
	}
	return FSTypeLocal
}
