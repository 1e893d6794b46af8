//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Statfs magic numbers from linux/magic.h for filesystems where
// inotify does not deliver remote changes.
const (
	nfsSuperMagic  = 0x6969
	smbSuperMagic  = 0x517b
	cifsSuperMagic = 0xff534d42
	smb2SuperMagic = 0xfe534d42
	fuseSuperMagic = 0x65735546
)

func detectFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(existingAncestor(path), &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case nfsSuperMagic:
		return FSTypeNFS
	case smbSuperMagic, cifsSuperMagic, smb2SuperMagic:
		return FSTypeSMB
	case fuseSuperMagic:
		// SSHFS mounts report plain FUSE; statfs cannot tell them
		// apart, and polling is the right answer for both.
		return FSTypeFUSE
	}
	return FSTypeLocal
}
