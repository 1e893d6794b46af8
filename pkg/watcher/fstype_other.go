//go:build !linux && !darwin

package watcher

// No statfs classification on this platform; fsnotify is trusted
// unless polling is forced.
func detectFilesystemType(path string) FilesystemType {
	return FSTypeUnknown
}
