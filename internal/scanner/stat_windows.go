//go:build windows

package scanner

import "os"

// dirKey is unused on Windows; directories are tracked by canonical path.
type dirKey struct {
	dev uint64
	ino uint64
}

// identify on Windows always defers to path-based tracking.
func identify(info os.FileInfo) (dirKey, bool) {
	return dirKey{}, false
}
