//go:build !windows

package scanner

import (
	"os"
	"syscall"
)

// dirKey uniquely identifies a directory across filesystems using both device
// and inode number. Using inode alone can cause false matches on multi-volume scans.
type dirKey struct {
	dev uint64
	ino uint64
}

// identify returns the identity of the directory described by info.
// ok is false when the platform stat is unavailable; callers then fall back
// to the canonical path.
func identify(info os.FileInfo) (dirKey, bool) {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return dirKey{}, false
	}
	return dirKey{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}, true
}
