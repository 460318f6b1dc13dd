//go:build !windows

package ops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"

	"golang.org/x/sys/unix"
)

// unlinkat is swapped in tests to make single entries fail.
var unlinkat = unix.Unlinkat

// deleteResolvedPath removes baseName inside the already-resolved parentPath.
// Folders are walked by descriptor so a symlink swapped in during the removal
// is unlinked rather than followed.
func deleteResolvedPath(parentPath, baseName string) error {
	parentFD, err := unix.Open(parentPath, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_CLOEXEC, 0)
	if err != nil {
		return err
	}
	defer unix.Close(parentFD)

	return removeAt(parentFD, baseName, baseName)
}

// removeAt unlinks name under dirFD without following symlinks. rel is name's
// path below the deletion target, used in error messages.
func removeAt(dirFD int, name, rel string) error {
	err := unlinkat(dirFD, name, 0)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, unix.ENOENT):
		return fs.ErrNotExist
	case !errors.Is(err, unix.EISDIR) && !errors.Is(err, unix.EPERM):
		return err
	}

	fd, err := unix.Openat(dirFD, name, unix.O_RDONLY|unix.O_DIRECTORY|unix.O_NOFOLLOW|unix.O_CLOEXEC, 0)
	switch {
	case errors.Is(err, unix.ENOTDIR):
		// Replaced by a file since the first unlink.
		return notExist(unlinkat(dirFD, name, 0))
	case err != nil:
		return notExist(err)
	}
	if err := emptyFolder(fd, rel); err != nil {
		return err
	}
	return notExist(unlinkat(dirFD, name, unix.AT_REMOVEDIR))
}

// emptyFolder removes every child of the open folder fd and closes it. A
// child that fails does not stop its siblings; all failures are joined.
func emptyFolder(fd int, rel string) error {
	dir := os.NewFile(uintptr(fd), rel)
	defer dir.Close()

	children, err := dir.ReadDir(-1)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range children {
		childRel := path.Join(rel, c.Name())
		if err := removeAt(fd, c.Name(), childRel); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s: %w", childRel, err))
		}
	}
	return errors.Join(errs...)
}

func notExist(err error) error {
	if errors.Is(err, unix.ENOENT) {
		return fs.ErrNotExist
	}
	return err
}
