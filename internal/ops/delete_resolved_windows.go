//go:build windows

package ops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

func deleteResolvedPath(parentPath, baseName string) error {
	return removeTree(filepath.Join(parentPath, baseName))
}

// removeTree removes p, emptying folders first. Links and junctions are
// removed, not followed. A child that fails does not stop its siblings.
func removeTree(p string) error {
	info, err := os.Lstat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return os.Remove(p)
	}

	children, err := os.ReadDir(p)
	if err != nil {
		return err
	}
	var errs []error
	for _, c := range children {
		child := filepath.Join(p, c.Name())
		if err := removeTree(child); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s: %w", child, err))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return os.Remove(p)
}
