package ops

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned when a deletion target is not strictly inside
// the scan root.
var ErrOutsideRoot = errors.New("outside scan root")

// Delete removes a file or directory at the given path.
// For directories, it removes the entire subtree.
// rootPath constrains deletion to descendants of the scan root.
func Delete(path string, rootPath string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve path %s: %w", path, err)
	}
	absRoot, err := filepath.Abs(rootPath)
	if err != nil {
		return fmt.Errorf("cannot resolve root %s: %w", rootPath, err)
	}

	// Ensure the target is strictly inside the root (not the root itself).
	if !isStrictlyWithin(absRoot, absPath) {
		return fmt.Errorf("refusing to delete %s: %w %s", absPath, ErrOutsideRoot, absRoot)
	}

	// The final component is removed without following it, but every parent
	// is resolved so a symlinked directory inside the root cannot be used to
	// reach files elsewhere.
	realRoot, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return fmt.Errorf("cannot resolve root %s: %w", absRoot, err)
	}
	parent, base := filepath.Split(absPath)
	realParent, err := filepath.EvalSymlinks(parent)
	if err != nil {
		return fmt.Errorf("cannot access %s: %w", absPath, err)
	}
	if realParent != realRoot && !isStrictlyWithin(realRoot, realParent) {
		return fmt.Errorf("refusing to delete %s: parent resolves to %s, %w %s",
			absPath, realParent, ErrOutsideRoot, realRoot)
	}

	if err := deleteResolvedPath(realParent, base); err != nil {
		return fmt.Errorf("cannot delete %s: %w", absPath, err)
	}
	return nil
}

func isStrictlyWithin(root, target string) bool {
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == "." {
		return false
	}
	// A file named "..foo" is a valid child; only a ".." path segment escapes.
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
