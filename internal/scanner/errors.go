package scanner

import "fmt"

// EnumerationError means a directory could not be listed; its subtree is
// missing from the result.
type EnumerationError struct {
	Path string
	Err  error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("cannot list %s: %v", e.Path, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// AttributeReadError means metadata for a matched entry could not be read;
// the entry is kept with size 0.
type AttributeReadError struct {
	Path string
	Err  error
}

func (e *AttributeReadError) Error() string {
	return fmt.Sprintf("cannot read attributes of %s: %v", e.Path, e.Err)
}

func (e *AttributeReadError) Unwrap() error { return e.Err }
