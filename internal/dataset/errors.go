package dataset

import "fmt"

// ReadError indicates the source file could not be read or parsed.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to load dataset %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
