package export

import "fmt"

// WriteError indicates the output file could not be produced.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
