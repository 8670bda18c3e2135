package impute

import "fmt"

// InvalidNumericError indicates a replacement for a numeric column did not parse as a number.
type InvalidNumericError struct {
	Column string
	Input  string
	Err    error
}

func (e *InvalidNumericError) Error() string {
	return fmt.Sprintf("invalid input for numeric column '%s': %q", e.Column, e.Input)
}

func (e *InvalidNumericError) Unwrap() error { return e.Err }
