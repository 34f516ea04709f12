package sheet

import "errors"

var (
	// ErrUnreadable indicates the input cannot be parsed as tabular data at all.
	ErrUnreadable = errors.New("input is not readable as a spreadsheet")
	// ErrNoHeader indicates the input has no row at the requested header position.
	ErrNoHeader = errors.New("spreadsheet has no header row")
)
