package sitereport

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSites aborts a report when the site table is empty.
	ErrNoSites = errors.New("no sites found")
	// ErrNoBlogs aborts a report when the blogs table is empty.
	ErrNoBlogs = errors.New("no blogs found")
)

// MissingOptionError reports a required option that has no row in the
// blog's options table.
type MissingOptionError struct {
	BlogID int64
	Option string
}

func (e *MissingOptionError) Error() string {
	return fmt.Sprintf("blog %d: missing required option %q", e.BlogID, e.Option)
}

// DecodeError reports an active_plugins value that could not be decoded.
type DecodeError struct {
	BlogID int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("blog %d: failed to decode %s: %v", e.BlogID, OptionActivePlugins, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
