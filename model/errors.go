package model

import (
	"errors"
	"fmt"

	"github.com/tabnotation/notation"
)

var (
	// ErrTrackNotFound is reported when a section refers to a track id that
	// the tab does not have. The section is left out of the tab.
	ErrTrackNotFound = errors.New("track not found")
	// ErrSectionNotFound is reported when the form refers to a section id
	// that the tab does not have. The form item is skipped.
	ErrSectionNotFound = errors.New("section not found")
	// ErrDuplicateID is reported for the second and later tracks or sections
	// sharing an id. Only the first one is kept.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrInvalidForm is reported for form items that cannot be parsed.
	ErrInvalidForm = errors.New("invalid form item")
	// ErrInvalidSlice is reported for explicit bar layer slices that do not
	// fit in their track. The slice is clamped.
	ErrInvalidSlice = errors.New("invalid slice")
	// ErrInvalidRange is reported when the requested bar range does not fit
	// in the tab. All bars are kept.
	ErrInvalidRange = errors.New("invalid bar range")
	// ErrInvalidSignature is fatal: without a valid time signature the bars
	// have no length.
	ErrInvalidSignature = notation.ErrInvalidSignature
)

// Diagnostic describes a problem found while assembling a tab that did not
// prevent the assembly. The offending item was dropped, skipped or clamped.
type Diagnostic struct {
	Item string // "track", "section", "form" or "range"
	ID   string
	Err  error
}

func (d Diagnostic) Error() string {
	if d.ID == "" {
		return fmt.Sprintf("%s: %v", d.Item, d.Err)
	}
	return fmt.Sprintf("%s %q: %v", d.Item, d.ID, d.Err)
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}
