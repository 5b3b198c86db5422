// SPDX-License-Identifier: MPL-2.0

package textedit

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrEditsOverlap is returned when two edits of the same batch cover
	// intersecting byte ranges.
	ErrEditsOverlap = errors.New("edits are not disjoint")
	// ErrEditOutOfRange is returned when an edit addresses bytes outside the text.
	ErrEditOutOfRange = errors.New("edit out of range")
)

type (
	// Edit replaces the half-open byte range [Start, End) of the original
	// text with NewContent.
	Edit struct {
		Start      int
		End        int
		NewContent string
	}

	// OverlapError reports the first pair of overlapping edits found after
	// sorting. Two insertions at the same offset overlap: their order is undefined.
	// It wraps ErrEditsOverlap for errors.Is() compatibility.
	OverlapError struct {
		First  Edit
		Second Edit
	}

	// RangeError reports an edit whose range is inverted or exceeds the text.
	// It wraps ErrEditOutOfRange for errors.Is() compatibility.
	RangeError struct {
		Edit Edit
		Len  int
	}
)

// Error implements the error interface.
func (e *OverlapError) Error() string {
	return fmt.Sprintf("edits are not disjoint: [%d,%d) overlaps [%d,%d)",
		e.First.Start, e.First.End, e.Second.Start, e.Second.End)
}

// Unwrap returns ErrEditsOverlap.
func (e *OverlapError) Unwrap() error { return ErrEditsOverlap }

// Error implements the error interface.
func (e *RangeError) Error() string {
	return fmt.Sprintf("edit [%d,%d) out of range for text of %d bytes", e.Edit.Start, e.Edit.End, e.Len)
}

// Unwrap returns ErrEditOutOfRange.
func (e *RangeError) Unwrap() error { return ErrEditOutOfRange }

// Delete returns an edit removing [start, end).
func Delete(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Replace returns an edit replacing [start, end) with content.
func Replace(start, end int, content string) Edit {
	return Edit{Start: start, End: end, NewContent: content}
}

// delta is the signed change in length this edit causes.
func (e Edit) delta() int {
	return len(e.NewContent) - (e.End - e.Start)
}

// Apply rewrites text with all edits at once. The edits slice is not modified.
func Apply(text string, edits []Edit) (string, error) {
	if len(edits) == 0 {
		return text, nil
	}

	sorted := slices.Clone(edits)
	slices.SortFunc(sorted, func(a, b Edit) int {
		return cmp.Or(cmp.Compare(a.Start, b.Start), cmp.Compare(a.End, b.End))
	})

	for _, e := range sorted {
		if e.Start < 0 || e.End < e.Start || e.End > len(text) {
			return "", &RangeError{Edit: e, Len: len(text)}
		}
	}
	for i := range len(sorted) - 1 {
		a, b := sorted[i], sorted[i+1]
		if a.End > b.Start || (a.Start == b.Start && a.End == a.Start && b.End == b.Start) {
			return "", &OverlapError{First: a, Second: b}
		}
	}

	buf := []byte(text)
	offset := 0
	for _, e := range sorted {
		start, end := e.Start+offset, e.End+offset
		buf = slices.Replace(buf, start, end, []byte(e.NewContent)...)
		offset += e.delta()
	}

	return string(buf), nil
}
