package image

import (
	"fmt"
	"ppmdiff/internal/ppm"
)

type MismatchReason int

const (
	NoMismatch MismatchReason = iota
	WidthMismatch
	HeightMismatch
	MaxColorMismatch
)

func (r MismatchReason) String() string {
	switch r {
	case WidthMismatch:
		return "widths differ"
	case HeightMismatch:
		return "heights differ"
	case MaxColorMismatch:
		return "color max values differ"
	default:
		return "nothing differs"
	}
}

// CompareHeaders reports the first differing field in width, height,
// max color order.
func CompareHeaders(h1 ppm.Header, h2 ppm.Header) MismatchReason {
	switch {
	case h1.Width != h2.Width:
		return WidthMismatch
	case h1.Height != h2.Height:
		return HeightMismatch
	case h1.MaxColor != h2.MaxColor:
		return MaxColorMismatch
	default:
		return NoMismatch
	}
}

type HeaderMismatchError struct {
	Reason MismatchReason
}

func (e *HeaderMismatchError) Error() string {
	return fmt.Sprintf("Headers mismatch: %s", e.Reason)
}
