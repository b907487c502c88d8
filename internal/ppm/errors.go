package ppm

import (
	"errors"
	"fmt"
)

var ErrInvalidHeaderFormat = errors.New("invalid P3 header format")

// InvalidHeaderFormatError reports a malformed magic, dimensions or max color
// line. Line is 1-based.
type InvalidHeaderFormatError struct {
	Line int
	Err  error
}

func (e *InvalidHeaderFormatError) Error() string {
	return ErrInvalidHeaderFormat.Error()
}

func (e *InvalidHeaderFormatError) Unwrap() error {
	return e.Err
}

func (e *InvalidHeaderFormatError) Is(target error) bool {
	return target == ErrInvalidHeaderFormat
}

// PartialPixelError reports a trailing group of fewer than three channel
// tokens. Row and Col are derived from the group index and the declared width.
type PartialPixelError struct {
	Row int
	Col int
}

func (e *PartialPixelError) Error() string {
	return fmt.Sprintf("partial pixel at <row=%d, col=%d>", e.Row, e.Col)
}

// MalformedPixelError reports a channel token that is not an integer.
type MalformedPixelError struct {
	Row   int
	Col   int
	Token string
	Err   error
}

func (e *MalformedPixelError) Error() string {
	return fmt.Sprintf("invalid pixel at <row=%d, col=%d>", e.Row, e.Col)
}

func (e *MalformedPixelError) Unwrap() error {
	return e.Err
}
