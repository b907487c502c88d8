package ppm

import (
	"bufio"
	"fmt"
	"io"
)

// WriteHeader writes the magic, dimensions and max color blocks, each
// followed by a blank line.
func WriteHeader(w io.Writer, h Header) error {
	_, err := fmt.Fprintf(w, "%s\n\n%d %d\n\n%d\n\n", MagicNumber, h.Width, h.Height, h.MaxColor)
	return err
}

// WriteRow writes one pixel as a row with a trailing space.
func WriteRow(w io.Writer, p Pixel) error {
	_, err := fmt.Fprintf(w, "%d %d %d \n", p.Red, p.Green, p.Blue)
	return err
}

func Encode(w io.Writer, img *Image) error {
	bw := bufio.NewWriter(w)
	if err := WriteHeader(bw, img.Header); err != nil {
		return err
	}
	for _, p := range img.Pixels {
		if err := WriteRow(bw, p); err != nil {
			return err
		}
	}
	return bw.Flush()
}
