package ppm

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"
)

const channelsPerPixel = 3

// Decode reads a whole P3 image from r. The first error aborts decoding and
// no partial image is returned.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	header, err := decodeHeader(br)
	if err != nil {
		return nil, err
	}

	rest, err := io.ReadAll(br)
	if err != nil {
		return nil, xerrors.Errorf("failed to read pixel data: %w", err)
	}

	pixels, err := decodePixels(strings.Fields(string(rest)), header.Width)
	if err != nil {
		return nil, err
	}

	return &Image{
		Header: header,
		Pixels: pixels,
	}, nil
}

func decodeHeader(br *bufio.Reader) (Header, error) {
	var lines [3]string
	for i := range lines {
		line, err := readLine(br)
		if err != nil {
			return Header{}, xerrors.Errorf("failed to read header: %w", err)
		}
		lines[i] = strings.TrimSpace(line)
	}

	if lines[0] != MagicNumber {
		return Header{}, &InvalidHeaderFormatError{Line: 1}
	}
	if lines[1] == "" {
		return Header{}, &InvalidHeaderFormatError{Line: 2}
	}
	if lines[2] == "" {
		return Header{}, &InvalidHeaderFormatError{Line: 3}
	}

	dimensions := strings.Fields(lines[1])
	if len(dimensions) != 2 {
		return Header{}, &InvalidHeaderFormatError{
			Line: 2,
			Err:  xerrors.Errorf("expected 2 dimensions, got %d", len(dimensions)),
		}
	}
	width, err := strconv.Atoi(dimensions[0])
	if err != nil {
		return Header{}, &InvalidHeaderFormatError{Line: 2, Err: err}
	}
	height, err := strconv.Atoi(dimensions[1])
	if err != nil {
		return Header{}, &InvalidHeaderFormatError{Line: 2, Err: err}
	}
	// Row and column attribution divides by width.
	if width <= 0 || height <= 0 {
		return Header{}, &InvalidHeaderFormatError{
			Line: 2,
			Err:  xerrors.Errorf("dimensions must be positive: %dx%d", width, height),
		}
	}

	maxColor, err := strconv.Atoi(lines[2])
	if err != nil {
		return Header{}, &InvalidHeaderFormatError{Line: 3, Err: err}
	}
	if maxColor < 0 {
		return Header{}, &InvalidHeaderFormatError{
			Line: 3,
			Err:  xerrors.Errorf("max color must not be negative: %d", maxColor),
		}
	}

	return Header{
		Width:    width,
		Height:   height,
		MaxColor: maxColor,
	}, nil
}

// readLine returns the next line including an unterminated final one. An
// exhausted reader yields an empty line, not an error.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return line, nil
}

func decodePixels(tokens []string, width int) ([]Pixel, error) {
	pixels := make([]Pixel, 0, (len(tokens)+channelsPerPixel-1)/channelsPerPixel)

	for start := 0; start < len(tokens); start += channelsPerPixel {
		idx := start / channelsPerPixel
		row, col := idx/width, idx%width

		end := min(start+channelsPerPixel, len(tokens))
		group := tokens[start:end]
		if len(group) < channelsPerPixel {
			return nil, &PartialPixelError{Row: row, Col: col}
		}

		var channels [channelsPerPixel]int
		for i, token := range group {
			v, err := strconv.Atoi(token)
			if err != nil {
				return nil, &MalformedPixelError{Row: row, Col: col, Token: token, Err: err}
			}
			channels[i] = v
		}

		pixels = append(pixels, Pixel{
			Red:   channels[0],
			Green: channels[1],
			Blue:  channels[2],
		})
	}

	return pixels, nil
}
