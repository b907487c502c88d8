package image

import (
	"bytes"
	"fmt"
	"ppmdiff/internal/ppm"
)

type Diagnostic struct {
	Row      int       `json:"row"`
	Col      int       `json:"col"`
	Baseline ppm.Pixel `json:"baseline"`
	Target   ppm.Pixel `json:"target"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("pixels at <row=%d, col=%d> differ.  %s <--> %s", d.Row, d.Col, d.Baseline, d.Target)
}

type PixelDiff struct{}

func NewPixelDiff() *PixelDiff {
	return &PixelDiff{}
}

// Calculate walks both sequences in lockstep and renders the digital and
// analog diff images. Identical pixels are white in both; a differing pixel
// is black in the digital image and max minus the channel difference in the
// analog image. Iteration stops at the shorter sequence.
func (p *PixelDiff) Calculate(header ppm.Header, baseline []ppm.Pixel, target []ppm.Pixel) *DiffResult {
	var digital bytes.Buffer
	var analog bytes.Buffer

	// bytes.Buffer writes do not fail.
	_ = ppm.WriteHeader(&digital, header)
	_ = ppm.WriteHeader(&analog, header)

	white := ppm.Pixel{Red: header.MaxColor, Green: header.MaxColor, Blue: header.MaxColor}
	black := ppm.Pixel{}

	var diagnostics []Diagnostic
	total := min(len(baseline), len(target))
	digitalPixels := make([]ppm.Pixel, 0, total)
	analogPixels := make([]ppm.Pixel, 0, total)

	for idx := 0; idx < total; idx++ {
		baselinePixel := baseline[idx]
		targetPixel := target[idx]

		if baselinePixel == targetPixel {
			_ = ppm.WriteRow(&digital, white)
			_ = ppm.WriteRow(&analog, white)
			digitalPixels = append(digitalPixels, white)
			analogPixels = append(analogPixels, white)
			continue
		}

		diff := Difference(baselinePixel, targetPixel)
		analogPixel := ppm.Pixel{
			Red:   header.MaxColor - diff.Red,
			Green: header.MaxColor - diff.Green,
			Blue:  header.MaxColor - diff.Blue,
		}
		_ = ppm.WriteRow(&digital, black)
		_ = ppm.WriteRow(&analog, analogPixel)
		digitalPixels = append(digitalPixels, black)
		analogPixels = append(analogPixels, analogPixel)

		diagnostics = append(diagnostics, Diagnostic{
			Row:      idx / header.Width,
			Col:      idx % header.Width,
			Baseline: baselinePixel,
			Target:   targetPixel,
		})
	}

	diffAmount := 0.0
	if total > 0 {
		diffAmount = float64(len(diagnostics)) / float64(total)
	}

	return &DiffResult{
		Digital:         digital.Bytes(),
		Analog:          analog.Bytes(),
		DigitalImage:    &ppm.Image{Header: header, Pixels: digitalPixels},
		AnalogImage:     &ppm.Image{Header: header, Pixels: analogPixels},
		Diagnostics:     diagnostics,
		DifferenceFound: len(diagnostics) > 0,
		DiffAmount:      diffAmount,
	}
}

// Difference returns the per-channel absolute difference.
func Difference(p1 ppm.Pixel, p2 ppm.Pixel) ppm.Pixel {
	return ppm.Pixel{
		Red:   absInt(p1.Red - p2.Red),
		Green: absInt(p1.Green - p2.Green),
		Blue:  absInt(p1.Blue - p2.Blue),
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
