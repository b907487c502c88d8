package image

import "ppmdiff/internal/ppm"

type DiffResult struct {
	// Digital and Analog hold the rendered P3 texts.
	Digital []byte
	Analog  []byte
	// DigitalImage and AnalogImage carry the same pixels as Digital and
	// Analog, for callers that render them in another format.
	DigitalImage    *ppm.Image
	AnalogImage     *ppm.Image
	Diagnostics     []Diagnostic
	DifferenceFound bool
	DiffAmount      float64
}

type Differ interface {
	Calculate(header ppm.Header, baseline []ppm.Pixel, target []ppm.Pixel) *DiffResult
}

// Compare checks header compatibility before handing both pixel sequences to
// differ. A mismatch is returned as *HeaderMismatchError.
func Compare(differ Differ, baseline *ppm.Image, target *ppm.Image) (*DiffResult, error) {
	if reason := CompareHeaders(baseline.Header, target.Header); reason != NoMismatch {
		return nil, &HeaderMismatchError{Reason: reason}
	}

	return differ.Calculate(baseline.Header, baseline.Pixels, target.Pixels), nil
}
