package image

import (
	"bytes"
	"ppmdiff/internal/ppm"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func createTestPixels(n int, p ppm.Pixel) []ppm.Pixel {
	pixels := make([]ppm.Pixel, n)
	for i := range pixels {
		pixels[i] = p
	}
	return pixels
}

func TestPixelDiff_Calculate(t *testing.T) {
	pd := NewPixelDiff()

	t.Run("NoDifference", func(t *testing.T) {
		header := ppm.Header{Width: 3, Height: 2, MaxColor: 255}
		pixels := []ppm.Pixel{
			{Red: 1, Green: 2, Blue: 3},
			{Red: 4, Green: 5, Blue: 6},
			{Red: 7, Green: 8, Blue: 9},
			{Red: 0, Green: 0, Blue: 0},
			{Red: 255, Green: 255, Blue: 255},
			{Red: 9, Green: 9, Blue: 9},
		}

		result := pd.Calculate(header, pixels, pixels)

		if result.DifferenceFound {
			t.Errorf("Expected DifferenceFound to be false")
		}
		if len(result.Diagnostics) != 0 {
			t.Errorf("Expected no diagnostics, got %d", len(result.Diagnostics))
		}
		if result.DiffAmount != 0.0 {
			t.Errorf("Expected DiffAmount to be 0.0, got %f", result.DiffAmount)
		}

		want := "P3\n\n3 2\n\n255\n\n" + strings.Repeat("255 255 255 \n", 6)
		if string(result.Digital) != want {
			t.Errorf("Expected digital output %q, got %q", want, string(result.Digital))
		}
		if string(result.Analog) != want {
			t.Errorf("Expected analog output %q, got %q", want, string(result.Analog))
		}
	})

	t.Run("RedAgainstGreen", func(t *testing.T) {
		header := ppm.Header{Width: 2, Height: 1, MaxColor: 255}
		baseline := []ppm.Pixel{{Red: 255, Green: 0, Blue: 0}, {Red: 0, Green: 255, Blue: 0}}
		target := []ppm.Pixel{{Red: 255, Green: 0, Blue: 0}, {Red: 255, Green: 0, Blue: 0}}

		result := pd.Calculate(header, baseline, target)

		if !result.DifferenceFound {
			t.Errorf("Expected DifferenceFound to be true")
		}

		wantDigital := "P3\n\n2 1\n\n255\n\n255 255 255 \n0 0 0 \n"
		if string(result.Digital) != wantDigital {
			t.Errorf("Expected digital output %q, got %q", wantDigital, string(result.Digital))
		}
		wantAnalog := "P3\n\n2 1\n\n255\n\n255 255 255 \n0 0 255 \n"
		if string(result.Analog) != wantAnalog {
			t.Errorf("Expected analog output %q, got %q", wantAnalog, string(result.Analog))
		}

		if len(result.Diagnostics) != 1 {
			t.Fatalf("Expected 1 diagnostic, got %d", len(result.Diagnostics))
		}
		wantLine := "pixels at <row=0, col=1> differ.  (0, 255, 0) <--> (255, 0, 0)"
		if got := result.Diagnostics[0].String(); got != wantLine {
			t.Errorf("Expected diagnostic %q, got %q", wantLine, got)
		}
		if result.DiffAmount != 0.5 {
			t.Errorf("Expected DiffAmount to be 0.5, got %f", result.DiffAmount)
		}

		wantAnalogImage := &ppm.Image{
			Header: header,
			Pixels: []ppm.Pixel{{Red: 255, Green: 255, Blue: 255}, {Red: 0, Green: 0, Blue: 255}},
		}
		if diff := cmp.Diff(wantAnalogImage, result.AnalogImage); diff != "" {
			t.Errorf("(-want +got):\n%s", diff)
		}
	})

	t.Run("ImagesMatchTexts", func(t *testing.T) {
		header := ppm.Header{Width: 2, Height: 2, MaxColor: 100}
		baseline := createTestPixels(4, ppm.Pixel{Red: 50, Green: 50, Blue: 50})
		target := []ppm.Pixel{
			{Red: 51, Green: 50, Blue: 50},
			{Red: 0, Green: 100, Blue: 0},
			{Red: 50, Green: 50, Blue: 50},
			{Red: 50, Green: 50, Blue: 49},
		}

		result := pd.Calculate(header, baseline, target)

		for _, tc := range []struct {
			name  string
			image *ppm.Image
			text  []byte
		}{
			{name: "digital", image: result.DigitalImage, text: result.Digital},
			{name: "analog", image: result.AnalogImage, text: result.Analog},
		} {
			var buffer bytes.Buffer
			if err := ppm.Encode(&buffer, tc.image); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(string(tc.text), buffer.String()); diff != "" {
				t.Errorf("%s (-want +got):\n%s", tc.name, diff)
			}
		}
	})

	t.Run("DigitalIgnoresMagnitude", func(t *testing.T) {
		header := ppm.Header{Width: 2, Height: 2, MaxColor: 100}
		baseline := createTestPixels(4, ppm.Pixel{Red: 50, Green: 50, Blue: 50})
		target := []ppm.Pixel{
			{Red: 51, Green: 50, Blue: 50},
			{Red: 0, Green: 100, Blue: 0},
			{Red: 50, Green: 50, Blue: 50},
			{Red: 50, Green: 50, Blue: 49},
		}

		result := pd.Calculate(header, baseline, target)

		wantDigital := "P3\n\n2 2\n\n100\n\n0 0 0 \n0 0 0 \n100 100 100 \n0 0 0 \n"
		if string(result.Digital) != wantDigital {
			t.Errorf("Expected digital output %q, got %q", wantDigital, string(result.Digital))
		}
		wantAnalog := "P3\n\n2 2\n\n100\n\n99 100 100 \n50 50 50 \n100 100 100 \n100 100 99 \n"
		if string(result.Analog) != wantAnalog {
			t.Errorf("Expected analog output %q, got %q", wantAnalog, string(result.Analog))
		}

		wantPositions := [][2]int{{0, 0}, {0, 1}, {1, 1}}
		if len(result.Diagnostics) != len(wantPositions) {
			t.Fatalf("Expected %d diagnostics, got %d", len(wantPositions), len(result.Diagnostics))
		}
		for i, d := range result.Diagnostics {
			if d.Row != wantPositions[i][0] || d.Col != wantPositions[i][1] {
				t.Errorf("Expected diagnostic %d at <row=%d, col=%d>, got <row=%d, col=%d>", i, wantPositions[i][0], wantPositions[i][1], d.Row, d.Col)
			}
		}
		if result.DiffAmount != 0.75 {
			t.Errorf("Expected DiffAmount to be 0.75, got %f", result.DiffAmount)
		}
	})

	t.Run("UnequalLengths", func(t *testing.T) {
		header := ppm.Header{Width: 1, Height: 3, MaxColor: 1}
		baseline := createTestPixels(3, ppm.Pixel{Red: 1, Green: 1, Blue: 1})
		target := createTestPixels(1, ppm.Pixel{Red: 1, Green: 1, Blue: 1})

		result := pd.Calculate(header, baseline, target)

		want := "P3\n\n1 3\n\n1\n\n1 1 1 \n"
		if string(result.Digital) != want {
			t.Errorf("Expected digital output %q, got %q", want, string(result.Digital))
		}
		if result.DifferenceFound {
			t.Errorf("Expected DifferenceFound to be false")
		}
	})

	t.Run("Empty", func(t *testing.T) {
		header := ppm.Header{Width: 4, Height: 4, MaxColor: 255}

		result := pd.Calculate(header, nil, nil)

		if string(result.Digital) != "P3\n\n4 4\n\n255\n\n" {
			t.Errorf("Expected header only, got %q", string(result.Digital))
		}
		if result.DiffAmount != 0.0 {
			t.Errorf("Expected DiffAmount to be 0.0, got %f", result.DiffAmount)
		}
	})
}

func TestDifference(t *testing.T) {
	pairs := [][2]ppm.Pixel{
		{{Red: 0, Green: 0, Blue: 0}, {Red: 255, Green: 255, Blue: 255}},
		{{Red: 10, Green: 200, Blue: 30}, {Red: 200, Green: 10, Blue: 30}},
		{{Red: -5, Green: 999, Blue: 7}, {Red: 5, Green: 0, Blue: 7}},
	}

	for _, pair := range pairs {
		forward := Difference(pair[0], pair[1])
		backward := Difference(pair[1], pair[0])
		if forward != backward {
			t.Errorf("Expected Difference to be symmetric for %s and %s, got %s and %s", pair[0], pair[1], forward, backward)
		}
		if forward.Red < 0 || forward.Green < 0 || forward.Blue < 0 {
			t.Errorf("Expected non-negative difference, got %s", forward)
		}
	}

	got := Difference(ppm.Pixel{Red: 10, Green: 200, Blue: 30}, ppm.Pixel{Red: 200, Green: 10, Blue: 30})
	if got != (ppm.Pixel{Red: 190, Green: 190, Blue: 0}) {
		t.Errorf("Expected (190, 190, 0), got %s", got)
	}
}

func BenchmarkPixelDiff_Calculate(b *testing.B) {
	pd := NewPixelDiff()
	header := ppm.Header{Width: 640, Height: 480, MaxColor: 255}
	baseline := createTestPixels(640*480, ppm.Pixel{Red: 255, Green: 255, Blue: 255})
	target := createTestPixels(640*480, ppm.Pixel{Red: 0, Green: 0, Blue: 0})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pd.Calculate(header, baseline, target)
	}
}
