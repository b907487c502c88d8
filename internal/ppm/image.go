package ppm

import (
	"fmt"
	"image"
	"image/color"
)

// MagicNumber identifies the plain-text pixmap variant.
const MagicNumber = "P3"

type Header struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	MaxColor int `json:"maxColor"`
}

type Pixel struct {
	Red   int `json:"red"`
	Green int `json:"green"`
	Blue  int `json:"blue"`
}

func (p Pixel) String() string {
	return fmt.Sprintf("(%d, %d, %d)", p.Red, p.Green, p.Blue)
}

// Image is a decoded pixmap. len(Pixels) is not guaranteed to equal
// Width*Height; the decoder only rejects partial trailing triples.
type Image struct {
	Header Header
	Pixels []Pixel
}

// RGBA renders the image into an 8-bit image.RGBA, scaling every channel by
// MaxColor. Channels outside [0, MaxColor] are clamped, missing pixels stay
// transparent and surplus pixels are ignored.
func (img *Image) RGBA() *image.RGBA {
	width := img.Header.Width
	height := img.Header.Height
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))

	for idx, p := range img.Pixels {
		if idx >= width*height {
			break
		}
		rgba.SetRGBA(idx%width, idx/width, color.RGBA{
			R: scaleChannel(p.Red, img.Header.MaxColor),
			G: scaleChannel(p.Green, img.Header.MaxColor),
			B: scaleChannel(p.Blue, img.Header.MaxColor),
			A: 255,
		})
	}

	return rgba
}

func scaleChannel(v int, maxColor int) uint8 {
	if maxColor <= 0 || v <= 0 {
		return 0
	}
	if v >= maxColor {
		return 255
	}
	return uint8(v * 255 / maxColor)
}
