// Package media decodes uploaded images and video frames into image.Image
// values the inference pipeline can consume.
package media

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var ErrUnreadableImage = errors.New("cannot read image")

// DecodeImage decodes a JPEG, PNG, GIF or WebP file.
func DecodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableImage, path, err)
	}
	return img, nil
}

// Resize scales the whole image to w x h with bilinear interpolation.
func Resize(img image.Image, w, h int) *image.RGBA {
	return ResizeRect(img, img.Bounds(), w, h)
}

// ResizeRect scales the src sub-rectangle of img to w x h. Alpha is dropped,
// so the stored colour channels of translucent pixels pass through unchanged.
func ResizeRect(img image.Image, src image.Rectangle, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), dropAlpha(img), src, draw.Src, nil)
	return dst
}

// LetterboxPad is the grey used to fill letterbox borders.
var LetterboxPad = color.RGBA{R: 114, G: 114, B: 114, A: 255}

// Letterbox maps a letterboxed square back to source pixels.
type Letterbox struct {
	Scale float64
	PadX  float64
	PadY  float64
}

// ToSource converts a point in the letterboxed square to source pixels.
func (l Letterbox) ToSource(x, y float64) (float64, float64) {
	return (x - l.PadX) / l.Scale, (y - l.PadY) / l.Scale
}

// LetterboxResize scales img to fit a size x size square keeping its aspect
// ratio and centres it on a grey background.
func LetterboxResize(img image.Image, size int) (*image.RGBA, Letterbox) {
	b := img.Bounds()
	scale := min(float64(size)/float64(b.Dx()), float64(size)/float64(b.Dy()))
	nw := int(math.Round(float64(b.Dx()) * scale))
	nh := int(math.Round(float64(b.Dy()) * scale))
	left := int(math.Round(float64(size-nw)/2 - 0.1))
	top := int(math.Round(float64(size-nh)/2 - 0.1))

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(LetterboxPad), image.Point{}, draw.Src)
	inner := image.Rect(left, top, left+nw, top+nh)
	draw.BiLinear.Scale(dst, inner, dropAlpha(img), b, draw.Src, nil)
	return dst, Letterbox{Scale: scale, PadX: float64(left), PadY: float64(top)}
}

type opaqueImage struct {
	image.Image
}

func (o opaqueImage) ColorModel() color.Model { return color.NRGBAModel }

func (o opaqueImage) At(x, y int) color.Color {
	c := color.NRGBAModel.Convert(o.Image.At(x, y)).(color.NRGBA)
	c.A = 255
	return c
}

func dropAlpha(img image.Image) image.Image {
	if o, ok := img.(interface{ Opaque() bool }); ok && o.Opaque() {
		return img
	}
	return opaqueImage{img}
}
