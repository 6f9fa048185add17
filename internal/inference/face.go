package inference

import (
	"image"

	"github.com/veritas-labs/veritas/internal/media"
	"github.com/veritas-labs/veritas/internal/model"
)

// Detector finds faces in a decoded frame.
type Detector interface {
	Detect(img image.Image) ([]model.Box, error)
}

// ExtractFace crops the largest detected face and resizes it to size x size.
// When nothing usable is detected the whole frame is resized instead. The
// result is a CHW float32 tensor scaled to [-1, 1].
func ExtractFace(img image.Image, size int, det Detector) []float32 {
	if rect, ok := largestFace(img, det); ok {
		return ToTensor(media.ResizeRect(img, rect, size, size))
	}
	return ToTensor(media.Resize(img, size, size))
}

func largestFace(img image.Image, det Detector) (image.Rectangle, bool) {
	if det == nil {
		return image.Rectangle{}, false
	}
	boxes, err := det.Detect(img)
	if err != nil || len(boxes) == 0 {
		return image.Rectangle{}, false
	}

	best := boxes[0]
	for _, b := range boxes[1:] {
		if b.Area() > best.Area() {
			best = b
		}
	}

	// clamp to image bounds
	bounds := img.Bounds()
	// image.Rect would swap inverted corners, so build the literal
	rect := image.Rectangle{
		Min: image.Pt(max(bounds.Min.X, bounds.Min.X+int(best.X1)), max(bounds.Min.Y, bounds.Min.Y+int(best.Y1))),
		Max: image.Pt(min(bounds.Max.X, bounds.Min.X+int(best.X2)), min(bounds.Max.Y, bounds.Min.Y+int(best.Y2))),
	}
	if rect.Dx() <= 0 || rect.Dy() <= 0 {
		return image.Rectangle{}, false
	}
	return rect, true
}

// ToTensor converts an RGBA image to a CHW float32 slice in [-1, 1].
func ToTensor(img *image.RGBA) []float32 {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	plane := w * h
	out := make([]float32, 3*plane)
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride:]
		for x := 0; x < w; x++ {
			p := row[x*4:]
			i := y*w + x
			out[i] = float32(p[0])/127.5 - 1
			out[plane+i] = float32(p[1])/127.5 - 1
			out[2*plane+i] = float32(p[2])/127.5 - 1
		}
	}
	return out
}
