package faces

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

const (
	// BoxWidth is the line width of the rectangle drawn around each face
	BoxWidth = 2
	// LabelOffset is the distance between the label baseline and the top of the box
	LabelOffset = 10
)

var (
	// Colors are plain RGB; any backend working in another channel order converts explicitly.
	BoxColor   = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	LabelColor = color.RGBA{R: 36, G: 255, B: 12, A: 255}
)

// Annotator draws a box and a label for each detection, in the given order,
// onto a copy of the image. The source image is never modified.
type Annotator interface {
	Annotate(img image.Image, detections []Detection) (*image.RGBA, error)
}

// ToRGBA copies any decoded image (YCbCr, Gray, NRGBA, paletted...) into a new RGBA image
// anchored at (0,0). This is the single place where decoder color models are converted;
// everything drawn afterwards is in R,G,B,A byte order.
func ToRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// NativeAnnotator draws with image/draw and a fixed bitmap font
type NativeAnnotator struct{}

func (NativeAnnotator) Annotate(img image.Image, detections []Detection) (*image.RGBA, error) {
	dst := ToRGBA(img)
	box := image.NewUniform(BoxColor)
	text := image.NewUniform(LabelColor)
	for _, d := range detections {
		drawBox(dst, d.Location.Rect(), box)
		drawer := font.Drawer{
			Dst:  dst,
			Src:  text,
			Face: inconsolata.Bold8x16,
			Dot:  fixed.P(d.Location.Left, d.Location.Top-LabelOffset),
		}
		drawer.DrawString(d.Label)
	}
	return dst, nil
}

// drawBox draws the outline of r, BoxWidth pixels thick, inside r. draw.Draw clips to dst.
func drawBox(dst draw.Image, r image.Rectangle, src image.Image) {
	w := BoxWidth
	if r.Dx() < 2*w || r.Dy() < 2*w {
		draw.Draw(dst, r, src, image.Point{}, draw.Src)
		return
	}
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w), // top
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y), // bottom
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y), // left
		image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(dst, e, src, image.Point{}, draw.Src)
	}
}
