package opencv

import (
	"fmt"
	"image"

	"facetag/faces"

	"gocv.io/x/gocv"
)

const (
	labelScale     = 0.7
	labelThickness = 2
)

// Annotator draws with OpenCV, using the Hershey font for labels.
//
// OpenCV works on BGR matrices while the rest of the code uses RGBA images, so the
// image is converted explicitly on the way in (RGBA -> BGR) and on the way out
// (BGR -> RGBA). gocv takes color.RGBA values and orders the channels itself.
type Annotator struct{}

func (Annotator) Annotate(img image.Image, detections []faces.Detection) (*image.RGBA, error) {
	src := faces.ToRGBA(img)
	size := src.Bounds().Size()
	rgba, err := gocv.NewMatFromBytes(size.Y, size.X, gocv.MatTypeCV8UC4, src.Pix)
	if err != nil {
		return nil, fmt.Errorf("creating matrix: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	defer bgr.Close()
	if err = gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR); err != nil {
		return nil, fmt.Errorf("converting to BGR: %w", err)
	}

	for _, d := range detections {
		if err = gocv.Rectangle(&bgr, d.Location.Rect(), faces.BoxColor, faces.BoxWidth); err != nil {
			return nil, fmt.Errorf("drawing rectangle: %w", err)
		}
		pt := image.Pt(d.Location.Left, d.Location.Top-faces.LabelOffset)
		if err = gocv.PutText(&bgr, d.Label, pt, gocv.FontHersheySimplex, labelScale, faces.LabelColor, labelThickness); err != nil {
			return nil, fmt.Errorf("drawing label: %w", err)
		}
	}

	out := gocv.NewMat()
	defer out.Close()
	if err = gocv.CvtColor(bgr, &out, gocv.ColorBGRToRGBA); err != nil {
		return nil, fmt.Errorf("converting to RGBA: %w", err)
	}
	dst := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	copy(dst.Pix, out.ToBytes())
	return dst, nil
}
