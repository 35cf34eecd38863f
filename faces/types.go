package faces

import (
	"image"
	"math"
)

const (
	// DescriptorSize is the length of a dlib face descriptor
	DescriptorSize = 128
	// UnknownLabel is assigned to faces that match no reference
	UnknownLabel = "Unknown"
	// DefaultTolerance is the max descriptor distance for two faces to be considered the same person
	DefaultTolerance = 0.5
)

type (
	// Descriptor is the identity embedding of one detected face
	Descriptor [DescriptorSize]float32

	// Location bounds a face in pixel coordinates, (Right, Bottom) being exclusive
	Location struct {
		Top    int `json:"top"`
		Right  int `json:"right"`
		Bottom int `json:"bottom"`
		Left   int `json:"left"`
	}

	// Face is the output of one detection pass: where the face is and who it looks like
	Face struct {
		Location   Location
		Descriptor Descriptor
	}

	// Detection is a located face with the label assigned by the matcher
	Detection struct {
		Location Location `json:"location"`
		Label    string   `json:"label"`
	}

	// Reference is a registered (label, descriptor) pair used as ground truth
	Reference struct {
		Label      string
		Descriptor Descriptor
	}
)

func LocationFromRect(r image.Rectangle) Location {
	return Location{
		Top:    r.Min.Y,
		Right:  r.Max.X,
		Bottom: r.Max.Y,
		Left:   r.Min.X,
	}
}

func (l Location) Rect() image.Rectangle {
	return image.Rect(l.Left, l.Top, l.Right, l.Bottom)
}

// Distance is the euclidean distance between two descriptors
func (d *Descriptor) Distance(other *Descriptor) float64 {
	var sum float64
	for i := range d {
		diff := float64(d[i]) - float64(other[i])
		sum += diff * diff
	}
	return math.Sqrt(sum)
}
