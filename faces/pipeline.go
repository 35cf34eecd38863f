package faces

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var ErrInvalidImage = errors.New("invalid image")

// Pipeline runs Encoder -> Match -> Annotator over one uploaded image
type Pipeline struct {
	Encoder   Encoder
	Annotator Annotator
	Tolerance float64 // passed to MatchAll as is, 0 only matches identical descriptors
	Quality   int     // JPEG quality of the processed image
}

type Result struct {
	Image      []byte // processed image, JPEG encoded
	Detections []Detection
}

// Labels returns the assigned labels, index aligned with the detections
func (r *Result) Labels() []string {
	labels := make([]string, len(r.Detections))
	for i, d := range r.Detections {
		labels[i] = d.Label
	}
	return labels
}

// Decode decodes any supported image format. Failures wrap ErrInvalidImage.
func Decode(data []byte) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: empty upload", ErrInvalidImage)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return img, format, nil
}

// Describe returns the descriptor of the first face in a reference image, ok=false if there is none
func (p *Pipeline) Describe(ctx context.Context, data []byte) (Descriptor, bool, error) {
	img, _, err := Decode(data)
	if err != nil {
		return Descriptor{}, false, err
	}
	if err = ctx.Err(); err != nil {
		return Descriptor{}, false, err
	}
	return EncodeSingle(p.Encoder, img)
}

// Process detects every face in data, labels each one against known (first match wins)
// and draws the result. No faces is a valid outcome: the image is re-encoded without marks.
func (p *Pipeline) Process(ctx context.Context, data []byte, known []Reference) (*Result, error) {
	img, _, err := Decode(data)
	if err != nil {
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	found, err := p.Encoder.EncodeAll(img)
	if err != nil {
		return nil, fmt.Errorf("encoding faces: %w", err)
	}
	detections := MatchAll(found, known, p.Tolerance)
	annotated, err := p.Annotator.Annotate(img, detections)
	if err != nil {
		return nil, fmt.Errorf("annotating image: %w", err)
	}
	buf := bytes.Buffer{}
	if err = jpeg.Encode(&buf, annotated, &jpeg.Options{Quality: p.quality()}); err != nil {
		return nil, fmt.Errorf("encoding processed image: %w", err)
	}
	return &Result{
		Image:      buf.Bytes(),
		Detections: detections,
	}, nil
}

func (p *Pipeline) quality() int {
	if p.Quality <= 0 || p.Quality > 100 {
		return jpeg.DefaultQuality
	}
	return p.Quality
}
