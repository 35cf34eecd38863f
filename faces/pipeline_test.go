package faces

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

// stubEncoder returns the same faces for every image
type stubEncoder struct {
	faces []Face
	err   error
	calls int
}

func (s *stubEncoder) EncodeAll(img image.Image) ([]Face, error) {
	s.calls++
	return s.faces, s.err
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	buf := bytes.Buffer{}
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{"empty", nil, true},
		{"garbage", []byte("definitely not an image"), true},
		{"truncated png", pngBytes(t, filledImage(8, 8, color.White))[:20], true},
		{"png", pngBytes(t, filledImage(8, 8, color.White)), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidImage) {
				t.Errorf("Decode() error = %v, want ErrInvalidImage", err)
			}
		})
	}
}

func TestPipeline_Process(t *testing.T) {
	alice := descriptorAt(0)
	enc := &stubEncoder{faces: []Face{
		{Location: Location{Top: 10, Right: 30, Bottom: 30, Left: 10}, Descriptor: descriptorAt(5)},
		{Location: Location{Top: 40, Right: 60, Bottom: 60, Left: 40}, Descriptor: alice},
		{Location: Location{Top: 10, Right: 60, Bottom: 30, Left: 40}, Descriptor: descriptorAt(0.2)},
	}}
	p := &Pipeline{Encoder: enc, Annotator: NativeAnnotator{}, Tolerance: 0.5, Quality: 90}
	known := []Reference{{"Alice", alice}, {"Alice2", alice}}

	result, err := p.Process(context.Background(), pngBytes(t, filledImage(64, 64, color.White)), known)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	wantLabels := []string{UnknownLabel, "Alice", "Alice"}
	labels := result.Labels()
	if len(labels) != len(enc.faces) {
		t.Fatalf("Process() returned %d labels for %d faces", len(labels), len(enc.faces))
	}
	for i := range labels {
		if labels[i] != wantLabels[i] {
			t.Errorf("label[%d] = %q, want %q", i, labels[i], wantLabels[i])
		}
		if result.Detections[i].Location != enc.faces[i].Location {
			t.Errorf("location[%d] = %+v, want %+v", i, result.Detections[i].Location, enc.faces[i].Location)
		}
	}
	if _, err = jpeg.Decode(bytes.NewReader(result.Image)); err != nil {
		t.Errorf("processed image is not a JPEG: %v", err)
	}
}

func TestPipeline_ProcessZeroTolerance(t *testing.T) {
	alice := descriptorAt(0)
	enc := &stubEncoder{faces: []Face{
		{Location: Location{Top: 10, Right: 30, Bottom: 30, Left: 10}, Descriptor: descriptorAt(0.2)},
		{Location: Location{Top: 40, Right: 60, Bottom: 60, Left: 40}, Descriptor: alice},
	}}
	p := &Pipeline{Encoder: enc, Annotator: NativeAnnotator{}}
	result, err := p.Process(context.Background(), pngBytes(t, filledImage(64, 64, color.White)), []Reference{{"Alice", alice}})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	labels := result.Labels()
	if len(labels) != 2 || labels[0] != UnknownLabel || labels[1] != "Alice" {
		t.Errorf("Labels() = %v, want [Unknown Alice]", labels)
	}
}

func TestPipeline_ProcessNoFaces(t *testing.T) {
	p := &Pipeline{Encoder: &stubEncoder{}, Annotator: NativeAnnotator{}}
	src := filledImage(32, 24, color.RGBA{R: 10, G: 120, B: 200, A: 255})
	result, err := p.Process(context.Background(), pngBytes(t, src), []Reference{{"Alice", descriptorAt(0)}})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if labels := result.Labels(); len(labels) != 0 {
		t.Errorf("Labels() = %v, want empty", labels)
	}
	img, err := jpeg.Decode(bytes.NewReader(result.Image))
	if err != nil {
		t.Fatalf("processed image is not a JPEG: %v", err)
	}
	if img.Bounds().Size() != src.Bounds().Size() {
		t.Errorf("processed size = %v, want %v", img.Bounds().Size(), src.Bounds().Size())
	}
}

// Colors must survive decode -> annotate -> JPEG encode -> decode without a channel swap
func TestPipeline_ProcessColorRoundTrip(t *testing.T) {
	loc := Location{Top: 20, Right: 44, Bottom: 44, Left: 20}
	p := &Pipeline{
		Encoder:   &stubEncoder{faces: []Face{{Location: loc}}},
		Annotator: NativeAnnotator{},
		Quality:   100,
	}
	src := filledImage(64, 64, color.RGBA{R: 220, G: 0, B: 0, A: 255})
	result, err := p.Process(context.Background(), pngBytes(t, src), nil)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(result.Image))
	if err != nil {
		t.Fatal(err)
	}
	r, g, b, _ := img.At(4, 60).RGBA()
	if r>>8 < 180 || g>>8 > 60 || b>>8 > 60 {
		t.Errorf("background = (%d,%d,%d), want red", r>>8, g>>8, b>>8)
	}
	r, g, b, _ = img.At(32, loc.Top).RGBA()
	if g>>8 < 200 || r>>8 > 60 || b>>8 > 60 {
		t.Errorf("box edge = (%d,%d,%d), want green", r>>8, g>>8, b>>8)
	}
}

func TestPipeline_ProcessErrors(t *testing.T) {
	encErr := errors.New("detector crashed")
	p := &Pipeline{Encoder: &stubEncoder{err: encErr}, Annotator: NativeAnnotator{}}

	if _, err := p.Process(context.Background(), []byte("nope"), nil); !errors.Is(err, ErrInvalidImage) {
		t.Errorf("Process(garbage) error = %v, want ErrInvalidImage", err)
	}
	valid := pngBytes(t, filledImage(8, 8, color.White))
	if _, err := p.Process(context.Background(), valid, nil); !errors.Is(err, encErr) {
		t.Errorf("Process() error = %v, want encoder error", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Process(ctx, valid, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Process(cancelled) error = %v, want context.Canceled", err)
	}
}

func TestPipeline_Describe(t *testing.T) {
	first, second := descriptorAt(1), descriptorAt(2)
	data := pngBytes(t, filledImage(8, 8, color.White))
	tests := []struct {
		name   string
		faces  []Face
		want   Descriptor
		wantOK bool
	}{
		{"no face", nil, Descriptor{}, false},
		{"single face", []Face{{Descriptor: first}}, first, true},
		{"first face wins", []Face{{Descriptor: first}, {Descriptor: second}}, first, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Encoder: &stubEncoder{faces: tt.faces}}
			got, ok, err := p.Describe(context.Background(), data)
			if err != nil {
				t.Fatalf("Describe() error = %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Describe() = %v, %v; want %v, %v", got[0], ok, tt.want[0], tt.wantOK)
			}
		})
	}
}
