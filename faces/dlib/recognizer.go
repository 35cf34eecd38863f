package dlib

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"sync"

	"facetag/faces"

	"github.com/Kagami/go-face"
)

// Recognizer is a faces.Encoder backed by dlib. The models directory must contain
// shape_predictor_5_face_landmarks.dat, dlib_face_recognition_resnet_model_v1.dat
// and, for CNN detection, mmod_human_face_detector.dat.
type Recognizer struct {
	rec    *face.Recognizer
	useCNN bool
	mutex  sync.Mutex // dlib recognizer is not safe for concurrent use
}

func New(modelsDir string, useCNN bool) (*Recognizer, error) {
	rec, err := face.NewRecognizer(modelsDir)
	if err != nil {
		return nil, fmt.Errorf("loading dlib models from %s: %w", modelsDir, err)
	}
	return &Recognizer{rec: rec, useCNN: useCNN}, nil
}

// EncodeAll returns every face found in img in dlib's detection order.
// dlib only reads JPEG so the image is handed over as a maximum quality JPEG.
func (r *Recognizer) EncodeAll(img image.Image) (result []faces.Face, err error) {
	buf := bytes.Buffer{}
	if err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: 100}); err != nil {
		return nil, err
	}
	r.mutex.Lock()
	var found []face.Face
	if r.useCNN {
		found, err = r.rec.RecognizeCNN(buf.Bytes())
	} else {
		found, err = r.rec.Recognize(buf.Bytes())
	}
	r.mutex.Unlock()
	if err != nil {
		return nil, err
	}
	result = make([]faces.Face, 0, len(found))
	for _, cur := range found {
		result = append(result, faces.Face{
			Location:   faces.LocationFromRect(cur.Rectangle),
			Descriptor: faces.Descriptor(cur.Descriptor),
		})
	}
	return result, nil
}

func (r *Recognizer) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.rec.Close()
}
