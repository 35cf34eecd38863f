package faces

import "image"

// Encoder finds faces in an image and computes their descriptors.
// The returned order is the detector's and must be the same for locations and descriptors.
// An image without faces yields an empty slice and no error.
type Encoder interface {
	EncodeAll(img image.Image) ([]Face, error)
}

// EncodeSingle returns the descriptor of the first face found in the image.
// Any other face is ignored. ok is false when there is no face at all.
func EncodeSingle(enc Encoder, img image.Image) (descriptor Descriptor, ok bool, err error) {
	found, err := enc.EncodeAll(img)
	if err != nil || len(found) == 0 {
		return
	}
	return found[0].Descriptor, true, nil
}
