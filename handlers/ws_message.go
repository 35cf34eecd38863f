package handlers

type WSMessageType uint8

const (
	WSMessageTypeKnownFace WSMessageType = iota
	WSMessageTypePhoto
)

// WSMessage is pushed to every connected /events client
type WSMessage struct {
	Type      WSMessageType  `json:"type"`
	KnownFace *KnownFaceInfo `json:"known_face,omitempty"`
	Photo     *PhotoInfo     `json:"photo,omitempty"`
}
