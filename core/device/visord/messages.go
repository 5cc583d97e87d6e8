package visord

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/jverbic/iris-core/core/frames"
	"github.com/jverbic/iris-core/core/images"
)

// Text message types on the visord stream socket.
const (
	messageTypeDevice     = "device"
	messageTypeFrame      = "frame"
	messageTypeDistortion = "distortion"
	messageTypeKeepAlive  = "keepalive"

	messageTypeSetPolicy   = "set_policy"
	messageTypeClearPolicy = "clear_policy"
)

type envelope struct {
	Type string `json:"type"`
}

type deviceMessage struct {
	Type  string `json:"type"`
	ID    string `json:"id"`
	Model string `json:"model"`
	Slots int    `json:"slots"`
}

type jointMessage struct {
	X float32 `json:"x"`
	Y float32 `json:"y"`
	Z float32 `json:"z"`
}

type handMessage struct {
	Chirality  string         `json:"chirality"`
	Confidence float32        `json:"confidence"`
	Joints     []jointMessage `json:"joints"`
}

type frameMessage struct {
	Type        string        `json:"type"`
	ID          int64         `json:"id"`
	TimestampUS int64         `json:"timestamp_us"`
	Hands       []handMessage `json:"hands"`
}

type distortionMessage struct {
	Type string `json:"type"`
	Slot int    `json:"slot"`
}

type policyMessage struct {
	Type   string `json:"type"`
	Policy string `json:"policy"`
}

func (m frameMessage) toFrame() *frames.Frame {
	frame := &frames.Frame{
		ID:        m.ID,
		Timestamp: time.UnixMicro(m.TimestampUS),
		Hands:     make([]frames.Hand, 0, len(m.Hands)),
	}
	for _, hand := range m.Hands {
		chirality := frames.ChiralityLeft
		if hand.Chirality == "right" {
			chirality = frames.ChiralityRight
		}
		joints := make([]frames.Joint, len(hand.Joints))
		for i, joint := range hand.Joints {
			joints[i] = frames.Joint{X: joint.X, Y: joint.Y, Z: joint.Z}
		}
		frame.Hands = append(frame.Hands, frames.Hand{
			Chirality:  chirality,
			Confidence: hand.Confidence,
			Joints:     joints,
		})
	}
	return frame
}

// Binary image envelope: a fixed 20-byte big-endian header followed by
// the raw payload.
//
//	offset 0  uint8   envelope version (currently 1)
//	offset 1  uint8   device slot
//	offset 2  uint8   format tag
//	offset 3  uint8   reserved
//	offset 4  uint32  width
//	offset 8  uint32  height
//	offset 12 int64   sequence id
//	offset 20 ...     payload
const (
	imageEnvelopeVersion = 1
	imageHeaderLength    = 20
)

var (
	// ErrShortEnvelope reports a binary message smaller than the header.
	ErrShortEnvelope = errors.New("visord: image envelope shorter than header")
	// ErrEnvelopeVersion reports an unknown envelope version.
	ErrEnvelopeVersion = errors.New("visord: unsupported image envelope version")
)

func parseImageEnvelope(data []byte, deviceType string) (*images.Image, error) {
	if len(data) < imageHeaderLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrShortEnvelope, len(data))
	}
	if data[0] != imageEnvelopeVersion {
		return nil, fmt.Errorf("%w: %d", ErrEnvelopeVersion, data[0])
	}

	descriptor := images.Descriptor{
		Width:      int(binary.BigEndian.Uint32(data[4:8])),
		Height:     int(binary.BigEndian.Uint32(data[8:12])),
		Format:     images.Format(data[2]),
		DeviceType: deviceType,
	}
	return &images.Image{
		SequenceID: int64(binary.BigEndian.Uint64(data[12:20])),
		Slot:       int(data[1]),
		Descriptor: descriptor,
		Data:       data[imageHeaderLength:],
		Timestamp:  time.Now(),
	}, nil
}

// EncodeImageEnvelope builds the binary wire form of an image. Used by
// simulators and tests; the production encoder lives in the daemon.
func EncodeImageEnvelope(image *images.Image) []byte {
	data := make([]byte, imageHeaderLength+len(image.Data))
	data[0] = imageEnvelopeVersion
	data[1] = byte(image.Slot)
	data[2] = byte(image.Descriptor.Format)
	binary.BigEndian.PutUint32(data[4:8], uint32(image.Descriptor.Width))
	binary.BigEndian.PutUint32(data[8:12], uint32(image.Descriptor.Height))
	binary.BigEndian.PutUint64(data[12:20], uint64(image.SequenceID))
	copy(data[imageHeaderLength:], image.Data)
	return data
}
