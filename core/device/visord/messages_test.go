package visord

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jverbic/iris-core/core/frames"
	"github.com/jverbic/iris-core/core/images"
)

func TestImageEnvelopeRoundTrip(t *testing.T) {
	original := &images.Image{
		SequenceID: 42,
		Slot:       1,
		Descriptor: images.Descriptor{Width: 640, Height: 240, Format: images.FormatGray8},
		Data:       []byte{1, 2, 3, 4},
	}

	parsed, err := parseImageEnvelope(EncodeImageEnvelope(original), "peripheral")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	if parsed.SequenceID != 42 || parsed.Slot != 1 {
		t.Fatalf("expected sequence 42 slot 1, got sequence %d slot %d", parsed.SequenceID, parsed.Slot)
	}
	if parsed.Descriptor.Width != 640 || parsed.Descriptor.Height != 240 || parsed.Descriptor.Format != images.FormatGray8 {
		t.Fatalf("expected descriptor preserved, got %+v", parsed.Descriptor)
	}
	if parsed.Descriptor.DeviceType != "peripheral" {
		t.Fatalf("expected device type stamped from connection info, got %q", parsed.Descriptor.DeviceType)
	}
	if !bytes.Equal(parsed.Data, original.Data) {
		t.Fatalf("expected payload preserved, got %v", parsed.Data)
	}
}

func TestParseImageEnvelopeRejectsShortHeader(t *testing.T) {
	if _, err := parseImageEnvelope(make([]byte, imageHeaderLength-1), ""); !errors.Is(err, ErrShortEnvelope) {
		t.Fatalf("expected ErrShortEnvelope, got %v", err)
	}
}

func TestParseImageEnvelopeRejectsUnknownVersion(t *testing.T) {
	data := EncodeImageEnvelope(&images.Image{Descriptor: images.Descriptor{Width: 1, Height: 1, Format: images.FormatGray8}})
	data[0] = 9

	if _, err := parseImageEnvelope(data, ""); !errors.Is(err, ErrEnvelopeVersion) {
		t.Fatalf("expected ErrEnvelopeVersion, got %v", err)
	}
}

func TestParseImageEnvelopePreservesNegativeSequenceIDs(t *testing.T) {
	data := EncodeImageEnvelope(&images.Image{
		SequenceID: -1,
		Descriptor: images.Descriptor{Width: 1, Height: 1, Format: images.FormatGray8},
	})

	parsed, err := parseImageEnvelope(data, "")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	if parsed.SequenceID != -1 {
		t.Fatalf("expected sequence id -1 preserved, got %d", parsed.SequenceID)
	}
}

func TestFrameMessageConversion(t *testing.T) {
	payload := []byte(`{
		"type": "frame",
		"id": 6,
		"timestamp_us": 1000000,
		"hands": [
			{"chirality": "right", "confidence": 0.75, "joints": [{"x": 1, "y": 2, "z": 3}]},
			{"chirality": "left", "confidence": 0.5, "joints": []}
		]
	}`)

	var message frameMessage
	if err := json.Unmarshal(payload, &message); err != nil {
		t.Fatalf("unexpected unmarshal error: %v", err)
	}
	frame := message.toFrame()

	if frame.ID != 6 {
		t.Fatalf("expected frame id 6, got %d", frame.ID)
	}
	right, ok := frame.Hand(frames.ChiralityRight)
	if !ok || right.Confidence != 0.75 || right.Joints[0].Z != 3 {
		t.Fatalf("expected tracked right hand from message, got %+v (ok=%v)", right, ok)
	}
	if _, ok := frame.Hand(frames.ChiralityLeft); ok {
		t.Fatalf("expected jointless left hand to report untracked")
	}
}
