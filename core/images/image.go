package images

import "time"

// Format tags the pixel layout of an image payload.
type Format uint8

const (
	FormatUnknown Format = iota
	// FormatGray8 is single-channel 8-bit infrared imagery.
	FormatGray8
	// FormatRGBA8 is four-channel 8-bit color imagery.
	FormatRGBA8
)

func (f Format) String() string {
	switch f {
	case FormatGray8:
		return "gray8"
	case FormatRGBA8:
		return "rgba8"
	}
	return "unknown"
}

// BytesPerPixel returns the payload stride for the format, or 0 for
// unsupported formats.
func (f Format) BytesPerPixel() int {
	switch f {
	case FormatGray8:
		return 1
	case FormatRGBA8:
		return 4
	}
	return 0
}

// Supported reports whether the format belongs to the supported set.
func (f Format) Supported() bool {
	return f.BytesPerPixel() > 0
}

// Descriptor describes an image payload's layout. It is the staleness key
// for cached resources: a cached resource built for one descriptor must be
// reconstructed before accepting payloads described differently.
type Descriptor struct {
	Width  int
	Height int
	Format Format

	// DeviceType tags the producing hardware generation. It does not
	// participate in staleness checks; border masking keys off it.
	DeviceType string
}

// RequiredLength returns the payload length the descriptor implies.
func (d Descriptor) RequiredLength() int {
	return d.Width * d.Height * d.Format.BytesPerPixel()
}

// Matches reports whether two descriptors describe the same resource
// layout (dimensions and format tag).
func (d Descriptor) Matches(other Descriptor) bool {
	return d.Width == other.Width && d.Height == other.Height && d.Format == other.Format
}

// Image is a sequence-stamped camera artifact. Immutable once enqueued:
// neither the producer nor the consumer writes to it afterwards.
type Image struct {
	// SequenceID is producer-assigned and monotonically increasing. It
	// may restart at or near zero after a producer restart.
	SequenceID int64
	Slot       int
	Descriptor Descriptor
	Data       []byte
	Timestamp  time.Time
}
