package frames

import (
	"time"

	"github.com/jinzhu/copier"
)

type Chirality int

const (
	ChiralityLeft Chirality = iota
	ChiralityRight
)

func (c Chirality) String() string {
	switch c {
	case ChiralityLeft:
		return "left"
	case ChiralityRight:
		return "right"
	}
	return "unknown"
}

// Joint is a single tracked position in the frame's coordinate space.
type Joint struct {
	X float32
	Y float32
	Z float32
}

// Hand is one tracked hand within a frame.
type Hand struct {
	Chirality  Chirality
	Confidence float32
	Joints     []Joint
}

// Tracked reports whether the hand carries any joint data. Producers emit
// empty hands for chiralities they lost track of.
func (h Hand) Tracked() bool {
	return len(h.Joints) > 0
}

// Frame is the tick-scoped snapshot of tracked hands. ID is the
// reconciliation target correlating the frame with sequenced images.
//
// A frame is owned by whichever component last wrote it. It is never
// mutated in place across owners; use [Frame.Clone] or [Frame.Transformed]
// to hand a frame to another coordinate space or consumer.
type Frame struct {
	ID        int64
	Timestamp time.Time
	Hands     []Hand
}

// Clone returns a deep copy sharing no joint storage with the original.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return nil
	}

	out := &Frame{}
	if err := copier.CopyWithOption(out, f, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on invalid to/from kinds, which the fixed
		// types here rule out; fall back to the original rather than
		// returning a torn frame.
		return f
	}
	return out
}

// Pose is a rigid offset between coordinate spaces.
type Pose struct {
	Translation Joint
	Scale       float32
}

// Transformed returns a copy of the frame moved into the space described
// by pose. The receiver is left untouched.
func (f *Frame) Transformed(pose Pose) *Frame {
	out := f.Clone()
	if out == nil {
		return nil
	}

	scale := pose.Scale
	if scale == 0 {
		scale = 1
	}

	for i := range out.Hands {
		for j := range out.Hands[i].Joints {
			joint := &out.Hands[i].Joints[j]
			joint.X = joint.X*scale + pose.Translation.X
			joint.Y = joint.Y*scale + pose.Translation.Y
			joint.Z = joint.Z*scale + pose.Translation.Z
		}
	}
	return out
}

// Hand returns the hand with the given chirality, if tracked in this frame.
func (f *Frame) Hand(chirality Chirality) (Hand, bool) {
	if f == nil {
		return Hand{}, false
	}

	for _, hand := range f.Hands {
		if hand.Chirality == chirality && hand.Tracked() {
			return hand, true
		}
	}
	return Hand{}, false
}
