package device

import (
	"testing"

	"github.com/jverbic/iris-core/core/frames"
	"github.com/jverbic/iris-core/core/images"
)

func TestEmitFrameReachesAllSubscribers(t *testing.T) {
	source := NewSource()
	received := 0
	source.SubscribeFrames(func(*frames.Frame) { received++ })
	source.SubscribeFrames(func(*frames.Frame) { received++ })

	source.EmitFrame(&frames.Frame{ID: 1})

	if received != 2 {
		t.Fatalf("expected both subscribers to receive the frame, got %d", received)
	}
}

func TestCancelledSubscriptionStopsReceiving(t *testing.T) {
	source := NewSource()
	received := 0
	subscription := source.SubscribeImages(func(*images.Image) { received++ })

	source.EmitImage(&images.Image{SequenceID: 1})
	subscription.Cancel()
	subscription.Cancel() // idempotent
	source.EmitImage(&images.Image{SequenceID: 2})

	if received != 1 {
		t.Fatalf("expected one delivery before cancellation, got %d", received)
	}
}

func TestDisconnectAndDistortionSubscriptions(t *testing.T) {
	source := NewSource()
	disconnects := 0
	var slots []int
	source.SubscribeDisconnect(func() { disconnects++ })
	source.SubscribeDistortionChange(func(slot int) { slots = append(slots, slot) })

	source.EmitDisconnect()
	source.EmitDistortionChange(1)

	if disconnects != 1 {
		t.Fatalf("expected one disconnect delivery, got %d", disconnects)
	}
	if len(slots) != 1 || slots[0] != 1 {
		t.Fatalf("expected distortion change for slot 1, got %v", slots)
	}
}

func TestEmitWithoutSubscribersIsANoOp(t *testing.T) {
	source := NewSource()
	source.EmitFrame(&frames.Frame{})
	source.EmitImage(&images.Image{})
	source.EmitDisconnect()
	source.EmitDistortionChange(0)
}
