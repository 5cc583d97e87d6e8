package device

import (
	"sync"

	"github.com/google/uuid"
	"github.com/jverbic/iris-core/core/frames"
	"github.com/jverbic/iris-core/core/images"
)

// Source is the typed event surface of an upstream producer. Backends
// (the visord client, simulators, tests) emit into it; consumers
// subscribe and receive callbacks on the backend's emitting goroutine.
//
// Delivery is neither ordered across event types nor exclusive:
// subscribers must tolerate callbacks racing the tick loop.
type Source struct {
	mu sync.Mutex

	frameSubs      map[string]func(*frames.Frame)
	imageSubs      map[string]func(*images.Image)
	disconnectSubs map[string]func()
	distortionSubs map[string]func(slot int)
}

// Subscription identifies one registered callback.
type Subscription struct {
	cancel func()
}

// Cancel removes the callback. Safe to call more than once.
func (s Subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
	}
}

func NewSource() *Source {
	return &Source{
		frameSubs:      map[string]func(*frames.Frame){},
		imageSubs:      map[string]func(*images.Image){},
		disconnectSubs: map[string]func(){},
		distortionSubs: map[string]func(slot int){},
	}
}

// SubscribeFrames registers for tracking frames.
func (s *Source) SubscribeFrames(callback func(*frames.Frame)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.frameSubs[id] = callback
	return Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.frameSubs, id)
	}}
}

// SubscribeImages registers for sequenced camera images.
func (s *Source) SubscribeImages(callback func(*images.Image)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.imageSubs[id] = callback
	return Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.imageSubs, id)
	}}
}

// SubscribeDisconnect registers for service-loss notifications.
func (s *Source) SubscribeDisconnect(callback func()) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.disconnectSubs[id] = callback
	return Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.disconnectSubs, id)
	}}
}

// SubscribeDistortionChange registers for calibration changes.
func (s *Source) SubscribeDistortionChange(callback func(slot int)) Subscription {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	s.distortionSubs[id] = callback
	return Subscription{cancel: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.distortionSubs, id)
	}}
}

// EmitFrame delivers a tracking frame to all frame subscribers, on the
// caller's goroutine.
func (s *Source) EmitFrame(frame *frames.Frame) {
	for _, callback := range s.frameCallbacks() {
		callback(frame)
	}
}

// EmitImage delivers a sequenced image to all image subscribers, on the
// caller's goroutine.
func (s *Source) EmitImage(image *images.Image) {
	for _, callback := range s.imageCallbacks() {
		callback(image)
	}
}

// EmitDisconnect notifies subscribers the service went away.
func (s *Source) EmitDisconnect() {
	s.mu.Lock()
	callbacks := make([]func(), 0, len(s.disconnectSubs))
	for _, callback := range s.disconnectSubs {
		callbacks = append(callbacks, callback)
	}
	s.mu.Unlock()

	for _, callback := range callbacks {
		callback()
	}
}

// EmitDistortionChange notifies subscribers a slot's calibration changed.
func (s *Source) EmitDistortionChange(slot int) {
	s.mu.Lock()
	callbacks := make([]func(int), 0, len(s.distortionSubs))
	for _, callback := range s.distortionSubs {
		callbacks = append(callbacks, callback)
	}
	s.mu.Unlock()

	for _, callback := range callbacks {
		callback(slot)
	}
}

func (s *Source) frameCallbacks() []func(*frames.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callbacks := make([]func(*frames.Frame), 0, len(s.frameSubs))
	for _, callback := range s.frameSubs {
		callbacks = append(callbacks, callback)
	}
	return callbacks
}

func (s *Source) imageCallbacks() []func(*images.Image) {
	s.mu.Lock()
	defer s.mu.Unlock()

	callbacks := make([]func(*images.Image), 0, len(s.imageSubs))
	for _, callback := range s.imageSubs {
		callbacks = append(callbacks, callback)
	}
	return callbacks
}
