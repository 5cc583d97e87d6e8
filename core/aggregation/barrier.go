package aggregation

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jverbic/iris-core/core/frames"
)

// Phase distinguishes the two tick phases a host may drive per frame.
type Phase int

const (
	// PhaseVariable is the render-rate update phase.
	PhaseVariable Phase = iota
	// PhaseFixed is the fixed-timestep simulation phase.
	PhaseFixed
)

func (p Phase) String() string {
	switch p {
	case PhaseVariable:
		return "variable"
	case PhaseFixed:
		return "fixed"
	}
	return "unknown"
}

// ReusePolicy controls whether the two tick phases share one merged frame
// or compute independently.
type ReusePolicy int

const (
	// ReuseNone computes both phases independently.
	ReuseNone ReusePolicy = iota
	// ReuseFixedForVariable serves the fixed-step merge to the
	// variable-step phase without merging again.
	ReuseFixedForVariable
	// ReuseVariableForFixed serves the variable-step merge to the
	// fixed-step phase without merging again.
	ReuseVariableForFixed
)

// MergeFunc combines one frame per producer into the tick's authoritative
// frame. Inputs are ordered by registration; the function must not retain
// or mutate them.
type MergeFunc func(inputs []*frames.Frame) *frames.Frame

var (
	// ErrBarrierActive reports registration after activation.
	ErrBarrierActive = errors.New("aggregation: producers cannot register after activation")
	// ErrBarrierDisabled reports use of a barrier rejected by validation.
	ErrBarrierDisabled = errors.New("aggregation: barrier is disabled")
)

// Barrier is the fan-in gate collecting one frame per registered producer
// per tick. The merge function runs exactly once when the last empty slot
// fills; a producer that never fires leaves the tick partial and
// downstream consumers read the previous merged frame instead of blocking.
type Barrier struct {
	mu sync.Mutex

	id        string
	name      string
	merge     MergeFunc
	policy    ReusePolicy
	providers []Node

	producers []*ProducerHandle
	slots     []*frames.Frame

	tick  uint64
	phase Phase

	active         bool
	disabled       bool
	disabledReason string

	lastMerged  *frames.Frame
	phaseMerged [2]*frames.Frame

	merges  uint64
	repeats uint64

	onMerged func(*frames.Frame)
}

type BarrierOption func(*Barrier)

// WithName sets a human-readable name used in logs.
func WithName(name string) BarrierOption {
	return func(b *Barrier) { b.name = name }
}

// WithReusePolicy sets the phase reuse policy.
func WithReusePolicy(policy ReusePolicy) BarrierOption {
	return func(b *Barrier) { b.policy = policy }
}

// WithProviders declares the "reads frames from" edges used by graph
// validation.
func WithProviders(providers ...Node) BarrierOption {
	return func(b *Barrier) { b.providers = append(b.providers, providers...) }
}

// OnMerged registers a callback dispatched with each merged frame, on the
// goroutine of whichever producer completed the tick.
func OnMerged(callback func(*frames.Frame)) BarrierOption {
	return func(b *Barrier) { b.onMerged = callback }
}

func NewBarrier(merge MergeFunc, opts ...BarrierOption) *Barrier {
	b := &Barrier{id: uuid.NewString(), merge: merge}
	for _, opt := range opts {
		opt(b)
	}
	if b.name == "" {
		b.name = b.id
	}
	return b
}

// ProducerHandle is the per-producer write capability returned by
// Register. Each producer owns exactly one handle and writes its slot at
// most once per tick.
type ProducerHandle struct {
	barrier *Barrier
	index   int
	name    string

	lastTick uint64
	written  bool
}

// Name returns the producer's registered name.
func (h *ProducerHandle) Name() string { return h.name }

// Register adds a named producer slot. All producers register before
// Activate; late registration is an error.
func (b *Barrier) Register(name string) (*ProducerHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disabled {
		return nil, fmt.Errorf("%w: %s", ErrBarrierDisabled, b.disabledReason)
	}
	if b.active {
		return nil, ErrBarrierActive
	}

	handle := &ProducerHandle{barrier: b, index: len(b.producers), name: name}
	b.producers = append(b.producers, handle)
	b.slots = append(b.slots, nil)
	return handle, nil
}

// Activate validates the producer graph and opens the barrier for
// publishing. A cyclic graph disables the instance entirely rather than
// leaving it partially functional.
func (b *Barrier) Activate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.disabled {
		return fmt.Errorf("%w: %s", ErrBarrierDisabled, b.disabledReason)
	}

	if err := Validate(b); err != nil {
		b.disabled = true
		b.disabledReason = err.Error()
		logger.Error("disabling aggregation barrier", "barrier", b.name, "error", err)
		return err
	}

	b.active = true
	return nil
}

// Publish writes the producer's frame into its slot. The first write per
// tick wins; repeats are ignored. When the last empty slot fills, the
// merge runs exactly once and the slots clear as one atomic batch.
func (h *ProducerHandle) Publish(frame *frames.Frame) {
	b := h.barrier

	b.mu.Lock()
	if !b.active || b.disabled || frame == nil {
		b.mu.Unlock()
		return
	}

	if h.written && h.lastTick == b.tick {
		b.repeats++
		b.mu.Unlock()
		return
	}
	h.lastTick = b.tick
	h.written = true
	b.slots[h.index] = frame

	for _, slot := range b.slots {
		if slot == nil {
			b.mu.Unlock()
			return
		}
	}

	if b.reusesCurrentPhaseLocked() {
		// The current phase serves the other phase's cached merge;
		// holding the filled slots until the next tick boundary avoids
		// a second merge for the same inputs.
		b.mu.Unlock()
		return
	}

	inputs := make([]*frames.Frame, len(b.slots))
	copy(inputs, b.slots)
	for i := range b.slots {
		b.slots[i] = nil
	}

	merged := b.merge(inputs)
	b.lastMerged = merged
	b.phaseMerged[b.phase] = merged
	b.merges++
	callback := b.onMerged
	b.mu.Unlock()

	if callback != nil && merged != nil {
		callback(merged)
	}
}

// SetMergedCallback replaces the merged-frame callback. The pipeline
// composing this barrier owns the callback while it drives ticking.
func (b *Barrier) SetMergedCallback(callback func(*frames.Frame)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onMerged = callback
}

// BeginTick marks the tick boundary for a phase: slots reset to empty and
// a new write-once generation starts.
func (b *Barrier) BeginTick(phase Phase) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.tick++
	b.phase = phase
	for i := range b.slots {
		b.slots[i] = nil
	}
}

// CurrentFrame returns the most recent merged frame, which may be the
// previous tick's result when a producer has not fired yet
// (stale-but-valid rather than blocking).
func (b *Barrier) CurrentFrame() *frames.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastMerged
}

// PhaseFrame returns the merged frame to serve for a phase under the
// configured reuse policy, falling back to the most recent merge when the
// mapped phase has none yet.
func (b *Barrier) PhaseFrame(phase Phase) *frames.Frame {
	b.mu.Lock()
	defer b.mu.Unlock()

	mapped := phase
	switch {
	case b.policy == ReuseFixedForVariable && phase == PhaseVariable:
		mapped = PhaseFixed
	case b.policy == ReuseVariableForFixed && phase == PhaseFixed:
		mapped = PhaseVariable
	}

	if frame := b.phaseMerged[mapped]; frame != nil {
		return frame
	}
	return b.lastMerged
}

func (b *Barrier) reusesCurrentPhaseLocked() bool {
	return (b.policy == ReuseFixedForVariable && b.phase == PhaseVariable) ||
		(b.policy == ReuseVariableForFixed && b.phase == PhaseFixed)
}

// Merges returns the lifetime merge count.
func (b *Barrier) Merges() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.merges
}

// Disabled reports whether validation rejected this barrier.
func (b *Barrier) Disabled() (bool, string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.disabled, b.disabledReason
}

// AggregationID implements [Node].
func (b *Barrier) AggregationID() string { return b.id }

// FrameProviders implements [Node].
func (b *Barrier) FrameProviders() []Node { return b.providers }
