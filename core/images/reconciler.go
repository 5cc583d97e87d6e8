package images

import "sync"

// Reset reasons reported through the drain callback.
const (
	ResetReasonBackwardJump = "backward_jump"
	ResetReasonBackpressure = "backpressure"
)

const offsetUnset = -1

// Reconciler selects, once per tick, the buffered image that best matches
// the authoritative frame: the newest image whose sequence id does not
// exceed the target. Older images are discarded, newer ones stay buffered
// for future ticks.
//
// Select runs on the tick goroutine. NoteBackpressure is the producer
// side's signal and may run concurrently with Select.
type Reconciler struct {
	mu   sync.Mutex
	ring *Ring

	// offset maps image sequence ids onto frame ids. Recorded once from
	// the first observed id and stable until an explicit reset.
	offset int64
	// previous is the last consumed sequence id, monotone non-decreasing
	// except across a reset.
	previous    int64
	previousSet bool

	needsReset  bool
	resetReason string

	onCompensation func(offset int64)
	onDrain        func(discarded int, reason string)
	onReset        func(reason string)
}

type ReconcilerOption func(*Reconciler)

// OnCompensation registers a callback fired when the first observed
// sequence id implies a non-zero frame id offset (the producer restarted
// independently of this consumer).
func OnCompensation(callback func(offset int64)) ReconcilerOption {
	return func(r *Reconciler) { r.onCompensation = callback }
}

// OnDrain registers a callback fired after a scheduled reset drained the
// ring buffer.
func OnDrain(callback func(discarded int, reason string)) ReconcilerOption {
	return func(r *Reconciler) { r.onDrain = callback }
}

// OnResetScheduled registers a callback fired when a reset is scheduled
// for the next tick.
func OnResetScheduled(callback func(reason string)) ReconcilerOption {
	return func(r *Reconciler) { r.onReset = callback }
}

func NewReconciler(ring *Ring, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{ring: ring, offset: offsetUnset}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Select adopts the newest buffered image with SequenceID <= target.
//
// A pending reset (backward sequence jump or backpressure) is honored
// first: the buffer is drained, reconciliation state cleared, and no image
// is selected this tick. This avoids serving a far-future-looking stale
// image after a producer restart.
func (r *Reconciler) Select(target int64) (*Image, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.needsReset {
		reason := r.resetReason
		discarded := r.ring.Drain()
		r.offset = offsetUnset
		r.previousSet = false
		r.previous = 0
		r.needsReset = false
		r.resetReason = ""

		logger.Info("drained image buffer after scheduled reset",
			"discarded", discarded, "reason", reason)
		if r.onDrain != nil {
			r.onDrain(discarded, reason)
		}
		return nil, false
	}

	var selected *Image
	for {
		image, ok := r.ring.TryPeek()
		if !ok {
			break
		}

		if r.offset == offsetUnset {
			r.offset = image.SequenceID + 1
			if r.offset != 0 {
				logger.Info("compensating sequence origin",
					"first_sequence_id", image.SequenceID, "offset", r.offset)
				if r.onCompensation != nil {
					r.onCompensation(r.offset)
				}
			}
		}

		if r.previousSet && image.SequenceID < r.previous {
			r.scheduleResetLocked(ResetReasonBackwardJump)
			break
		}

		if image.SequenceID > target {
			// Belongs to a future tick.
			break
		}

		selected = image
		r.previous = image.SequenceID
		r.previousSet = true
		r.ring.TryDequeue()
	}

	return selected, selected != nil
}

// NoteBackpressure records an enqueue failure. Unless a reset is already
// pending, the next tick drains the backlog instead of serving
// increasingly stale images.
func (r *Reconciler) NoteBackpressure() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.needsReset {
		return
	}
	r.scheduleResetLocked(ResetReasonBackpressure)
}

// ScheduleReset forces a drain at the next tick boundary. Used on device
// disconnects, where the producer will restart its numbering.
func (r *Reconciler) ScheduleReset(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.needsReset {
		return
	}
	r.scheduleResetLocked(reason)
}

func (r *Reconciler) scheduleResetLocked(reason string) {
	r.needsReset = true
	r.resetReason = reason
	logger.Info("scheduled image buffer reset", "reason", reason)
	if r.onReset != nil {
		r.onReset(reason)
	}
}

// Offset returns the recorded frame id offset and whether it has been set.
func (r *Reconciler) Offset() (int64, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.offset, r.offset != offsetUnset
}
