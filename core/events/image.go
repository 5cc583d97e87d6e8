package events

const (
	// KindImageSelected identifies an image adopted for the current tick.
	KindImageSelected Kind = "image.selected"
	// KindSequenceCompensated identifies a first-observation offset adjustment.
	KindSequenceCompensated Kind = "image.sequence_compensated"
	// KindResetScheduled identifies a buffer drain scheduled for the next tick.
	KindResetScheduled Kind = "image.reset_scheduled"
	// KindBufferDrained identifies a completed ring buffer drain.
	KindBufferDrained Kind = "image.buffer_drained"
	// KindBackpressureDetected identifies an enqueue rejected on a full buffer.
	KindBackpressureDetected Kind = "image.backpressure"
)

// ImageSelected carries the sequence id and slot of the image adopted for
// the current tick.
type ImageSelected struct {
	Base
	SequenceID int64
	Slot       int
}

// NewImageSelected creates an image selected event.
func NewImageSelected(sequenceID int64, slot int) ImageSelected {
	return ImageSelected{Base: NewBase(KindImageSelected), SequenceID: sequenceID, Slot: slot}
}

// SequenceCompensated carries the offset recorded when sequence numbering
// did not start at the expected origin.
type SequenceCompensated struct {
	Base
	Offset int64
}

// NewSequenceCompensated creates a sequence compensation event.
func NewSequenceCompensated(offset int64) SequenceCompensated {
	return SequenceCompensated{Base: NewBase(KindSequenceCompensated), Offset: offset}
}

// ResetScheduled carries the reason a buffer drain was scheduled.
type ResetScheduled struct {
	Base
	Reason string
}

// NewResetScheduled creates a reset scheduled event.
func NewResetScheduled(reason string) ResetScheduled {
	return ResetScheduled{Base: NewBase(KindResetScheduled), Reason: reason}
}

// BufferDrained carries the number of images discarded by a drain.
type BufferDrained struct {
	Base
	Discarded int
	Reason    string
}

// NewBufferDrained creates a buffer drained event.
func NewBufferDrained(discarded int, reason string) BufferDrained {
	return BufferDrained{Base: NewBase(KindBufferDrained), Discarded: discarded, Reason: reason}
}

// BackpressureDetected marks an enqueue rejected because the ring buffer
// was full.
type BackpressureDetected struct{ Base }

// NewBackpressureDetected creates a backpressure event.
func NewBackpressureDetected() BackpressureDetected {
	return BackpressureDetected{Base: NewBase(KindBackpressureDetected)}
}
