package images

import "testing"

func TestSelectAdoptsNewestImageNotNewerThanTarget(t *testing.T) {
	ring := NewRing(8)
	reconciler := NewReconciler(ring)

	for _, id := range []int64{5, 6, 7} {
		ring.Enqueue(sequenced(id))
	}

	selected, ok := reconciler.Select(6)
	if !ok || selected.SequenceID != 6 {
		t.Fatalf("expected selection of sequence 6, got %+v (ok=%v)", selected, ok)
	}
	if got := ring.Len(); got != 1 {
		t.Fatalf("expected sequence 7 to stay buffered for a future tick, got %d buffered", got)
	}
	remaining, _ := ring.TryPeek()
	if remaining.SequenceID != 7 {
		t.Fatalf("expected buffered sequence 7, got %d", remaining.SequenceID)
	}
}

func TestSelectWithEmptyBufferReportsNoNewImage(t *testing.T) {
	reconciler := NewReconciler(NewRing(8))

	if selected, ok := reconciler.Select(10); ok || selected != nil {
		t.Fatalf("expected no selection from an empty buffer, got %+v (ok=%v)", selected, ok)
	}
}

func TestFirstObservationRecordsOffsetAndCompensates(t *testing.T) {
	ring := NewRing(8)
	var compensated []int64
	reconciler := NewReconciler(ring, OnCompensation(func(offset int64) {
		compensated = append(compensated, offset)
	}))

	ring.Enqueue(sequenced(3))
	reconciler.Select(3)

	offset, set := reconciler.Offset()
	if !set || offset != 4 {
		t.Fatalf("expected recorded offset 4, got %d (set=%v)", offset, set)
	}
	if len(compensated) != 1 || compensated[0] != 4 {
		t.Fatalf("expected one compensation notice with offset 4, got %v", compensated)
	}
}

func TestOffsetIsStableAcrossSubsequentSelections(t *testing.T) {
	ring := NewRing(8)
	reconciler := NewReconciler(ring)

	ring.Enqueue(sequenced(3))
	reconciler.Select(3)
	ring.Enqueue(sequenced(4))
	reconciler.Select(4)

	if offset, _ := reconciler.Offset(); offset != 4 {
		t.Fatalf("expected offset to stay 4 after further selections, got %d", offset)
	}
}

func TestBackwardSequenceJumpSchedulesResetAndDrains(t *testing.T) {
	ring := NewRing(8)
	var drained []int
	var reasons []string
	reconciler := NewReconciler(ring, OnDrain(func(discarded int, reason string) {
		drained = append(drained, discarded)
		reasons = append(reasons, reason)
	}))

	ring.Enqueue(sequenced(10))
	ring.Enqueue(sequenced(11))
	selected, ok := reconciler.Select(11)
	if !ok || selected.SequenceID != 11 {
		t.Fatalf("expected selection of sequence 11 before the jump, got %+v (ok=%v)", selected, ok)
	}

	// Producer restarted: time moved backward.
	ring.Enqueue(sequenced(3))
	if _, ok := reconciler.Select(12); ok {
		t.Fatalf("expected no selection once a backward jump is pending")
	}

	// Next tick drains fully before resuming.
	if _, ok := reconciler.Select(12); ok {
		t.Fatalf("expected the reset tick to select nothing")
	}
	if ring.Len() != 0 {
		t.Fatalf("expected buffer fully drained, %d images left", ring.Len())
	}
	if len(drained) != 1 || drained[0] != 1 || reasons[0] != ResetReasonBackwardJump {
		t.Fatalf("expected one drain of 1 image for %q, got counts=%v reasons=%v",
			ResetReasonBackwardJump, drained, reasons)
	}
	if _, set := reconciler.Offset(); set {
		t.Fatalf("expected offset cleared by the reset")
	}

	// Selection resumes normally with the restarted numbering.
	ring.Enqueue(sequenced(0))
	if selected, ok := reconciler.Select(0); !ok || selected.SequenceID != 0 {
		t.Fatalf("expected selection to resume after reset, got %+v (ok=%v)", selected, ok)
	}
}

func TestBackpressureSchedulesDeferredReset(t *testing.T) {
	ring := NewRing(2)
	var reasons []string
	reconciler := NewReconciler(ring, OnResetScheduled(func(reason string) {
		reasons = append(reasons, reason)
	}))

	ring.Enqueue(sequenced(1))
	ring.Enqueue(sequenced(2))
	if ring.Enqueue(sequenced(3)) {
		t.Fatalf("expected enqueue on full ring to fail")
	}
	reconciler.NoteBackpressure()
	reconciler.NoteBackpressure() // already pending, must not double-schedule

	if len(reasons) != 1 || reasons[0] != ResetReasonBackpressure {
		t.Fatalf("expected a single scheduled reset for backpressure, got %v", reasons)
	}

	if _, ok := reconciler.Select(10); ok {
		t.Fatalf("expected the backlog tick to select nothing")
	}
	if ring.Len() != 0 {
		t.Fatalf("expected backlog cleared, %d images left", ring.Len())
	}
}

func TestSelectLeavesFutureImagesBuffered(t *testing.T) {
	ring := NewRing(8)
	reconciler := NewReconciler(ring)

	ring.Enqueue(sequenced(9))
	if _, ok := reconciler.Select(5); ok {
		t.Fatalf("expected a future image to stay unselected")
	}
	if ring.Len() != 1 {
		t.Fatalf("expected the future image to remain buffered")
	}
}
