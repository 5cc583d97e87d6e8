package aggregation

import (
	"testing"

	"github.com/jverbic/iris-core/core/frames"
)

func producerFrame(id int64) *frames.Frame {
	return &frames.Frame{ID: id, Hands: []frames.Hand{
		{Chirality: frames.ChiralityLeft, Joints: []frames.Joint{{X: float32(id)}}},
	}}
}

func activatedBarrier(t *testing.T, merge MergeFunc, producerNames []string, opts ...BarrierOption) (*Barrier, []*ProducerHandle) {
	t.Helper()

	barrier := NewBarrier(merge, opts...)
	handles := make([]*ProducerHandle, 0, len(producerNames))
	for _, name := range producerNames {
		handle, err := barrier.Register(name)
		if err != nil {
			t.Fatalf("unexpected register error for %q: %v", name, err)
		}
		handles = append(handles, handle)
	}
	if err := barrier.Activate(); err != nil {
		t.Fatalf("unexpected activation error: %v", err)
	}
	return barrier, handles
}

func TestMergeFiresExactlyOnceWhenAllSlotsFill(t *testing.T) {
	orders := [][]int{{0, 1, 2}, {2, 0, 1}, {1, 2, 0}}

	for _, order := range orders {
		merges := 0
		barrier, handles := activatedBarrier(t, func(inputs []*frames.Frame) *frames.Frame {
			merges++
			if len(inputs) != 3 {
				t.Fatalf("expected 3 merge inputs, got %d", len(inputs))
			}
			return producerFrame(inputs[0].ID)
		}, []string{"a", "b", "c"})

		barrier.BeginTick(PhaseVariable)
		for _, index := range order {
			handles[index].Publish(producerFrame(int64(index + 1)))
		}

		if merges != 1 {
			t.Fatalf("expected exactly one merge for order %v, got %d", order, merges)
		}
		if barrier.CurrentFrame() == nil {
			t.Fatalf("expected a merged frame after all slots filled")
		}
	}
}

func TestNoMergeWhileAnySlotIsEmpty(t *testing.T) {
	merges := 0
	barrier, handles := activatedBarrier(t, func(inputs []*frames.Frame) *frames.Frame {
		merges++
		return producerFrame(1)
	}, []string{"a", "b", "c"})

	barrier.BeginTick(PhaseVariable)
	handles[0].Publish(producerFrame(1))
	handles[2].Publish(producerFrame(3))

	if merges != 0 {
		t.Fatalf("expected no merge with 2 of 3 slots filled, got %d", merges)
	}
	if barrier.CurrentFrame() != nil {
		t.Fatalf("expected no merged frame before the first complete tick")
	}
}

func TestPartialTickServesPreviousMergedFrame(t *testing.T) {
	barrier, handles := activatedBarrier(t, MergeFirstTracked, []string{"a", "b"})

	barrier.BeginTick(PhaseVariable)
	handles[0].Publish(producerFrame(1))
	handles[1].Publish(producerFrame(2))
	first := barrier.CurrentFrame()
	if first == nil {
		t.Fatalf("expected a merged frame from the complete tick")
	}

	// Producer b misses the next tick entirely.
	barrier.BeginTick(PhaseVariable)
	handles[0].Publish(producerFrame(3))

	if got := barrier.CurrentFrame(); got != first {
		t.Fatalf("expected stale-but-valid previous merge during a partial tick")
	}
}

func TestRepeatPublishWithinATickIsIgnored(t *testing.T) {
	merges := 0
	var mergedIDs []int64
	barrier, handles := activatedBarrier(t, func(inputs []*frames.Frame) *frames.Frame {
		merges++
		mergedIDs = append(mergedIDs, inputs[0].ID)
		return producerFrame(inputs[0].ID)
	}, []string{"a", "b"})

	barrier.BeginTick(PhaseVariable)
	handles[0].Publish(producerFrame(1))
	handles[0].Publish(producerFrame(99)) // second write this tick, dropped
	handles[1].Publish(producerFrame(2))

	if merges != 1 {
		t.Fatalf("expected one merge, got %d", merges)
	}
	if mergedIDs[0] != 1 {
		t.Fatalf("expected the first write to win the slot, merged input had id %d", mergedIDs[0])
	}
}

func TestReuseFixedForVariableSkipsSecondMerge(t *testing.T) {
	merges := 0
	barrier, handles := activatedBarrier(t, func(inputs []*frames.Frame) *frames.Frame {
		merges++
		return producerFrame(inputs[0].ID)
	}, []string{"a", "b"}, WithReusePolicy(ReuseFixedForVariable))

	barrier.BeginTick(PhaseFixed)
	handles[0].Publish(producerFrame(10))
	handles[1].Publish(producerFrame(11))
	fixed := barrier.PhaseFrame(PhaseFixed)
	if merges != 1 || fixed == nil {
		t.Fatalf("expected the fixed phase to merge once, merges=%d", merges)
	}

	barrier.BeginTick(PhaseVariable)
	handles[0].Publish(producerFrame(12))
	handles[1].Publish(producerFrame(13))

	if merges != 1 {
		t.Fatalf("expected the variable phase to reuse without merging, merges=%d", merges)
	}
	if got := barrier.PhaseFrame(PhaseVariable); got != fixed {
		t.Fatalf("expected variable-step output to equal the most recent fixed-step merge")
	}
}

func TestReuseNoneMergesEachPhaseIndependently(t *testing.T) {
	merges := 0
	barrier, handles := activatedBarrier(t, func(inputs []*frames.Frame) *frames.Frame {
		merges++
		return producerFrame(inputs[0].ID)
	}, []string{"a"})

	barrier.BeginTick(PhaseFixed)
	handles[0].Publish(producerFrame(1))
	barrier.BeginTick(PhaseVariable)
	handles[0].Publish(producerFrame(2))

	if merges != 2 {
		t.Fatalf("expected independent merges per phase, got %d", merges)
	}
	if barrier.PhaseFrame(PhaseVariable) == barrier.PhaseFrame(PhaseFixed) {
		t.Fatalf("expected distinct merged frames per phase")
	}
}

func TestRegisterAfterActivationFails(t *testing.T) {
	barrier, _ := activatedBarrier(t, MergeFirstTracked, []string{"a"})

	if _, err := barrier.Register("late"); err == nil {
		t.Fatalf("expected registration after activation to fail")
	}
}

func TestPublishOnInactiveBarrierIsIgnored(t *testing.T) {
	barrier := NewBarrier(MergeFirstTracked)
	handle, err := barrier.Register("a")
	if err != nil {
		t.Fatalf("unexpected register error: %v", err)
	}

	handle.Publish(producerFrame(1))

	if barrier.CurrentFrame() != nil {
		t.Fatalf("expected no merge before activation")
	}
}
