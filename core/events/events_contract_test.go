package events

import "testing"

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "image selected", event: NewImageSelected(6, 0), expected: KindImageSelected},
		{name: "sequence compensated", event: NewSequenceCompensated(4), expected: KindSequenceCompensated},
		{name: "reset scheduled", event: NewResetScheduled("backward_jump"), expected: KindResetScheduled},
		{name: "buffer drained", event: NewBufferDrained(3, "backward_jump"), expected: KindBufferDrained},
		{name: "backpressure detected", event: NewBackpressureDetected(), expected: KindBackpressureDetected},
		{name: "frame merged", event: NewFrameMerged(nil), expected: KindFrameMerged},
		{name: "aggregation disabled", event: NewAggregationDisabled("cycle"), expected: KindAggregationDisabled},
		{name: "device disconnected", event: NewDeviceDisconnected(), expected: KindDeviceDisconnected},
		{name: "distortion changed", event: NewDistortionChanged(1), expected: KindDistortionChanged},
		{name: "delivery policy changed", event: NewDeliveryPolicyChanged("images", true), expected: KindDeliveryPolicyChanged},
		{name: "resource rebuilt", event: NewResourceRebuilt(0, 640, 240), expected: KindResourceRebuilt},
		{name: "update skipped", event: NewUpdateSkipped(0, "short_payload"), expected: KindUpdateSkipped},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
		})
	}
}

func TestResetScheduledAndBufferDrainedKindsAreDistinct(t *testing.T) {
	scheduled := NewResetScheduled("backpressure")
	drained := NewBufferDrained(0, "backpressure")

	if scheduled.Kind() == drained.Kind() {
		t.Fatalf("expected reset scheduled and buffer drained kinds to differ, both were %q", scheduled.Kind())
	}
}
