// Package events defines the typed synchronization event contract.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - image.*
//   - frame.*
//   - device.*
//   - cache.*
//
// Semantics used across the package:
//
//   - Selected: a buffered item was adopted for the current tick.
//   - Compensated: bookkeeping was adjusted to absorb a producer restart.
//   - Scheduled: a corrective action will run at the next tick boundary.
//   - Drained: buffered items were discarded as part of a reset.
//   - Merged: all producers delivered and the fan-in result was computed.
//
// image events
//
//   - ImageSelected (image.selected): an image was reconciled against the
//     current frame and handed to the resource cache.
//   - SequenceCompensated (image.sequence_compensated): the first observed
//     sequence id did not start at the expected origin.
//   - ResetScheduled (image.reset_scheduled): a backward sequence jump or
//     backpressure scheduled a buffer drain for the next tick.
//   - BufferDrained (image.buffer_drained): the ring buffer was drained and
//     reconciliation state cleared.
//   - BackpressureDetected (image.backpressure): an enqueue failed because
//     the ring buffer was full.
//
// frame events
//
//   - FrameMerged (frame.merged): the aggregation barrier produced the
//     tick's authoritative frame.
//   - AggregationDisabled (frame.aggregation_disabled): producer graph
//     validation rejected the configuration.
//
// device events
//
//   - DeviceDisconnected (device.disconnected): the producer service went
//     away; reconciliation resets on reconnect.
//   - DistortionChanged (device.distortion_changed): device calibration
//     changed and cached resources were marked stale.
//   - DeliveryPolicyChanged (device.policy_changed): an image delivery
//     policy was requested or released.
//
// cache events
//
//   - ResourceRebuilt (cache.resource_rebuilt): a slot's resource was
//     reconstructed for a new descriptor.
//   - UpdateSkipped (cache.update_skipped): a slot update was skipped
//     (short payload, unsupported format, or invalid slot).
//
// All events fire on the goroutine that produced them: tick-side events on
// the tick goroutine, device events on the device client's read goroutine.
package events
