package pipeline

import (
	"github.com/jverbic/iris-core/core/aggregation"
	"github.com/jverbic/iris-core/core/device"
	"github.com/jverbic/iris-core/core/events"
	"github.com/jverbic/iris-core/core/frames"
)

type PipelineOption func(*Pipeline)

// WithConfig replaces the default configuration.
func WithConfig(config Config) PipelineOption {
	return func(p *Pipeline) { p.config = config }
}

// WithSource attaches the upstream producer event surface.
func WithSource(source *device.Source) PipelineOption {
	return func(p *Pipeline) { p.source = source }
}

// WithController attaches the device collaborator used to request and
// release image delivery around the pipeline's active lifetime.
func WithController(controller device.Controller) PipelineOption {
	return func(p *Pipeline) { p.controller = controller }
}

// WithAggregator attaches a fan-in barrier. The pipeline drives its tick
// boundaries and registers a producer slot for device frames; additional
// producers register with the barrier before Run.
func WithAggregator(barrier *aggregation.Barrier) PipelineOption {
	return func(p *Pipeline) { p.barrier = barrier }
}

// RunOptions carries the per-run callback set, bridged from the typed
// event stream.
type RunOptions struct {
	onMergedFrame      func(*frames.Frame)
	onImageSelected    func(sequenceID int64, slot int)
	onCompensation     func(offset int64)
	onResetScheduled   func(reason string)
	onBufferDrained    func(discarded int, reason string)
	onBackpressure     func()
	onDisconnect       func()
	onDistortionChange func(slot int)
	onResourceRebuilt  func(slot, width, height int)
	onEvent            func(events.Event)
}

type RunOption func(*RunOptions)

// OnMergedFrame fires with each merged authoritative frame.
func OnMergedFrame(callback func(*frames.Frame)) RunOption {
	return func(o *RunOptions) { o.onMergedFrame = callback }
}

// OnImageSelected fires when a buffered image is adopted for a tick.
func OnImageSelected(callback func(sequenceID int64, slot int)) RunOption {
	return func(o *RunOptions) { o.onImageSelected = callback }
}

// OnCompensation fires when sequence numbering did not start at the
// expected origin.
func OnCompensation(callback func(offset int64)) RunOption {
	return func(o *RunOptions) { o.onCompensation = callback }
}

// OnResetScheduled fires when a buffer drain is scheduled for the next
// tick.
func OnResetScheduled(callback func(reason string)) RunOption {
	return func(o *RunOptions) { o.onResetScheduled = callback }
}

// OnBufferDrained fires after a scheduled drain completed.
func OnBufferDrained(callback func(discarded int, reason string)) RunOption {
	return func(o *RunOptions) { o.onBufferDrained = callback }
}

// OnBackpressure fires when the ring buffer rejects an enqueue.
func OnBackpressure(callback func()) RunOption {
	return func(o *RunOptions) { o.onBackpressure = callback }
}

// OnDisconnect fires when the producer service goes away.
func OnDisconnect(callback func()) RunOption {
	return func(o *RunOptions) { o.onDisconnect = callback }
}

// OnDistortionChange fires when device calibration changes for a slot.
func OnDistortionChange(callback func(slot int)) RunOption {
	return func(o *RunOptions) { o.onDistortionChange = callback }
}

// OnResourceRebuilt fires after a slot's resource was reconstructed.
func OnResourceRebuilt(callback func(slot, width, height int)) RunOption {
	return func(o *RunOptions) { o.onResourceRebuilt = callback }
}

// OnEvent receives every event the pipeline emits, after the specific
// callbacks. Useful for monitors and logs.
func OnEvent(callback func(events.Event)) RunOption {
	return func(o *RunOptions) { o.onEvent = callback }
}
