package pipeline

import "github.com/jverbic/iris-core/core/events"

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

func newCallbackEventEmitter(opts RunOptions) eventEmitter {
	return func(event events.Event) {
		switch typedEvent := event.(type) {
		case events.FrameMerged:
			if opts.onMergedFrame != nil {
				opts.onMergedFrame(typedEvent.Frame)
			}
		case events.ImageSelected:
			if opts.onImageSelected != nil {
				opts.onImageSelected(typedEvent.SequenceID, typedEvent.Slot)
			}
		case events.SequenceCompensated:
			if opts.onCompensation != nil {
				opts.onCompensation(typedEvent.Offset)
			}
		case events.ResetScheduled:
			if opts.onResetScheduled != nil {
				opts.onResetScheduled(typedEvent.Reason)
			}
		case events.BufferDrained:
			if opts.onBufferDrained != nil {
				opts.onBufferDrained(typedEvent.Discarded, typedEvent.Reason)
			}
		case events.BackpressureDetected:
			if opts.onBackpressure != nil {
				opts.onBackpressure()
			}
		case events.DeviceDisconnected:
			if opts.onDisconnect != nil {
				opts.onDisconnect()
			}
		case events.DistortionChanged:
			if opts.onDistortionChange != nil {
				opts.onDistortionChange(typedEvent.Slot)
			}
		case events.ResourceRebuilt:
			if opts.onResourceRebuilt != nil {
				opts.onResourceRebuilt(typedEvent.Slot, typedEvent.Width, typedEvent.Height)
			}
		}

		if opts.onEvent != nil {
			opts.onEvent(event)
		}
	}
}
