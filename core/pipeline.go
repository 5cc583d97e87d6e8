// Package pipeline composes the sensor synchronization core: a device
// source feeding a sequenced image ring buffer and a fan-in frame
// aggregation barrier, reconciled once per tick into a consistent
// frame/resource pair for the rendering collaborator.
package pipeline

import (
	"context"
	"sync"

	"github.com/jverbic/iris-core/core/aggregation"
	"github.com/jverbic/iris-core/core/device"
	"github.com/jverbic/iris-core/core/events"
	"github.com/jverbic/iris-core/core/frames"
	"github.com/jverbic/iris-core/core/images"
	"github.com/jverbic/iris-core/core/render"
)

// ResetReasonDisconnect marks drains scheduled because the producer
// service went away.
const ResetReasonDisconnect = "device_disconnected"

// Pipeline owns the tick-side state: ring buffer consumer, reconciler,
// resource cache, and (optionally) an aggregation barrier it drives.
// Background producer events arrive through the attached [device.Source];
// the host calls TickVariable/TickFixed once per corresponding update
// step.
type Pipeline struct {
	config     Config
	source     *device.Source
	controller device.Controller
	barrier    *aggregation.Barrier

	ring       *images.Ring
	reconciler *images.Reconciler
	cache      *render.Cache

	mu             sync.Mutex
	emit           eventEmitter
	currentFrame   *frames.Frame
	deviceProducer *aggregation.ProducerHandle
	subscriptions  []device.Subscription
	running        bool
	ticks          uint64

	closeOnce   sync.Once
	baseContext context.Context
}

func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		config:      DefaultConfig(),
		emit:        noopEventEmitter,
		baseContext: context.Background(),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.ring = images.NewRing(p.config.RingCapacity)
	p.reconciler = images.NewReconciler(p.ring,
		images.OnCompensation(func(offset int64) {
			p.emitEvent(events.NewSequenceCompensated(offset))
		}),
		images.OnResetScheduled(func(reason string) {
			p.emitEvent(events.NewResetScheduled(reason))
		}),
		images.OnDrain(func(discarded int, reason string) {
			p.emitEvent(events.NewBufferDrained(discarded, reason))
		}),
	)
	p.cache = render.NewCache(p.config.SlotCount, render.WithMasking(render.Masking{
		Enabled:     p.config.BorderMasking,
		DeviceTypes: p.config.MaskedDeviceTypes,
	}))

	return p
}

// Run subscribes to the producer source, activates aggregation, and
// requests image delivery. ctx is used as the base context for the
// pipeline's lifetime.
//
// Contract: call Run at most once per pipeline instance.
func (p *Pipeline) Run(ctx context.Context, opts ...RunOption) error {
	options := RunOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		logger.Warn("pipeline already running, skipping Run")
		return nil
	}
	p.emit = newCallbackEventEmitter(options)
	p.baseContext = ctx
	p.mu.Unlock()

	if p.barrier != nil {
		if err := p.activateAggregation(); err != nil {
			return err
		}
	}

	if p.source != nil {
		p.subscribe()
	}

	if p.controller != nil {
		if err := p.controller.SetPolicy(device.PolicyImages); err != nil {
			logger.Warn("failed to request image delivery policy", "error", err)
		} else {
			p.emitEvent(events.NewDeliveryPolicyChanged(string(device.PolicyImages), true))
		}
	}

	p.mu.Lock()
	p.running = true
	p.mu.Unlock()
	return nil
}

func (p *Pipeline) activateAggregation() error {
	producer, err := p.barrier.Register("device")
	if err != nil {
		// Host-wired barriers may already be sealed; device frames then
		// flow through the host's own producers.
		logger.Warn("device producer not registered with barrier", "error", err)
	} else {
		p.mu.Lock()
		p.deviceProducer = producer
		p.mu.Unlock()
	}

	p.barrier.SetMergedCallback(func(frame *frames.Frame) {
		p.emitEvent(events.NewFrameMerged(frame))
	})

	if err := p.barrier.Activate(); err != nil {
		p.emitEvent(events.NewAggregationDisabled(err.Error()))
		return err
	}
	return nil
}

func (p *Pipeline) subscribe() {
	subs := []device.Subscription{
		p.source.SubscribeImages(func(image *images.Image) {
			if !p.ring.Enqueue(image) {
				p.reconciler.NoteBackpressure()
				p.emitEvent(events.NewBackpressureDetected())
			}
		}),
		p.source.SubscribeFrames(func(frame *frames.Frame) {
			p.mu.Lock()
			producer := p.deviceProducer
			if producer == nil {
				p.currentFrame = frame
			}
			p.mu.Unlock()

			if producer != nil {
				producer.Publish(frame)
			}
		}),
		p.source.SubscribeDisconnect(func() {
			p.reconciler.ScheduleReset(ResetReasonDisconnect)
			p.emitEvent(events.NewDeviceDisconnected())
		}),
		p.source.SubscribeDistortionChange(func(slot int) {
			p.cache.MarkStale(slot)
			p.emitEvent(events.NewDistortionChanged(slot))
		}),
	}

	p.mu.Lock()
	p.subscriptions = subs
	p.mu.Unlock()
}

// TickResult is what one tick handed to the rendering collaborator.
type TickResult struct {
	// Frame is the tick's authoritative frame; possibly the previous
	// tick's merge when a producer missed this tick, nil before the
	// first frame arrives.
	Frame *frames.Frame
	// Image is the image adopted this tick, nil when none was eligible.
	Image *images.Image
}

// TickVariable runs the render-rate update phase.
func (p *Pipeline) TickVariable() TickResult {
	return p.tick(aggregation.PhaseVariable)
}

// TickFixed runs the fixed-timestep update phase.
func (p *Pipeline) TickFixed() TickResult {
	return p.tick(aggregation.PhaseFixed)
}

func (p *Pipeline) tick(phase aggregation.Phase) TickResult {
	p.mu.Lock()
	p.ticks++
	emit := p.emit
	frame := p.currentFrame
	p.mu.Unlock()

	if p.barrier != nil {
		frame = p.barrier.PhaseFrame(phase)
		p.barrier.BeginTick(phase)
	}
	if frame == nil {
		return TickResult{}
	}

	image, ok := p.reconciler.Select(frame.ID)
	if !ok {
		return TickResult{Frame: frame}
	}

	slot := image.Slot
	descriptor := image.Descriptor
	if p.cache.IsStale(slot, descriptor) {
		if err := p.cache.Reconstruct(slot, descriptor); err != nil {
			logger.Error("failed to reconstruct slot resource", "slot", slot, "error", err)
			emit(events.NewUpdateSkipped(slot, err.Error()))
			return TickResult{Frame: frame}
		}
		emit(events.NewResourceRebuilt(slot, descriptor.Width, descriptor.Height))
	}

	if err := p.cache.Update(slot, image.Data); err != nil {
		emit(events.NewUpdateSkipped(slot, err.Error()))
		return TickResult{Frame: frame}
	}

	emit(events.NewImageSelected(image.SequenceID, slot))
	return TickResult{Frame: frame, Image: image}
}

// CurrentFrame returns the latest authoritative frame without advancing
// the tick. Never torn mid-update: frames are replaced wholesale.
func (p *Pipeline) CurrentFrame() *frames.Frame {
	if p.barrier != nil {
		return p.barrier.CurrentFrame()
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.currentFrame
}

// CurrentResource returns the slot's reconstructed resource for upload,
// or nil when the slot is unconstructed.
func (p *Pipeline) CurrentResource(slot int) *render.Resource {
	return p.cache.Resource(slot)
}

// Aggregator returns the attached barrier, if any.
func (p *Pipeline) Aggregator() *aggregation.Barrier {
	return p.barrier
}

// Close unsubscribes from the producer source and releases the image
// delivery policy so the service stops producing for an idle consumer.
func (p *Pipeline) Close() {
	p.closeOnce.Do(func() {
		p.mu.Lock()
		subs := p.subscriptions
		p.subscriptions = nil
		p.running = false
		p.mu.Unlock()

		for _, sub := range subs {
			sub.Cancel()
		}

		if p.controller != nil {
			if err := p.controller.ClearPolicy(device.PolicyImages); err != nil {
				logger.Warn("failed to release image delivery policy", "error", err)
			} else {
				p.emitEvent(events.NewDeliveryPolicyChanged(string(device.PolicyImages), false))
			}
		}
	})
}

func (p *Pipeline) emitEvent(event events.Event) {
	p.mu.Lock()
	emit := p.emit
	p.mu.Unlock()
	emit(event)
}
