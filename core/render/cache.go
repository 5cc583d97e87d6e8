package render

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jverbic/iris-core/core/images"
)

// DefaultSlotCount bounds memory for per-device-slot resources.
const DefaultSlotCount = 4

var (
	// ErrInvalidSlot reports a slot index outside the configured bound.
	ErrInvalidSlot = errors.New("render: slot index out of bounds")
	// ErrUnsupportedFormat reports a descriptor outside the supported set.
	ErrUnsupportedFormat = errors.New("render: unsupported image format")
)

// Resource is a reconstructed pixel buffer laid out for upload. It is
// replaced wholesale on reconstruction, never resized in place.
type Resource struct {
	Descriptor images.Descriptor
	Pixels     []byte
}

// RequiredLength returns the payload length a full update must provide.
func (r *Resource) RequiredLength() int {
	return len(r.Pixels)
}

type entry struct {
	resource   *Resource
	forceStale bool

	// fresh marks the first update after a reconstruct, which is always
	// eligible even if the payload runs short.
	fresh bool
}

// Cache holds one reconstructable resource per device slot. Resources are
// owned by the tick goroutine; MarkStale may additionally be called from
// device event handlers, so all state is mutex-guarded.
type Cache struct {
	mu      sync.Mutex
	entries []entry
	masking Masking

	rebuilds uint64
	skips    uint64
}

type CacheOption func(*Cache)

// WithMasking enables debug border masking for the given device types.
func WithMasking(masking Masking) CacheOption {
	return func(c *Cache) { c.masking = masking }
}

// NewCache creates a cache with the given slot bound, falling back to
// [DefaultSlotCount] when slots is not positive.
func NewCache(slots int, opts ...CacheOption) *Cache {
	if slots <= 0 {
		slots = DefaultSlotCount
	}
	c := &Cache{entries: make([]entry, slots)}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SlotCount returns the configured slot bound.
func (c *Cache) SlotCount() int {
	return len(c.entries)
}

// IsStale reports whether the slot must be reconstructed before accepting
// payloads described by desc: no resource yet, differing dimensions or
// format tag, or an explicit stale mark. Out-of-bounds slots are reported
// and treated as not stale so callers skip the tick instead of rebuilding.
func (c *Cache) IsStale(slot int, desc images.Descriptor) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.entries) {
		logger.Error("ignoring staleness check for invalid slot", "slot", slot, "slots", len(c.entries))
		return false
	}

	e := &c.entries[slot]
	if e.resource == nil || e.forceStale {
		return true
	}
	return !e.resource.Descriptor.Matches(desc)
}

// MarkStale force-marks a slot for reconstruction on its next staleness
// check. Out-of-bounds slots are reported and ignored.
func (c *Cache) MarkStale(slot int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.entries) {
		logger.Error("ignoring stale mark for invalid slot", "slot", slot, "slots", len(c.entries))
		return
	}
	c.entries[slot].forceStale = true
}

// MarkAllStale force-marks every slot. Used when device calibration
// changes invalidate all cached resources at once.
func (c *Cache) MarkAllStale() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.entries {
		c.entries[i].forceStale = true
	}
}

// Reconstruct discards the slot's previous resource and allocates a new
// one sized to desc. Unsupported formats are a hard configuration error:
// the slot is left unconstructed and updates skip until a valid descriptor
// arrives.
func (c *Cache) Reconstruct(slot int, desc images.Descriptor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.entries) {
		return fmt.Errorf("%w: %d (have %d slots)", ErrInvalidSlot, slot, len(c.entries))
	}
	if !desc.Format.Supported() {
		c.entries[slot].resource = nil
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, desc.Format)
	}

	// Previous resource is dropped wholesale; dimensions are never
	// mutated on a live buffer.
	c.entries[slot] = entry{
		resource: &Resource{
			Descriptor: desc,
			Pixels:     make([]byte, desc.RequiredLength()),
		},
		fresh: true,
	}
	c.rebuilds++
	return nil
}

// Update copies payload bytes into the slot's resource.
//
// A payload shorter than the resource requires is a benign skip, expected
// transiently when multiple consumers drain the same upstream faster than
// the producer refills. The first update after a reconstruct is always
// eligible and copies what is available.
func (c *Cache) Update(slot int, payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.entries) {
		return fmt.Errorf("%w: %d (have %d slots)", ErrInvalidSlot, slot, len(c.entries))
	}

	e := &c.entries[slot]
	if e.resource == nil {
		c.skips++
		return nil
	}
	if !e.fresh && len(payload) < e.resource.RequiredLength() {
		c.skips++
		return nil
	}
	e.fresh = false

	copy(e.resource.Pixels, payload)
	c.maskLocked(e.resource)
	return nil
}

// Resource returns the slot's current resource, or nil when the slot is
// unconstructed or out of bounds. The returned buffer is only mutated by
// the tick goroutine during its own turn.
func (c *Cache) Resource(slot int) *Resource {
	c.mu.Lock()
	defer c.mu.Unlock()

	if slot < 0 || slot >= len(c.entries) {
		return nil
	}
	return c.entries[slot].resource
}

// Rebuilds returns the lifetime count of reconstructions.
func (c *Cache) Rebuilds() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rebuilds
}

// Skips returns the lifetime count of benign update skips.
func (c *Cache) Skips() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.skips
}
