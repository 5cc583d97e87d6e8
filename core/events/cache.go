package events

const (
	// KindResourceRebuilt identifies a reconstructed slot resource.
	KindResourceRebuilt Kind = "cache.resource_rebuilt"
	// KindUpdateSkipped identifies a skipped slot update.
	KindUpdateSkipped Kind = "cache.update_skipped"
)

// ResourceRebuilt carries the slot and new dimensions of a reconstructed
// resource.
type ResourceRebuilt struct {
	Base
	Slot   int
	Width  int
	Height int
}

// NewResourceRebuilt creates a resource rebuilt event.
func NewResourceRebuilt(slot, width, height int) ResourceRebuilt {
	return ResourceRebuilt{Base: NewBase(KindResourceRebuilt), Slot: slot, Width: width, Height: height}
}

// UpdateSkipped carries the slot and reason an update was skipped.
type UpdateSkipped struct {
	Base
	Slot   int
	Reason string
}

// NewUpdateSkipped creates an update skipped event.
func NewUpdateSkipped(slot int, reason string) UpdateSkipped {
	return UpdateSkipped{Base: NewBase(KindUpdateSkipped), Slot: slot, Reason: reason}
}
