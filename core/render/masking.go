package render

// Masking zeroes a fixed-width border region of uploaded payloads for
// specific device types. Debug aid for spotting row misalignment in the
// uploaded buffer; off by default.
type Masking struct {
	Enabled     bool
	DeviceTypes []string
}

func (m Masking) applies(deviceType string) bool {
	if !m.Enabled {
		return false
	}
	for _, t := range m.DeviceTypes {
		if t == deviceType {
			return true
		}
	}
	return false
}

// maskLocked zeroes the first and last width bytes of the resource's
// pixel buffer.
func (c *Cache) maskLocked(resource *Resource) {
	if !c.masking.applies(resource.Descriptor.DeviceType) {
		return
	}

	border := resource.Descriptor.Width
	if border <= 0 || border > len(resource.Pixels) {
		return
	}

	for i := 0; i < border; i++ {
		resource.Pixels[i] = 0
	}
	for i := len(resource.Pixels) - border; i < len(resource.Pixels); i++ {
		resource.Pixels[i] = 0
	}
}
