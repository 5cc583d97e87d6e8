package events

const (
	// KindDeviceDisconnected identifies a lost producer service.
	KindDeviceDisconnected Kind = "device.disconnected"
	// KindDistortionChanged identifies a device calibration change.
	KindDistortionChanged Kind = "device.distortion_changed"
	// KindDeliveryPolicyChanged identifies a delivery policy request/release.
	KindDeliveryPolicyChanged Kind = "device.policy_changed"
)

// DeviceDisconnected marks the producer service going away.
type DeviceDisconnected struct{ Base }

// NewDeviceDisconnected creates a device disconnected event.
func NewDeviceDisconnected() DeviceDisconnected {
	return DeviceDisconnected{Base: NewBase(KindDeviceDisconnected)}
}

// DistortionChanged carries the slot whose calibration changed.
type DistortionChanged struct {
	Base
	Slot int
}

// NewDistortionChanged creates a distortion changed event.
func NewDistortionChanged(slot int) DistortionChanged {
	return DistortionChanged{Base: NewBase(KindDistortionChanged), Slot: slot}
}

// DeliveryPolicyChanged carries the policy and whether it was requested
// (true) or released (false).
type DeliveryPolicyChanged struct {
	Base
	Policy    string
	Requested bool
}

// NewDeliveryPolicyChanged creates a delivery policy changed event.
func NewDeliveryPolicyChanged(policy string, requested bool) DeliveryPolicyChanged {
	return DeliveryPolicyChanged{Base: NewBase(KindDeliveryPolicyChanged), Policy: policy, Requested: requested}
}
