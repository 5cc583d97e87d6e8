package device

// Policy names a delivery request toward the device service. Policies are
// requested while actively consuming and released on teardown so the
// service does not produce idle artifacts.
type Policy string

const (
	// PolicyImages requests raw camera image delivery.
	PolicyImages Policy = "images"
	// PolicyOptimizeLatency requests the service favor delivery latency
	// over batching.
	PolicyOptimizeLatency Policy = "optimize_latency"
)

// Info describes the currently connected device.
type Info struct {
	ID   string
	Type string
	// Slots is the number of camera slots the device exposes.
	Slots int
}

// Controller is the connection-management collaborator. Connection
// lifecycle itself is managed elsewhere; this core only requests and
// releases delivery policies around its active lifetime.
type Controller interface {
	CurrentDevice() (Info, bool)
	SetPolicy(policy Policy) error
	ClearPolicy(policy Policy) error
}
