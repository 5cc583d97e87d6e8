package pipeline

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/jverbic/iris-core/core/aggregation"
)

// Config is the host-facing configuration surface. Hosts typically load
// it from their own settings store; [ConfigSchema] describes the shape
// for inspector tooling.
type Config struct {
	// RingCapacity bounds the image ring buffer.
	RingCapacity int `json:"ringCapacity,omitempty" jsonschema:"minimum=1,default=128"`
	// SlotCount bounds per-device-slot resource memory.
	SlotCount int `json:"slotCount,omitempty" jsonschema:"minimum=1,default=4"`
	// ReusePolicy is one of none, fixed-for-variable, variable-for-fixed.
	ReusePolicy string `json:"reusePolicy,omitempty" jsonschema:"enum=none,enum=fixed-for-variable,enum=variable-for-fixed"`
	// BorderMasking zeroes a fixed-width border of uploaded payloads for
	// the listed device types. Debug aid, off by default.
	BorderMasking     bool     `json:"borderMasking,omitempty"`
	MaskedDeviceTypes []string `json:"maskedDeviceTypes,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		RingCapacity: 128,
		SlotCount:    4,
		ReusePolicy:  aggregation.ReusePolicyNameNone,
	}
}

// BarrierReusePolicy resolves the configured reuse policy name.
func (c Config) BarrierReusePolicy() (aggregation.ReusePolicy, error) {
	policy, err := aggregation.ParseReusePolicy(c.ReusePolicy)
	if err != nil {
		return aggregation.ReuseNone, fmt.Errorf("invalid config: %w", err)
	}
	return policy, nil
}

// ConfigSchema returns the JSON schema of the configuration surface.
func ConfigSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema := reflector.Reflect(&Config{})

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config schema: %w", err)
	}
	return data, nil
}
