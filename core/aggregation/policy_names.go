package aggregation

import (
	"errors"
	"fmt"
)

// Configuration-surface names for the reuse policies.
const (
	ReusePolicyNameNone             = "none"
	ReusePolicyNameFixedForVariable = "fixed-for-variable"
	ReusePolicyNameVariableForFixed = "variable-for-fixed"
)

// ErrUnknownReusePolicy reports an unrecognized reuse policy name.
var ErrUnknownReusePolicy = errors.New("aggregation: unknown reuse policy")

// ParseReusePolicy maps a configuration-surface name to a policy.
func ParseReusePolicy(name string) (ReusePolicy, error) {
	switch name {
	case "", ReusePolicyNameNone:
		return ReuseNone, nil
	case ReusePolicyNameFixedForVariable:
		return ReuseFixedForVariable, nil
	case ReusePolicyNameVariableForFixed:
		return ReuseVariableForFixed, nil
	}
	return ReuseNone, fmt.Errorf("%w: %q", ErrUnknownReusePolicy, name)
}
