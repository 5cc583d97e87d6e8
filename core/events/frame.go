package events

import "github.com/jverbic/iris-core/core/frames"

const (
	// KindFrameMerged identifies a completed fan-in merge.
	KindFrameMerged Kind = "frame.merged"
	// KindAggregationDisabled identifies a rejected producer graph.
	KindAggregationDisabled Kind = "frame.aggregation_disabled"
)

// FrameMerged carries the tick's merged authoritative frame.
type FrameMerged struct {
	Base
	Frame *frames.Frame
}

// NewFrameMerged creates a frame merged event.
func NewFrameMerged(frame *frames.Frame) FrameMerged {
	return FrameMerged{Base: NewBase(KindFrameMerged), Frame: frame}
}

// AggregationDisabled carries the reason aggregation was refused.
type AggregationDisabled struct {
	Base
	Reason string
}

// NewAggregationDisabled creates an aggregation disabled event.
func NewAggregationDisabled(reason string) AggregationDisabled {
	return AggregationDisabled{Base: NewBase(KindAggregationDisabled), Reason: reason}
}
