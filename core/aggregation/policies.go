package aggregation

import (
	"time"

	"github.com/jverbic/iris-core/core/frames"
)

// MergeFirstTracked picks, per chirality, the first producer's tracked
// hand in registration order. The cheapest policy when producers cover
// disjoint tracking volumes.
func MergeFirstTracked(inputs []*frames.Frame) *frames.Frame {
	out := &frames.Frame{Timestamp: time.Now()}

	for _, input := range inputs {
		if input != nil && input.ID > out.ID {
			out.ID = input.ID
		}
	}

	for _, chirality := range []frames.Chirality{frames.ChiralityLeft, frames.ChiralityRight} {
		for _, input := range inputs {
			hand, ok := input.Hand(chirality)
			if !ok {
				continue
			}
			donor := frames.Frame{Hands: []frames.Hand{hand}}
			out.Hands = append(out.Hands, donor.Clone().Hands[0])
			break
		}
	}

	return out
}

// MergeAveraged averages joint positions across every producer tracking a
// chirality. Smooths disagreement between overlapping tracking volumes at
// the cost of a little latency blur.
func MergeAveraged(inputs []*frames.Frame) *frames.Frame {
	out := &frames.Frame{Timestamp: time.Now()}

	for _, input := range inputs {
		if input != nil && input.ID > out.ID {
			out.ID = input.ID
		}
	}

	for _, chirality := range []frames.Chirality{frames.ChiralityLeft, frames.ChiralityRight} {
		var contributors []frames.Hand
		for _, input := range inputs {
			if hand, ok := input.Hand(chirality); ok {
				contributors = append(contributors, hand)
			}
		}
		if len(contributors) == 0 {
			continue
		}

		merged := frames.Hand{
			Chirality: chirality,
			Joints:    make([]frames.Joint, len(contributors[0].Joints)),
		}
		for j := range merged.Joints {
			var x, y, z float32
			count := 0
			for _, hand := range contributors {
				if j >= len(hand.Joints) {
					continue
				}
				x += hand.Joints[j].X
				y += hand.Joints[j].Y
				z += hand.Joints[j].Z
				count++
			}
			if count == 0 {
				continue
			}
			n := float32(count)
			merged.Joints[j] = frames.Joint{X: x / n, Y: y / n, Z: z / n}
		}
		for _, hand := range contributors {
			merged.Confidence += hand.Confidence
		}
		merged.Confidence /= float32(len(contributors))

		out.Hands = append(out.Hands, merged)
	}

	return out
}
