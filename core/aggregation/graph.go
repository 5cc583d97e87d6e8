package aggregation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Node is a participant in the "reads frames from" producer graph. Every
// aggregator and leaf producer carries a stable identifier so validation
// runs over ids rather than live object identity.
type Node interface {
	AggregationID() string
	FrameProviders() []Node
}

// ErrCyclicGraph reports a producer graph that would deadlock the barrier.
var ErrCyclicGraph = errors.New("aggregation: cyclic producer graph")

type leaf struct {
	id   string
	name string
}

// Leaf returns a terminal graph node for a plain frame producer.
func Leaf(name string) Node {
	return leaf{id: uuid.NewString(), name: name}
}

func (l leaf) AggregationID() string  { return l.id }
func (l leaf) FrameProviders() []Node { return nil }

// Validate walks the producer graph from root and rejects cycles before
// they can deadlock the barrier. It runs once at setup, never per tick.
//
// Direct providers that are themselves aggregators draw a non-fatal
// advisory: nested aggregation compounds latency without being
// structurally wrong.
func Validate(root Node) error {
	for _, provider := range root.FrameProviders() {
		if len(provider.FrameProviders()) > 0 {
			logger.Warn("direct provider is itself an aggregator; nested aggregation compounds latency",
				"root", root.AggregationID(), "provider", provider.AggregationID())
		}
	}

	// Iterative depth-first search with an explicit on-path set; a
	// revisited on-path node is a cycle.
	type visit struct {
		node    Node
		leaving bool
	}

	onPath := map[string]bool{}
	done := map[string]bool{}
	stack := []visit{{node: root}}

	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		id := current.node.AggregationID()
		if current.leaving {
			delete(onPath, id)
			done[id] = true
			continue
		}

		if onPath[id] {
			return fmt.Errorf("%w: node %s revisited on its own path", ErrCyclicGraph, id)
		}
		if done[id] {
			continue
		}

		onPath[id] = true
		stack = append(stack, visit{node: current.node, leaving: true})
		for _, provider := range current.node.FrameProviders() {
			stack = append(stack, visit{node: provider})
		}
	}

	return nil
}
