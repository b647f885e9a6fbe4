// Package passing derives a weighted directed passing network from pass events.
package passing

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/pkg/logger"
)

// Aggregator turns an event sequence into a normalized Graph. It holds only
// configuration, so one instance can serve concurrent callers.
type Aggregator struct {
	nodeSizeMax      float64
	edgeSizeScale    float64
	edgeSizeCap      float64
	passTypes        map[model.EventType]struct{}
	requireTimestamp bool
	labeler          func(string) string
	log              logger.Logger
}

// NewAggregator constructs an Aggregator with defaults overridden by opts.
func NewAggregator(opts ...Option) *Aggregator {
	a := &Aggregator{
		nodeSizeMax:   DefaultNodeSizeMax,
		edgeSizeScale: DefaultEdgeSizeScale,
		edgeSizeCap:   DefaultEdgeSizeCap,
		passTypes: map[model.EventType]struct{}{
			model.EventThrow: {},
			model.EventGoal:  {},
		},
		requireTimestamp: true,
		labeler:          func(id string) string { return id },
		log:              logger.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// NodeSizeMax returns the configured maximum node size.
func (a *Aggregator) NodeSizeMax() float64 { return a.nodeSizeMax }

// Aggregate rebuilds the whole graph from events. Nothing is carried over
// between calls. Only throwers become nodes; an edge keeps its receiver even
// when that player never threw, and edge sizes are scaled against the
// heaviest edge overall.
func (a *Aggregator) Aggregate(events []model.PassEvent) Graph {
	nodes := make(map[string]*Node)
	edges := make(map[string]*Edge)
	var maxNodeWeight, maxEdgeWeight int

	g := Graph{}
	for i := range events {
		ev := &events[i]
		if reason, err := a.check(ev); reason != "" {
			if g.Skipped == nil {
				g.Skipped = make(map[string]int)
			}
			g.Skipped[reason]++
			if err != nil {
				g.Invalid++
				a.log.Debug(context.Background(), "skipping pass event",
					logger.Int("index", i),
					logger.String("reason", reason),
					logger.Error(err))
			}
			continue
		}

		n, ok := nodes[ev.Thrower]
		if !ok {
			n = &Node{ID: ev.Thrower, Label: a.labeler(ev.Thrower)}
			nodes[ev.Thrower] = n
		}
		n.Weight++
		if n.Weight > maxNodeWeight {
			maxNodeWeight = n.Weight
		}

		id := EdgeID(ev.Thrower, ev.Receiver)
		e, ok := edges[id]
		if !ok {
			e = &Edge{ID: id, Source: ev.Thrower, Target: ev.Receiver}
			edges[id] = e
		}
		e.Weight++
		if e.Weight > maxEdgeWeight {
			maxEdgeWeight = e.Weight
		}
		g.Passes++
	}

	if maxNodeWeight == 0 {
		return g
	}

	g.Nodes = make([]Node, 0, len(nodes))
	for _, n := range nodes {
		n.Size = float64(n.Weight) / float64(maxNodeWeight) * a.nodeSizeMax
		g.Nodes = append(g.Nodes, *n)
	}
	g.Edges = make([]Edge, 0, len(edges))
	for _, e := range edges {
		e.Size = math.Min(a.edgeSizeCap, float64(e.Weight)/float64(maxEdgeWeight)*a.edgeSizeScale)
		g.Edges = append(g.Edges, *e)
	}

	slices.SortFunc(g.Nodes, func(x, y Node) int { return strings.Compare(x.ID, y.ID) })
	slices.SortFunc(g.Edges, func(x, y Edge) int { return strings.Compare(x.ID, y.ID) })
	return g
}

// check classifies an event. An empty reason means it counts. A non-nil error
// means the event broke its contract; otherwise it was legitimately skipped.
func (a *Aggregator) check(ev *model.PassEvent) (string, error) {
	if !ev.Type.Known() {
		return ReasonUnknownType, fmt.Errorf("%w: unknown type code %d", ErrInvalidEvent, int(ev.Type))
	}
	if _, ok := a.passTypes[ev.Type]; !ok {
		return ReasonNotPass, nil
	}
	if ev.Thrower == "" || ev.Receiver == "" {
		return ReasonMissingPlayer, nil
	}
	if a.requireTimestamp && !ev.HasTimestamp {
		return ReasonMissingTimestamp, fmt.Errorf("%w: %s has no timestamp", ErrInvalidEvent, EdgeID(ev.Thrower, ev.Receiver))
	}
	return "", nil
}
