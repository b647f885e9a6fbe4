package passing

import (
	"github.com/okian/passnet/internal/domain/model"
	"github.com/okian/passnet/pkg/logger"
)

// Default normalization constants.
const (
	DefaultNodeSizeMax   = 25.0
	DefaultEdgeSizeScale = 10.0
	DefaultEdgeSizeCap   = 10.0
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithNodeSizeMax sets the render size of the heaviest node.
func WithNodeSizeMax(v float64) Option {
	return func(a *Aggregator) {
		if v > 0 {
			a.nodeSizeMax = v
		}
	}
}

// WithEdgeSizeScale sets the render size of the heaviest edge before capping.
func WithEdgeSizeScale(v float64) Option {
	return func(a *Aggregator) {
		if v > 0 {
			a.edgeSizeScale = v
		}
	}
}

// WithEdgeSizeCap bounds every edge's render size.
func WithEdgeSizeCap(v float64) Option {
	return func(a *Aggregator) {
		if v > 0 {
			a.edgeSizeCap = v
		}
	}
}

// WithPassTypes sets which event codes count as passes. Known codes outside
// this set are ignored.
func WithPassTypes(types ...model.EventType) Option {
	return func(a *Aggregator) {
		if len(types) == 0 {
			return
		}
		a.passTypes = make(map[model.EventType]struct{}, len(types))
		for _, t := range types {
			a.passTypes[t] = struct{}{}
		}
	}
}

// WithRequireTimestamp controls whether events without an ordering key are
// rejected as invalid.
func WithRequireTimestamp(require bool) Option {
	return func(a *Aggregator) {
		a.requireTimestamp = require
	}
}

// WithLabeler maps player ids to display labels.
func WithLabeler(fn func(id string) string) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.labeler = fn
		}
	}
}

// WithLogger sets the logger used to report skipped events.
func WithLogger(l logger.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.log = l
		}
	}
}
