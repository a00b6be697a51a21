package events

import (
	"context"
)

// Sink receives stream events as they are emitted during a turn.
type Sink interface {
	PublishEvent(Event) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event) error

func (f SinkFunc) PublishEvent(e Event) error { return f(e) }

// ctxKey is an unexported type for keys defined in this package.
// This prevents collisions with keys defined in other packages.
type ctxKey int

const (
	ctxKeySinks ctxKey = iota
)

// WithSinks attaches one or more sinks to the context so downstream code
// can publish events without threading an emitter everywhere.
func WithSinks(ctx context.Context, sinks ...Sink) context.Context {
	if len(sinks) == 0 {
		return ctx
	}
	existing := SinksFromContext(ctx)
	combined := append([]Sink{}, existing...)
	combined = append(combined, sinks...)
	return context.WithValue(ctx, ctxKeySinks, combined)
}

// SinksFromContext returns the sinks attached to the context, if any.
func SinksFromContext(ctx context.Context) []Sink {
	if v := ctx.Value(ctxKeySinks); v != nil {
		if sinks, ok := v.([]Sink); ok {
			return sinks
		}
	}
	return nil
}
