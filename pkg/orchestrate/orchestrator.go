// Package orchestrate turns one validated Turn Request into one Turn
// Response, streaming progress events along the way. Two strategies
// produce the same wire contract: a model-driven agent loop and a
// deterministic rule-based fallback.
package orchestrate

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/repcoach/pkg/chat"
	"github.com/go-go-golems/repcoach/pkg/engine"
	"github.com/go-go-golems/repcoach/pkg/events"
	"github.com/go-go-golems/repcoach/pkg/tools"
)

// HealthProbe reports whether the model collaborator is usable right
// now. Selection logic beyond this single check is the caller's
// concern.
type HealthProbe func(ctx context.Context) bool

type Orchestrator struct {
	registry      tools.Registry
	dispatcher    *tools.Dispatcher
	eng           engine.Engine
	probe         HealthProbe
	sinks         []events.Sink
	systemPrompt  string
	maxIterations int
	now           func() time.Time
}

type Option func(*Orchestrator)

func WithRegistry(reg tools.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = reg
	}
}

func WithDispatcher(dp *tools.Dispatcher) Option {
	return func(o *Orchestrator) {
		o.dispatcher = dp
	}
}

// WithEngine enables the agent strategy. Without an engine every turn
// runs deterministically.
func WithEngine(eng engine.Engine) Option {
	return func(o *Orchestrator) {
		o.eng = eng
	}
}

func WithHealthProbe(probe HealthProbe) Option {
	return func(o *Orchestrator) {
		o.probe = probe
	}
}

// WithSinks adds event sinks applied to every turn, in addition to any
// sinks carried by the request context.
func WithSinks(sinks ...events.Sink) Option {
	return func(o *Orchestrator) {
		o.sinks = append(o.sinks, sinks...)
	}
}

func WithSystemPrompt(prompt string) Option {
	return func(o *Orchestrator) {
		o.systemPrompt = prompt
	}
}

func WithMaxIterations(n int) Option {
	return func(o *Orchestrator) {
		o.maxIterations = n
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

func New(opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		maxIterations: 4,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.registry == nil {
		return nil, errors.New("orchestrator needs a tool registry")
	}
	if o.dispatcher == nil {
		o.dispatcher = tools.NewDispatcher(o.registry)
	}
	return o, nil
}

// RunTurn executes one conversation turn for the identified user. The
// request is validated first; an invalid request is rejected before
// any event is emitted. Event sinks from the context (see
// events.WithSinks) receive the start/tool/terminal sequence.
func (o *Orchestrator) RunTurn(ctx context.Context, userID string, req *chat.TurnRequest) (*chat.TurnResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	turnID := uuid.NewString()
	sinks := append([]events.Sink{}, o.sinks...)
	sinks = append(sinks, events.SinksFromContext(ctx)...)
	em := events.NewEmitter(turnID, sinks...)

	tc := o.toolContext(userID, turnID, req)

	useAgent := o.eng != nil && (o.probe == nil || o.probe(ctx))
	model := chat.FallbackModel
	if useAgent {
		model = o.eng.Model()
	}
	log.Debug().
		Str("turn_id", turnID).
		Str("user_id", userID).
		Bool("agent", useAgent).
		Msg("turn started")
	em.Start(model)

	if useAgent {
		resp, err := runAgent(ctx, o.eng, o.dispatcher, o.registry, tc, req, em, o.systemPrompt, o.maxIterations)
		if err == nil {
			if verr := resp.Validate(); verr != nil {
				err = errors.Wrap(verr, "agent produced an invalid response")
			}
		}
		if err != nil {
			log.Warn().Err(err).Str("turn_id", turnID).Msg("agent strategy failed")
			em.Error("The coach is unavailable right now.")
			return nil, err
		}
		em.Final(resp)
		return resp, nil
	}

	resp := runDeterministic(ctx, o.dispatcher, tc, req, em)
	em.Final(resp)
	return resp, nil
}

func (o *Orchestrator) toolContext(userID, turnID string, req *chat.TurnRequest) *tools.Context {
	tc := &tools.Context{
		UserID:       userID,
		TurnID:       turnID,
		Unit:         req.Preferences.Unit,
		SoundEnabled: req.Preferences.SoundEnabled,
		Now:          o.now().UTC(),
	}
	if tz := req.Preferences.TimezoneOffsetMinutes; tz != nil {
		tc.TimezoneOffsetMinutes = *tz
	}
	return tc
}
