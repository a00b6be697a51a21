package tools

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

// Dispatched is the outcome of one tool call. Dispatch never returns
// an error: failures are downgraded into a single status block so the
// turn always completes with renderable output. Handled reports
// whether the call's blocks were actually delivered downstream.
type Dispatched struct {
	Call     Call
	Handled  bool
	Summary  string
	Blocks   blocks.List
	Output   interface{}
	Err      string
	Duration time.Duration
}

// Dispatcher resolves and executes tool calls against a registry.
type Dispatcher struct {
	registry    Registry
	timeout     time.Duration
	maxParallel int
}

type DispatcherOption func(*Dispatcher)

// WithCallTimeout bounds each individual tool call.
func WithCallTimeout(d time.Duration) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.timeout = d
	}
}

// WithMaxParallel bounds concurrent calls in DispatchBatch.
func WithMaxParallel(n int) DispatcherOption {
	return func(dp *Dispatcher) {
		dp.maxParallel = n
	}
}

func NewDispatcher(registry Registry, opts ...DispatcherOption) *Dispatcher {
	dp := &Dispatcher{
		registry:    registry,
		timeout:     30 * time.Second,
		maxParallel: 4,
	}
	for _, opt := range opts {
		opt(dp)
	}
	return dp
}

// Dispatch executes one call. The tool's blocks are delivered through
// onBlocks exactly once per call: either by the tool itself via
// Context.StreamBlocks, or by the dispatcher after the tool returns.
func (dp *Dispatcher) Dispatch(ctx context.Context, tc *Context, call Call, onBlocks BlockHandler) (out Dispatched) {
	start := time.Now()
	out.Call = call

	cc := tc.forCall(call.Name, onBlocks)

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("tool", call.Name).
				Interface("panic", r).
				Msg("tool call panicked")
			out = dp.fail(cc, call, errors.Errorf("%v", r), onBlocks)
		}
		out.Duration = time.Since(start)
	}()

	def, err := dp.registry.Get(call.Name)
	if err != nil {
		return dp.fail(cc, call, err, onBlocks)
	}

	callCtx := ctx
	if dp.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, dp.timeout)
		defer cancel()
	}

	res, err := def.Invoke(callCtx, cc, call.Arguments)
	if err != nil {
		return dp.fail(cc, call, err, onBlocks)
	}

	// Streamed blocks already reached the client; only the remainder
	// goes out now. The final response carries both.
	all := append(blocks.List{}, cc.collected...)
	all = append(all, res.Blocks...)

	// onBlocks fires exactly once per call even when the tool returned
	// no blocks, so every open tool_start gets its tool_result.
	handled := cc.streamed
	if !cc.streamed && onBlocks != nil {
		if onBlocks(call.Name, res.Blocks) {
			handled = true
		}
	}

	out.Handled = handled
	out.Summary = res.Summary
	out.Blocks = all
	out.Output = res.OutputForModel
	return out
}

// DispatchBatch executes calls with bounded parallelism, preserving
// input order in the results.
func (dp *Dispatcher) DispatchBatch(ctx context.Context, tc *Context, calls []Call, onBlocks BlockHandler) []Dispatched {
	results := make([]Dispatched, len(calls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dp.maxParallel)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = dp.Dispatch(gctx, tc, call, onBlocks)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (dp *Dispatcher) fail(cc *Context, call Call, err error, onBlocks BlockHandler) Dispatched {
	msg := stripErrorMessage(err)
	log.Warn().
		Str("tool", call.Name).
		Err(err).
		Msg("tool call failed, downgrading to status block")

	errBlocks := blocks.List{blocks.NewErrorStatus(msg)}
	all := append(blocks.List{}, cc.collected...)
	all = append(all, errBlocks...)

	handled := cc.streamed
	if onBlocks != nil && onBlocks(call.Name, errBlocks) {
		handled = true
	}

	return Dispatched{
		Call:    call,
		Handled: handled,
		Blocks:  all,
		Err:     msg,
	}
}

var rePathToken = regexp.MustCompile(`\S*[/\\]\S*`)

// stripErrorMessage reduces an internal error to something safe to
// show a user: first line only, no filesystem paths, bounded length.
func stripErrorMessage(err error) string {
	if err == nil {
		return "unknown error"
	}
	msg := err.Error()
	if idx := strings.IndexByte(msg, '\n'); idx >= 0 {
		msg = msg[:idx]
	}
	msg = rePathToken.ReplaceAllString(msg, "")
	msg = strings.Join(strings.Fields(msg), " ")
	if msg == "" {
		msg = "unknown error"
	}
	if len(msg) > 300 {
		msg = msg[:300]
	}
	return msg
}
