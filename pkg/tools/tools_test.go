package tools

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

type echoArgs struct {
	Text  string `json:"text,omitempty"`
	Count int    `json:"count,omitempty"`
}

func echoTool(t *testing.T) *Definition {
	t.Helper()
	def, err := NewTool("echo", "Echoes its input.", func(ctx context.Context, tc *Context, args echoArgs) (*Result, error) {
		return &Result{
			Summary:        args.Text,
			Blocks:         blocks.List{blocks.NewStatus(blocks.ToneInfo, args.Text, "")},
			OutputForModel: map[string]interface{}{"text": args.Text, "count": args.Count},
		}, nil
	})
	require.NoError(t, err)
	return def
}

func TestNewTool_RejectsBadSignatures(t *testing.T) {
	cases := []struct {
		name string
		fn   interface{}
	}{
		{"not a function", 42},
		{"missing tool context", func(ctx context.Context, args echoArgs) (*Result, error) { return nil, nil }},
		{"non-struct args", func(ctx context.Context, tc *Context, args string) (*Result, error) { return nil, nil }},
		{"wrong result type", func(ctx context.Context, tc *Context, args echoArgs) (string, error) { return "", nil }},
		{"missing error return", func(ctx context.Context, tc *Context, args echoArgs) *Result { return nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewTool("bad", "", tc.fn)
			assert.Error(t, err)
		})
	}
}

func TestDefinition_InvokeValidatesArguments(t *testing.T) {
	def := echoTool(t)

	res, err := def.Invoke(context.Background(), &Context{}, json.RawMessage(`{"text":"hi","count":3}`))
	require.NoError(t, err)
	assert.Equal(t, "hi", res.Summary)

	// Type mismatch is caught by the compiled schema, not by decoding.
	_, err = def.Invoke(context.Background(), &Context{}, json.RawMessage(`{"text":"hi","count":"three"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid arguments")

	// Missing arguments default to the zero struct.
	res, err = def.Invoke(context.Background(), &Context{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "", res.Summary)
}

type blockRecorder struct {
	mu    sync.Mutex
	calls []string
	all   blocks.List
}

func (r *blockRecorder) handle(toolName string, bl blocks.List) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, toolName)
	r.all = append(r.all, bl...)
	return true
}

func TestDispatcher_Dispatch(t *testing.T) {
	reg := NewInMemoryRegistry()
	require.NoError(t, reg.Register(echoTool(t)))
	dp := NewDispatcher(reg)

	rec := &blockRecorder{}
	out := dp.Dispatch(context.Background(), &Context{UserID: "u1"}, Call{
		ID:        "c1",
		Name:      "echo",
		Arguments: json.RawMessage(`{"text":"logged"}`),
	}, rec.handle)

	assert.True(t, out.Handled)
	assert.Empty(t, out.Err)
	assert.Equal(t, "logged", out.Summary)
	require.Len(t, out.Blocks, 1)
	assert.Equal(t, []string{"echo"}, rec.calls)
}

func TestDispatcher_UnknownToolBecomesErrorBlock(t *testing.T) {
	dp := NewDispatcher(NewInMemoryRegistry())

	rec := &blockRecorder{}
	out := dp.Dispatch(context.Background(), &Context{}, Call{Name: "nope"}, rec.handle)

	assert.True(t, out.Handled)
	assert.NotEmpty(t, out.Err)
	require.Len(t, out.Blocks, 1)
	st, ok := out.Blocks[0].(*blocks.Status)
	require.True(t, ok)
	assert.Equal(t, blocks.ToneError, st.Tone)
}

func TestDispatcher_FailureIsDowngradedAndStripped(t *testing.T) {
	reg := NewInMemoryRegistry()
	def, err := NewTool("boom", "", func(ctx context.Context, tc *Context, args struct{}) (*Result, error) {
		return nil, errors.New("open /var/lib/repcoach/data.db: permission denied\nstack trace follows")
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(def))
	dp := NewDispatcher(reg)

	out := dp.Dispatch(context.Background(), &Context{}, Call{Name: "boom"}, nil)

	assert.False(t, out.Handled) // no block handler was given
	assert.NotContains(t, out.Err, "/var/lib")
	assert.NotContains(t, out.Err, "\n")
	require.Len(t, out.Blocks, 1)
	st, ok := out.Blocks[0].(*blocks.Status)
	require.True(t, ok)
	assert.Equal(t, blocks.ToneError, st.Tone)
	assert.Equal(t, "Tool failed", st.Title)
}

func TestDispatcher_RecoversFromPanic(t *testing.T) {
	reg := NewInMemoryRegistry()
	def, err := NewTool("panicky", "", func(ctx context.Context, tc *Context, args struct{}) (*Result, error) {
		panic("nil deref somewhere deep")
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(def))
	dp := NewDispatcher(reg)

	rec := &blockRecorder{}
	out := dp.Dispatch(context.Background(), &Context{}, Call{Name: "panicky"}, rec.handle)

	assert.True(t, out.Handled)
	assert.Contains(t, out.Err, "nil deref")
	require.Len(t, out.Blocks, 1)
}

func TestDispatcher_StreamedBlocksAreNotDeliveredTwice(t *testing.T) {
	reg := NewInMemoryRegistry()
	streamed := blocks.List{blocks.NewStatus(blocks.ToneInfo, "partial", "")}
	def, err := NewTool("streamer", "", func(ctx context.Context, tc *Context, args struct{}) (*Result, error) {
		tc.StreamBlocks(streamed)
		return &Result{Summary: "done"}, nil
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(def))
	dp := NewDispatcher(reg)

	rec := &blockRecorder{}
	out := dp.Dispatch(context.Background(), &Context{}, Call{Name: "streamer"}, rec.handle)

	assert.True(t, out.Handled)
	// One delivery from inside the tool, none from the dispatcher.
	assert.Equal(t, []string{"streamer"}, rec.calls)
	// The final response still carries the streamed blocks.
	require.Len(t, out.Blocks, 1)
}

func TestDispatcher_BlocklessSuccessStillDeliversResult(t *testing.T) {
	reg := NewInMemoryRegistry()
	def, err := NewTool("quiet", "", func(ctx context.Context, tc *Context, args struct{}) (*Result, error) {
		return &Result{Summary: "nothing to show"}, nil
	})
	require.NoError(t, err)
	require.NoError(t, reg.Register(def))
	dp := NewDispatcher(reg)

	rec := &blockRecorder{}
	out := dp.Dispatch(context.Background(), &Context{}, Call{Name: "quiet"}, rec.handle)

	assert.True(t, out.Handled)
	assert.Empty(t, out.Err)
	assert.Empty(t, out.Blocks)
	// The handler still fires once so the result event is not lost.
	assert.Equal(t, []string{"quiet"}, rec.calls)
}

func TestDispatcher_BatchPreservesOrder(t *testing.T) {
	reg := NewInMemoryRegistry()
	require.NoError(t, reg.Register(echoTool(t)))
	dp := NewDispatcher(reg, WithMaxParallel(2))

	calls := []Call{
		{Name: "echo", Arguments: json.RawMessage(`{"text":"a"}`)},
		{Name: "missing"},
		{Name: "echo", Arguments: json.RawMessage(`{"text":"c"}`)},
	}
	results := dp.DispatchBatch(context.Background(), &Context{}, calls, nil)

	require.Len(t, results, 3)
	assert.Equal(t, "a", results[0].Summary)
	assert.NotEmpty(t, results[1].Err)
	assert.Equal(t, "c", results[2].Summary)
}

func TestRegistry_CloneAndMerge(t *testing.T) {
	base := NewInMemoryRegistry()
	require.NoError(t, base.Register(echoTool(t)))

	cloned := base.Clone()
	other := NewInMemoryRegistry()
	otherDef, err := NewTool("other", "", func(ctx context.Context, tc *Context, args struct{}) (*Result, error) {
		return &Result{}, nil
	})
	require.NoError(t, err)
	require.NoError(t, other.Register(otherDef))

	merged := cloned.Merge(other)
	assert.Equal(t, 2, merged.Count())
	assert.True(t, merged.Has("echo"))
	assert.True(t, merged.Has("other"))
	assert.Equal(t, 1, base.Count())

	names := []string{}
	for _, def := range merged.List() {
		names = append(names, def.Name)
	}
	assert.Equal(t, []string{"echo", "other"}, names)
}
