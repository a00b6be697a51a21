package tools

import (
	"context"
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"

	"github.com/go-go-golems/repcoach/pkg/blocks"
)

// Result is what a tool hands back to the dispatcher: a short text
// summary for the model, UI blocks for the client, and a compact
// structured payload fed back into the model transcript.
type Result struct {
	Summary        string      `json:"summary"`
	Blocks         blocks.List `json:"blocks,omitempty"`
	OutputForModel interface{} `json:"outputForModel,omitempty"`
}

// Call is one requested tool invocation.
type Call struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// Definition describes one callable coach tool. The parameter schema
// is reflected from the handler's argument struct at construction and
// compiled once for argument validation.
type Definition struct {
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Parameters  *jsonschema.Schema `json:"parameters"`

	argType   reflect.Type
	validator *gojsonschema.Schema
	fnValue   reflect.Value
}

var (
	ctxType     = reflect.TypeOf((*context.Context)(nil)).Elem()
	toolCtxType = reflect.TypeOf((*Context)(nil))
	resultType  = reflect.TypeOf((*Result)(nil))
	errType     = reflect.TypeOf((*error)(nil)).Elem()
)

// NewTool builds a Definition from a handler of the form
//
//	func(ctx context.Context, tc *tools.Context, args ArgsStruct) (*tools.Result, error)
//
// where ArgsStruct is any JSON-taggable struct.
func NewTool(name, description string, fn interface{}) (*Definition, error) {
	if name == "" {
		return nil, errors.New("tool name cannot be empty")
	}
	ft := reflect.TypeOf(fn)
	if ft == nil || ft.Kind() != reflect.Func {
		return nil, errors.Errorf("tool %s: handler is not a function", name)
	}
	if ft.NumIn() != 3 || ft.In(0) != ctxType || ft.In(1) != toolCtxType || ft.In(2).Kind() != reflect.Struct {
		return nil, errors.Errorf("tool %s: handler must be func(context.Context, *tools.Context, ArgsStruct)", name)
	}
	if ft.NumOut() != 2 || ft.Out(0) != resultType || !ft.Out(1).Implements(errType) {
		return nil, errors.Errorf("tool %s: handler must return (*tools.Result, error)", name)
	}

	argType := ft.In(2)
	reflector := jsonschema.Reflector{
		// Expand definitions inline instead of using $refs; model
		// providers do not resolve them.
		DoNotReference: true,
	}
	schema := reflector.Reflect(reflect.New(argType).Elem().Interface())
	if schema.Type == "" && schema.Ref == "" {
		schema.Type = "object"
	}

	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, errors.Wrapf(err, "tool %s: could not marshal parameter schema", name)
	}
	validator, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, errors.Wrapf(err, "tool %s: could not compile parameter schema", name)
	}

	return &Definition{
		Name:        name,
		Description: description,
		Parameters:  schema,
		argType:     argType,
		validator:   validator,
		fnValue:     reflect.ValueOf(fn),
	}, nil
}

// MustTool is NewTool that panics; for static tool tables built at
// process start.
func MustTool(name, description string, fn interface{}) *Definition {
	def, err := NewTool(name, description, fn)
	if err != nil {
		panic(err)
	}
	return def
}

// Invoke validates rawArgs against the compiled schema, decodes them
// into the handler's argument struct, and calls the handler.
func (d *Definition) Invoke(ctx context.Context, tc *Context, rawArgs json.RawMessage) (*Result, error) {
	if len(rawArgs) == 0 {
		rawArgs = json.RawMessage(`{}`)
	}

	vr, err := d.validator.Validate(gojsonschema.NewBytesLoader(rawArgs))
	if err != nil {
		return nil, errors.Wrapf(err, "tool %s: arguments are not valid JSON", d.Name)
	}
	if !vr.Valid() {
		msgs := make([]string, 0, len(vr.Errors()))
		for _, verr := range vr.Errors() {
			msgs = append(msgs, verr.String())
		}
		return nil, errors.Errorf("tool %s: invalid arguments: %s", d.Name, strings.Join(msgs, "; "))
	}

	argsPtr := reflect.New(d.argType)
	if err := json.Unmarshal(rawArgs, argsPtr.Interface()); err != nil {
		return nil, errors.Wrapf(err, "tool %s: could not decode arguments", d.Name)
	}

	out := d.fnValue.Call([]reflect.Value{
		reflect.ValueOf(ctx),
		reflect.ValueOf(tc),
		argsPtr.Elem(),
	})
	if errv := out[1].Interface(); errv != nil {
		return nil, errv.(error)
	}
	res, _ := out[0].Interface().(*Result)
	if res == nil {
		res = &Result{}
	}
	return res, nil
}
