package blocks

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// envelope is the wire form of a block: the variant fields plus a "type"
// discriminator merged into one flat object.
type envelope struct {
	Type Kind `json:"type"`
}

// Marshal serializes a single block with its "type" discriminator.
func Marshal(b Block) ([]byte, error) {
	if b == nil {
		return nil, errors.New("cannot marshal nil block")
	}
	raw, err := json.Marshal(b)
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	kind, err := json.Marshal(b.Kind())
	if err != nil {
		return nil, err
	}
	fields["type"] = kind
	return json.Marshal(fields)
}

// Unmarshal parses a single block, dispatching on the "type" discriminator.
// The payload is validated against the variant's ceilings before it is
// returned, so invalid wire data never enters the system.
func Unmarshal(data []byte) (Block, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errors.Wrap(err, "parse block envelope")
	}

	var b Block
	switch env.Type {
	case KindStatus:
		b = &Status{}
	case KindMetrics:
		b = &Metrics{}
	case KindTrend:
		b = &Trend{}
	case KindTable:
		b = &Table{}
	case KindSuggestions:
		b = &Suggestions{}
	case KindEntityList:
		b = &EntityList{}
	case KindDetailPanel:
		b = &DetailPanel{}
	case KindBillingPanel:
		b = &BillingPanel{}
	case KindQuickLogForm:
		b = &QuickLogForm{}
	case KindConfirmation:
		b = &Confirmation{}
	case KindClientAction:
		b = &ClientAction{}
	case KindUndo:
		b = &Undo{}
	default:
		return nil, errors.Errorf("unknown block type %q", env.Type)
	}

	if err := json.Unmarshal(data, b); err != nil {
		return nil, errors.Wrapf(err, "parse %s block", env.Type)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

func (l List) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, b := range l {
		raw, err := Marshal(b)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

func (l *List) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(List, 0, len(raws))
	for i, raw := range raws {
		b, err := Unmarshal(raw)
		if err != nil {
			return errors.Wrapf(err, "block %d", i)
		}
		out = append(out, b)
	}
	*l = out
	return nil
}
