package commands

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Payload is an opaque module payload. It is passed through unchanged and
// rendered as JSON; a null or missing value renders as an empty object.
type Payload struct {
	Value cty.Value
}

// MarshalJSON implements json.Marshaler.
func (p Payload) MarshalJSON() ([]byte, error) {
	v := p.Value
	if v == cty.NilVal || v.IsNull() {
		return []byte("{}"), nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("payload contains unknown values")
	}
	return ctyjson.Marshal(v, v.Type())
}

// EmptyPayload renders as `{}`.
func EmptyPayload() Payload {
	return Payload{Value: cty.EmptyObjectVal}
}
