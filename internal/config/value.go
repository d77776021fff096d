package config

import (
	"encoding/json"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// ToValue converts a decoded YAML, JSON or option-file value into a cty
// value through its JSON form. A nil v yields cty.NilVal.
func ToValue(v any) (cty.Value, error) {
	if v == nil {
		return cty.NilVal, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return cty.NilVal, err
	}
	ty, err := ctyjson.ImpliedType(raw)
	if err != nil {
		return cty.NilVal, err
	}
	return ctyjson.Unmarshal(raw, ty)
}
