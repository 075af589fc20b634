package core

import (
	"encoding/json"
	"fmt"
)

// wireValue is the JSON shape of a Value: {"type": "<kind>", "value": ...}.
// Null omits the value.
type wireValue struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value,omitempty"`
}

// MarshalJSON encodes v in its wire form.
func (v Value) MarshalJSON() ([]byte, error) {
	var payload any
	switch v.kind {
	case KindNull:
		return json.Marshal(wireValue{Type: v.kind.String()})
	case KindBoolean:
		payload = v.i != 0
	case KindInt32, KindInt64, KindTimestamp:
		payload = v.i
	case KindFloat32:
		payload = float32(v.f)
	case KindFloat64:
		payload = v.f
	case KindText, KindUUID:
		payload = v.s
	case KindBytes:
		// encoding/json writes []byte as base64
		payload = v.b
	default:
		return nil, fmt.Errorf("unknown value kind %d", v.kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(wireValue{Type: v.kind.String(), Value: raw})
}

// UnmarshalJSON decodes a wire-form value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	kind, ok := ParseKind(w.Type)
	if !ok {
		return fmt.Errorf("unknown value type %q", w.Type)
	}
	if kind == KindNull {
		*v = Null()
		return nil
	}
	if len(w.Value) == 0 {
		return fmt.Errorf("value of type %q requires a payload", w.Type)
	}

	var err error
	switch kind {
	case KindBoolean:
		var b bool
		err = json.Unmarshal(w.Value, &b)
		*v = Bool(b)
	case KindInt32:
		var i int32
		err = json.Unmarshal(w.Value, &i)
		*v = Int32(i)
	case KindInt64:
		var i int64
		err = json.Unmarshal(w.Value, &i)
		*v = Int64(i)
	case KindTimestamp:
		var i int64
		err = json.Unmarshal(w.Value, &i)
		*v = Timestamp(i)
	case KindFloat32:
		var f float32
		err = json.Unmarshal(w.Value, &f)
		*v = Float32(f)
	case KindFloat64:
		var f float64
		err = json.Unmarshal(w.Value, &f)
		*v = Float64(f)
	case KindText:
		var s string
		err = json.Unmarshal(w.Value, &s)
		*v = Text(s)
	case KindUUID:
		var s string
		err = json.Unmarshal(w.Value, &s)
		*v = UUID(s)
	case KindBytes:
		var b []byte
		err = json.Unmarshal(w.Value, &b)
		*v = Bytes(b)
	}
	if err != nil {
		return fmt.Errorf("decode %s value: %w", w.Type, err)
	}
	return nil
}
