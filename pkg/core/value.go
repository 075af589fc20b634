package core

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/google/uuid"
)

// Kind identifies which variant a Value holds.
type Kind uint8

// Value kinds, in wire order.
const (
	KindNull Kind = iota
	KindBoolean
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindText
	KindBytes
	KindTimestamp
	KindUUID
)

var kindNames = [...]string{
	KindNull:      "null",
	KindBoolean:   "boolean",
	KindInt32:     "int32",
	KindInt64:     "int64",
	KindFloat32:   "float32",
	KindFloat64:   "float64",
	KindText:      "text",
	KindBytes:     "bytes",
	KindTimestamp: "timestamp",
	KindUUID:      "uuid",
}

// String returns the wire name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind resolves a wire name back to a Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return Kind(k), true
		}
	}
	return KindNull, false
}

// Value is an engine-agnostic SQL value. The zero Value is Null.
//
// Values are immutable: constructors copy byte payloads in and Bytes copies
// them out, so a Value can be shared freely.
type Value struct {
	kind Kind
	i    int64
	f    float64
	s    string
	b    []byte
}

// Null returns the SQL NULL value.
func Null() Value { return Value{} }

// Bool returns a Boolean value.
func Bool(v bool) Value {
	var i int64
	if v {
		i = 1
	}
	return Value{kind: KindBoolean, i: i}
}

// Int32 returns an Int32 value.
func Int32(v int32) Value { return Value{kind: KindInt32, i: int64(v)} }

// Int64 returns an Int64 value.
func Int64(v int64) Value { return Value{kind: KindInt64, i: v} }

// Float32 returns a Float32 value.
func Float32(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }

// Float64 returns a Float64 value.
func Float64(v float64) Value { return Value{kind: KindFloat64, f: v} }

// Text returns a Text value.
func Text(v string) Value { return Value{kind: KindText, s: v} }

// Bytes returns a Bytes value holding a copy of v.
func Bytes(v []byte) Value {
	return Value{kind: KindBytes, b: bytes.Clone(v)}
}

// Timestamp returns a Timestamp value. The unit is the caller's; it is
// carried through verbatim.
func Timestamp(v int64) Value { return Value{kind: KindTimestamp, i: v} }

// UUID returns a Uuid value. The string is stored verbatim, no
// canonicalisation or validation takes place.
func UUID(v string) Value { return Value{kind: KindUUID, s: v} }

// NewUUID returns a Uuid value holding a freshly generated random UUID.
func NewUUID() Value { return UUID(uuid.NewString()) }

// Kind reports the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the payload of a Boolean value.
func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.i != 0, true
}

// AsInt32 returns the payload of an Int32 value.
func (v Value) AsInt32() (int32, bool) {
	if v.kind != KindInt32 {
		return 0, false
	}
	return int32(v.i), true
}

// AsInt64 returns the payload of an Int64 value.
func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindInt64 {
		return 0, false
	}
	return v.i, true
}

// AsFloat32 returns the payload of a Float32 value.
func (v Value) AsFloat32() (float32, bool) {
	if v.kind != KindFloat32 {
		return 0, false
	}
	return float32(v.f), true
}

// AsFloat64 returns the payload of a Float64 value.
func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindFloat64 {
		return 0, false
	}
	return v.f, true
}

// AsText returns the payload of a Text value.
func (v Value) AsText() (string, bool) {
	if v.kind != KindText {
		return "", false
	}
	return v.s, true
}

// AsBytes returns a copy of the payload of a Bytes value.
func (v Value) AsBytes() ([]byte, bool) {
	if v.kind != KindBytes {
		return nil, false
	}
	return bytes.Clone(v.b), true
}

// AsTimestamp returns the payload of a Timestamp value.
func (v Value) AsTimestamp() (int64, bool) {
	if v.kind != KindTimestamp {
		return 0, false
	}
	return v.i, true
}

// AsUUID returns the payload of a Uuid value.
func (v Value) AsUUID() (string, bool) {
	if v.kind != KindUUID {
		return "", false
	}
	return v.s, true
}

// Equal reports whether v and o hold the same variant and payload.
// Floats compare by bit pattern so NaN equals itself.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBoolean, KindInt32, KindInt64, KindTimestamp:
		return v.i == o.i
	case KindFloat32, KindFloat64:
		return math.Float64bits(v.f) == math.Float64bits(o.f)
	case KindText, KindUUID:
		return v.s == o.s
	case KindBytes:
		return bytes.Equal(v.b, o.b)
	}
	return false
}

// String renders the payload for display. Bytes render as base64.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindBoolean:
		return strconv.FormatBool(v.i != 0)
	case KindInt32, KindInt64, KindTimestamp:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText, KindUUID:
		return v.s
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.b)
	}
	return fmt.Sprintf("<%s>", v.kind)
}

// GoString makes %#v output readable in test failures.
func (v Value) GoString() string {
	if v.kind == KindNull {
		return "core.Null()"
	}
	return fmt.Sprintf("core.%s(%q)", v.kind, v.String())
}
