package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValue_ZeroIsNull(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.True(t, v.Equal(Null()))
}

func TestValue_Accessors(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		kind  Kind
		check func(t *testing.T, v Value)
	}{
		{
			name:  "boolean",
			value: Bool(true),
			kind:  KindBoolean,
			check: func(t *testing.T, v Value) {
				b, ok := v.AsBool()
				require.True(t, ok)
				assert.True(t, b)
			},
		},
		{
			name:  "int32 negative",
			value: Int32(-7),
			kind:  KindInt32,
			check: func(t *testing.T, v Value) {
				i, ok := v.AsInt32()
				require.True(t, ok)
				assert.Equal(t, int32(-7), i)
			},
		},
		{
			name:  "int64 max",
			value: Int64(math.MaxInt64),
			kind:  KindInt64,
			check: func(t *testing.T, v Value) {
				i, ok := v.AsInt64()
				require.True(t, ok)
				assert.Equal(t, int64(math.MaxInt64), i)
			},
		},
		{
			name:  "float32",
			value: Float32(1.5),
			kind:  KindFloat32,
			check: func(t *testing.T, v Value) {
				f, ok := v.AsFloat32()
				require.True(t, ok)
				assert.Equal(t, float32(1.5), f)
			},
		},
		{
			name:  "float64",
			value: Float64(2.25),
			kind:  KindFloat64,
			check: func(t *testing.T, v Value) {
				f, ok := v.AsFloat64()
				require.True(t, ok)
				assert.Equal(t, 2.25, f)
			},
		},
		{
			name:  "text",
			value: Text("hi"),
			kind:  KindText,
			check: func(t *testing.T, v Value) {
				s, ok := v.AsText()
				require.True(t, ok)
				assert.Equal(t, "hi", s)
			},
		},
		{
			name:  "bytes",
			value: Bytes([]byte{1, 2}),
			kind:  KindBytes,
			check: func(t *testing.T, v Value) {
				b, ok := v.AsBytes()
				require.True(t, ok)
				assert.Equal(t, []byte{1, 2}, b)
			},
		},
		{
			name:  "timestamp",
			value: Timestamp(1700000000000),
			kind:  KindTimestamp,
			check: func(t *testing.T, v Value) {
				ts, ok := v.AsTimestamp()
				require.True(t, ok)
				assert.Equal(t, int64(1700000000000), ts)
			},
		},
		{
			name:  "uuid kept verbatim",
			value: UUID("not-a-canonical-uuid"),
			kind:  KindUUID,
			check: func(t *testing.T, v Value) {
				s, ok := v.AsUUID()
				require.True(t, ok)
				assert.Equal(t, "not-a-canonical-uuid", s)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.value.Kind())
			assert.False(t, tt.value.IsNull())
			tt.check(t, tt.value)
		})
	}
}

func TestValue_AccessorKindMismatch(t *testing.T) {
	v := Int64(1)

	_, ok := v.AsInt32()
	assert.False(t, ok, "Int64 must not read as Int32")
	_, ok = v.AsTimestamp()
	assert.False(t, ok, "Int64 must not read as Timestamp")
	_, ok = v.AsBool()
	assert.False(t, ok, "Int64 must not read as Boolean")
	_, ok = Text("x").AsUUID()
	assert.False(t, ok, "Text must not read as Uuid")
}

func TestValue_BytesAreCopied(t *testing.T) {
	src := []byte{1, 2, 3}
	v := Bytes(src)
	src[0] = 9

	got, _ := v.AsBytes()
	assert.Equal(t, []byte{1, 2, 3}, got, "construction must copy")

	got[1] = 9
	again, _ := v.AsBytes()
	assert.Equal(t, []byte{1, 2, 3}, again, "access must copy")
}

func TestValue_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"null equals null", Null(), Null(), true},
		{"same int64", Int64(5), Int64(5), true},
		{"int64 vs int32 same payload", Int64(5), Int32(5), false},
		{"int64 vs timestamp same payload", Int64(5), Timestamp(5), false},
		{"text vs uuid same payload", Text("a"), UUID("a"), false},
		{"bytes equal", Bytes([]byte{1}), Bytes([]byte{1}), true},
		{"bytes differ", Bytes([]byte{1}), Bytes([]byte{2}), false},
		{"nan equals nan", Float64(math.NaN()), Float64(math.NaN()), true},
		{"bool true vs false", Bool(true), Bool(false), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "NULL", Null().String())
	assert.Equal(t, "true", Bool(true).String())
	assert.Equal(t, "-3", Int32(-3).String())
	assert.Equal(t, "1.5", Float32(1.5).String())
	assert.Equal(t, "AQI=", Bytes([]byte{1, 2}).String())
	assert.Equal(t, "core.Null()", Null().GoString())
}

func TestNewUUID(t *testing.T) {
	v := NewUUID()
	s, ok := v.AsUUID()
	require.True(t, ok)

	_, err := uuid.Parse(s)
	assert.NoError(t, err)
	assert.False(t, v.Equal(NewUUID()), "two generated uuids should differ")
}

func TestKind_String(t *testing.T) {
	for k := KindNull; k <= KindUUID; k++ {
		parsed, ok := ParseKind(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, parsed)
	}
	_, ok := ParseKind("decimal")
	assert.False(t, ok)
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestValue_JSON(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		wire  string
	}{
		{"null", Null(), `{"type":"null"}`},
		{"boolean", Bool(false), `{"type":"boolean","value":false}`},
		{"int32", Int32(-1), `{"type":"int32","value":-1}`},
		{"int64", Int64(42), `{"type":"int64","value":42}`},
		{"float64", Float64(0.5), `{"type":"float64","value":0.5}`},
		{"text", Text("hello"), `{"type":"text","value":"hello"}`},
		{"bytes", Bytes([]byte("ab")), `{"type":"bytes","value":"YWI="}`},
		{"timestamp", Timestamp(99), `{"type":"timestamp","value":99}`},
		{"uuid", UUID("abc"), `{"type":"uuid","value":"abc"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.JSONEq(t, tt.wire, string(data))

			var decoded Value
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &decoded))
			assert.True(t, tt.value.Equal(decoded), "decoded %#v, want %#v", decoded, tt.value)
		})
	}
}

func TestValue_UnmarshalJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		wire string
		msg  string
	}{
		{"unknown type", `{"type":"decimal","value":1}`, "unknown value type"},
		{"missing payload", `{"type":"int64"}`, "requires a payload"},
		{"wrong payload", `{"type":"int32","value":"x"}`, "decode int32 value"},
		{"not an object", `[1]`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			err := json.Unmarshal([]byte(tt.wire), &v)
			require.Error(t, err)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}
