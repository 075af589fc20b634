package adapter

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/leapstack-labs/keelsql/pkg/core"
)

// ToNative converts a canonical value into the backing engine's native
// representation. The result is always one of the five native kinds:
// nil, int64, float64, string or []byte.
//
// Boolean, Timestamp and Uuid have no native kind of their own and are
// stored as Integer, Integer and Text.
func ToNative(v core.Value) driver.Value {
	switch v.Kind() {
	case core.KindBoolean:
		b, _ := v.AsBool()
		if b {
			return int64(1)
		}
		return int64(0)
	case core.KindInt32:
		i, _ := v.AsInt32()
		return int64(i)
	case core.KindInt64:
		i, _ := v.AsInt64()
		return i
	case core.KindFloat32:
		f, _ := v.AsFloat32()
		return float64(f)
	case core.KindFloat64:
		f, _ := v.AsFloat64()
		return f
	case core.KindText:
		s, _ := v.AsText()
		return s
	case core.KindBytes:
		b, _ := v.AsBytes()
		return b
	case core.KindTimestamp:
		ts, _ := v.AsTimestamp()
		return ts
	case core.KindUUID:
		s, _ := v.AsUUID()
		return s
	default:
		return nil
	}
}

// ToNativeArgs converts positional parameters for database/sql.
func ToNativeArgs(params []core.Value) []any {
	args := make([]any, len(params))
	for i, p := range params {
		args[i] = ToNative(p)
	}
	return args
}

// FromNative converts a value scanned from the backing engine into a
// canonical value. Only five canonical kinds come back:
// Null, Int64, Float64, Text and Bytes. The original tag of a Boolean,
// Timestamp or Uuid parameter is not recoverable.
func FromNative(src any) core.Value {
	switch v := normalize(src).(type) {
	case int64:
		return core.Int64(v)
	case float64:
		return core.Float64(v)
	case string:
		return core.Text(v)
	case []byte:
		return core.Bytes(v)
	default:
		return core.Null()
	}
}

// normalize folds the Go types that drivers hand back from Scan into one
// of the five native kinds.
func normalize(src any) driver.Value {
	switch v := src.(type) {
	case nil:
		return nil
	case int64, float64, string, []byte:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint:
		return normalizeUint(uint64(v))
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case uint64:
		return normalizeUint(v)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case float32:
		return float64(v)
	case time.Time:
		return v.UTC().Format(time.RFC3339Nano)
	case uuid.UUID:
		return v.String()
	case [16]byte:
		return uuid.UUID(v).String()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

func normalizeUint(v uint64) driver.Value {
	if v > math.MaxInt64 {
		return strconv.FormatUint(v, 10)
	}
	return int64(v)
}
