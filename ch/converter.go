package ch

import (
	"net"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// normalizeValue maps a scanned driver value to the small set of types
// Record carries: string, int64, uint64, float64, bool, time.Time,
// decimal.Decimal and nil. Pointers from Nullable columns are dereferenced,
// nil pointers become nil.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return val
	case []byte:
		return string(val)
	case bool:
		return val
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case int64:
		return val
	case uint:
		return uint64(val)
	case uint8:
		return uint64(val)
	case uint16:
		return uint64(val)
	case uint32:
		return uint64(val)
	case uint64:
		return val
	case float32:
		return float64(val)
	case float64:
		return val
	case time.Time:
		return val
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return nil
		}
		return *val
	case net.IP:
		return val.String()
	}

	// Nullable columns scan into pointers of the base type
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		return normalizeValue(rv.Elem().Interface())
	}

	return v
}
