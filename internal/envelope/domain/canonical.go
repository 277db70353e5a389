package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Canonical converts a value to the exact bytes that get encrypted.
//
// Text (string or []byte) is used as-is. Mappings (Fields, map[string]T) are
// rendered as JSON in the layout the backend already parses: ", " between
// members, ": " after keys and every character outside printable ASCII
// escaped as \uXXXX. Fields keep insertion order; Go maps have none, so their
// keys are sorted.
//
// Returns ErrUnsupportedValue for anything else, including mappings that
// contain values with no JSON form (channels, NaN, ...).
func Canonical(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		out := make([]byte, len(v))
		copy(out, v)
		return out, nil
	case Fields:
		var buf bytes.Buffer
		if err := writeFields(&buf, v); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		var buf bytes.Buffer
		if err := writeMap(&buf, rv); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
}

func writeValue(buf *bytes.Buffer, value any) error {
	switch v := value.(type) {
	case nil:
		buf.WriteString("null")
	case string:
		writeString(buf, v)
	case bool:
		buf.WriteString(strconv.FormatBool(v))
	case int:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int8:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int16:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int32:
		buf.WriteString(strconv.FormatInt(int64(v), 10))
	case int64:
		buf.WriteString(strconv.FormatInt(v, 10))
	case uint:
		buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint8:
		buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint16:
		buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint32:
		buf.WriteString(strconv.FormatUint(uint64(v), 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(v, 10))
	case float32:
		return writeFloat(buf, float64(v))
	case float64:
		return writeFloat(buf, v)
	case json.Number:
		buf.WriteString(v.String())
	case decimal.Decimal:
		buf.WriteString(v.String())
	case Fields:
		return writeFields(buf, v)
	default:
		rv := reflect.ValueOf(value)
		switch {
		case rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String:
			return writeMap(buf, rv)
		case rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array:
			return writeList(buf, rv)
		default:
			return fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
		}
	}
	return nil
}

func writeFields(buf *bytes.Buffer, fields Fields) error {
	buf.WriteByte('{')
	for i, field := range fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeString(buf, field.Key)
		buf.WriteString(": ")
		if err := writeValue(buf, field.Value); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeMap(buf *bytes.Buffer, rv reflect.Value) error {
	keys := make([]string, 0, rv.Len())
	values := make(map[string]reflect.Value, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		key := iter.Key().String()
		keys = append(keys, key)
		values[key] = iter.Value()
	}
	sort.Strings(keys)

	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		writeString(buf, key)
		buf.WriteString(": ")
		if err := writeValue(buf, values[key].Interface()); err != nil {
			return err
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeList(buf *bytes.Buffer, rv reflect.Value) error {
	buf.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			buf.WriteString(", ")
		}
		if err := writeValue(buf, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	buf.WriteByte(']')
	return nil
}

// writeFloat follows the shortest round-trip repr: fixed notation with a
// trailing ".0" for decimal exponents in [-4, 16), scientific otherwise.
func writeFloat(buf *bytes.Buffer, f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: non-finite float %v", ErrUnsupportedValue, f)
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.LastIndexByte(sci, 'e')+1:])
	if err != nil {
		return fmt.Errorf("%w: float %v", ErrUnsupportedValue, f)
	}
	if f != 0 && (exp < -4 || exp >= 16) {
		buf.WriteString(sci)
		return nil
	}

	fixed := strconv.FormatFloat(f, 'f', -1, 64)
	buf.WriteString(fixed)
	if !strings.Contains(fixed, ".") {
		buf.WriteString(".0")
	}
	return nil
}

const hexDigits = "0123456789abcdef"

// writeString writes s as an ASCII-only JSON string.
func writeString(buf *bytes.Buffer, s string) {
	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		default:
			switch {
			case r >= 0x20 && r <= 0x7e:
				buf.WriteRune(r)
			case r > 0xffff:
				n := r - 0x10000
				writeUnicodeEscape(buf, 0xd800|((n>>10)&0x3ff))
				writeUnicodeEscape(buf, 0xdc00|(n&0x3ff))
			default:
				writeUnicodeEscape(buf, r)
			}
		}
	}
	buf.WriteByte('"')
}

func writeUnicodeEscape(buf *bytes.Buffer, r rune) {
	buf.WriteString(`\u`)
	buf.WriteByte(hexDigits[(r>>12)&0xf])
	buf.WriteByte(hexDigits[(r>>8)&0xf])
	buf.WriteByte(hexDigits[(r>>4)&0xf])
	buf.WriteByte(hexDigits[r&0xf])
}
