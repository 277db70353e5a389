package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Field is one key/value pair of a Fields mapping.
type Field struct {
	Key   string
	Value any
}

// Fields is a string-keyed mapping that keeps insertion order.
//
// Order matters on the wire: the backend receives the canonical JSON text of a
// mapping, and {"a": "1", "b": "2"} must not come out as {"b": "2", "a": "1"}.
// Duplicate keys are not rejected; Set on an existing key replaces its value
// in place.
type Fields []Field

// Set assigns value to key, appending the key if it is new.
func (f *Fields) Set(key string, value any) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	for _, field := range f {
		if field.Key == key {
			return field.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in insertion order.
func (f Fields) Keys() []string {
	keys := make([]string, 0, len(f))
	for _, field := range f {
		keys = append(keys, field.Key)
	}
	return keys
}

// Clone returns a shallow copy of the mapping.
func (f Fields) Clone() Fields {
	if f == nil {
		return nil
	}
	clone := make(Fields, len(f))
	copy(clone, f)
	return clone
}

// MarshalJSON renders the canonical text, so Fields embedded in other JSON
// documents keep their order.
func (f Fields) MarshalJSON() ([]byte, error) {
	return Canonical(f)
}

// ParseFields reads a JSON object into Fields, keeping the document's key order.
//
// Nested objects become Fields, arrays become []any and numbers are kept as
// json.Number so they serialize back unchanged. Returns ErrInvalidFieldsJSON if
// data is not exactly one JSON object.
func ParseFields(data []byte) (Fields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldsJSON, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: top level value must be an object", ErrInvalidFieldsJSON)
	}

	fields, err := readObject(dec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFieldsJSON, err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after object", ErrInvalidFieldsJSON)
	}

	return fields, nil
}

// readObject reads object members after the opening brace has been consumed.
func readObject(dec *json.Decoder) (Fields, error) {
	fields := Fields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", tok)
		}
		value, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: key, Value: value})
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

// readArray reads array elements after the opening bracket has been consumed.
func readArray(dec *json.Decoder) ([]any, error) {
	values := []any{}
	for dec.More() {
		value, err := readValue(dec)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	// closing bracket
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return values, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return readObject(dec)
		case '[':
			return readArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", v)
		}
	default:
		return v, nil
	}
}
