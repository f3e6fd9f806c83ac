package ir

import (
	"bytes"
	"fmt"
	"slices"
	"unicode/utf16"

	"github.com/goccy/go-json"
)

// PropValue is a sealed interface for property-bag values.
// Only PropString, PropNumber, PropVector and PropBool implement it.
type PropValue interface {
	propValue() // Sealed - only these types implement it
}

// PropString is a string property.
type PropString string

func (PropString) propValue() {}

// PropNumber is a numeric property. Integers are carried as float64.
type PropNumber float64

func (PropNumber) propValue() {}

// PropVector is a list of numbers (points, ranges, rgb triples).
type PropVector []float64

func (PropVector) propValue() {}

// PropBool is a boolean property.
type PropBool bool

func (PropBool) propValue() {}

// Properties is the open, renderer-specific tuning bag.
// Keys are free-form; values are constrained to the PropValue variants.
type Properties map[string]PropValue

// SortedKeys returns keys in RFC 8785 order (UTF-16 code units).
// Go's sort.Strings uses UTF-8 which produces a different order for
// supplementary-plane characters.
func (p Properties) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysRFC8785)
	return keys
}

// compareKeysRFC8785 compares strings using UTF-16 code unit ordering.
func compareKeysRFC8785(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	for i := 0; i < min(len(a16), len(b16)); i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}

// MarshalJSON implements json.Marshaler with sorted keys.
// A nil bag encodes as {}.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range p.SortedKeys() {
		if i > 0 {
			buf.WriteByte(',')
		}
		keyBytes, err := json.Marshal(k)
		if err != nil {
			return nil, fmt.Errorf("marshal key %q: %w", k, err)
		}
		buf.Write(keyBytes)
		buf.WriteByte(':')

		valBytes, err := MarshalPropValue(p[k])
		if err != nil {
			return nil, fmt.Errorf("marshal value for key %q: %w", k, err)
		}
		buf.Write(valBytes)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON implements json.Unmarshaler for Properties.
// An empty object decodes to a nil bag.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		*p = nil
		return nil
	}

	*p = make(Properties, len(raw))
	for k, v := range raw {
		val, err := UnmarshalPropValue(v)
		if err != nil {
			return fmt.Errorf("property %q: %w", k, err)
		}
		(*p)[k] = val
	}
	return nil
}

// MarshalPropValue marshals a PropValue to JSON bytes.
func MarshalPropValue(v PropValue) ([]byte, error) {
	switch val := v.(type) {
	case PropString:
		return json.Marshal(string(val))
	case PropNumber:
		return json.Marshal(float64(val))
	case PropVector:
		if val == nil {
			return []byte("[]"), nil
		}
		return json.Marshal([]float64(val))
	case PropBool:
		return json.Marshal(bool(val))
	default:
		return nil, fmt.Errorf("unknown PropValue type: %T", v)
	}
}

// UnmarshalPropValue decodes one JSON value into a PropValue.
// Null, objects and arrays holding anything but numbers are rejected.
// An empty array decodes to a nil PropVector.
func UnmarshalPropValue(data []byte) (PropValue, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("empty JSON value")
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil, err
		}
		return PropString(s), nil

	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return nil, err
		}
		return PropBool(b), nil

	case 'n':
		return nil, fmt.Errorf("null is not a valid property value")

	case '{':
		return nil, fmt.Errorf("nested objects are not valid property values")

	case '[':
		var vec []float64
		if err := json.Unmarshal(data, &vec); err != nil {
			return nil, fmt.Errorf("arrays must contain only numbers: %w", err)
		}
		if len(vec) == 0 {
			return PropVector(nil), nil
		}
		return PropVector(vec), nil

	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return nil, err
		}
		return PropNumber(n), nil
	}
}

// ToPropValue converts a plain Go value (as produced by a generic JSON or
// YAML decoder) to a PropValue.
func ToPropValue(v any) (PropValue, error) {
	switch val := v.(type) {
	case PropValue:
		return val, nil
	case string:
		return PropString(val), nil
	case bool:
		return PropBool(val), nil
	case float64:
		return PropNumber(val), nil
	case float32:
		return PropNumber(val), nil
	case int:
		return PropNumber(val), nil
	case int64:
		return PropNumber(val), nil
	case []float64:
		return PropVector(val), nil
	case []any:
		vec := make(PropVector, len(val))
		for i, elem := range val {
			n, ok := elem.(float64)
			if !ok {
				return nil, fmt.Errorf("[%d]: expected number, got %T", i, elem)
			}
			vec[i] = n
		}
		return vec, nil
	case nil:
		return nil, fmt.Errorf("null is not a valid property value")
	default:
		return nil, fmt.Errorf("unsupported property type: %T", v)
	}
}
