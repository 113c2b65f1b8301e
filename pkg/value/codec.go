package value

import (
	"bytes"
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNotObject is returned when a payload decodes to something other than a
// JSON object.
var ErrNotObject = errors.New("payload is not a JSON object")

// Marshal encodes v as JSON.
func Marshal(v Value) ([]byte, error) {
	x, err := v.Interface()
	if err != nil {
		return nil, err
	}
	return json.Marshal(x)
}

// MarshalMap encodes m as a JSON object. A nil map is rejected.
func MarshalMap(m Map) ([]byte, error) {
	if m == nil {
		return nil, ErrNotObject
	}
	x, err := m.Interface()
	if err != nil {
		return nil, err
	}
	return json.Marshal(x)
}

// Unmarshal decodes any JSON document into a Value.
func Unmarshal(data []byte) (Value, error) {
	var x interface{}
	if err := json.Unmarshal(data, &x); err != nil {
		return Value{}, err
	}
	return Of(x), nil
}

// UnmarshalMap decodes a JSON object into a Map.
func UnmarshalMap(data []byte) (Map, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil, ErrNotObject
	}
	var x map[string]interface{}
	if err := json.Unmarshal(data, &x); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotObject, err)
	}
	m, _ := Of(x).AsMap()
	return m, nil
}

func (v Value) MarshalJSON() ([]byte, error) { return Marshal(v) }

func (v *Value) UnmarshalJSON(data []byte) error {
	decoded, err := Unmarshal(data)
	if err != nil {
		return err
	}
	*v = decoded
	return nil
}

func (m Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return MarshalMap(m)
}

func (m *Map) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*m = nil
		return nil
	}
	decoded, err := UnmarshalMap(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}
