package value

import (
	"encoding/base64"
	"fmt"
	"math"
	"reflect"
	"strconv"
)

// UnsupportedValueError reports a node of a payload tree that has no
// structured-data encoding.
type UnsupportedValueError struct {
	Path  string
	Value Value
}

func (e *UnsupportedValueError) Error() string {
	switch e.Value.Kind() {
	case KindNumber:
		return fmt.Sprintf("value: unsupported number %v at %s", e.Value.n, e.Path)
	case KindMap, KindList:
		return fmt.Sprintf("value: encountered a cycle via %s at %s", e.Value.Kind(), e.Path)
	}
	return fmt.Sprintf("value: unsupported %T at %s", e.Value.raw, e.Path)
}

// Of converts a Go value into a Value. Types without a structured-data
// representation, and values that reference themselves, become Invalid
// instead of failing, so that the failure is reported where the value is
// encoded.
func Of(x interface{}) Value {
	if x != nil && cyclic(reflect.ValueOf(x), map[visitKey]struct{}{}) {
		return Invalid(x)
	}
	return of(x)
}

func of(x interface{}) Value {
	switch t := x.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case Map:
		return Object(t)
	case map[string]Value:
		return Object(Map(t))
	case []Value:
		return List(t...)
	case bool:
		return Bool(t)
	case string:
		return String(t)
	case float64:
		return Number(t)
	case float32:
		return Number(float64(t))
	case int:
		return Number(float64(t))
	case int64:
		return Number(float64(t))
	case int32:
		return Number(float64(t))
	case uint:
		return Number(float64(t))
	case uint64:
		return Number(float64(t))
	case uint32:
		return Number(float64(t))
	case interface{ Float64() (float64, error) }:
		// json.Number and friends
		f, err := t.Float64()
		if err != nil {
			return Invalid(x)
		}
		return Number(f)
	case []byte:
		return String(base64.StdEncoding.EncodeToString(t))
	case []interface{}:
		items := make([]Value, len(t))
		for i, item := range t {
			items[i] = of(item)
		}
		return List(items...)
	case map[string]interface{}:
		m := make(Map, len(t))
		for k, item := range t {
			m[k] = of(item)
		}
		return Object(m)
	case map[string]string:
		m := make(Map, len(t))
		for k, item := range t {
			m[k] = String(item)
		}
		return Object(m)
	}
	return ofReflect(reflect.ValueOf(x), x)
}

func ofReflect(rv reflect.Value, x interface{}) Value {
	switch rv.Kind() {
	case reflect.Ptr, reflect.Interface:
		if rv.IsNil() {
			return Null()
		}
		if rv.Kind() == reflect.Ptr && rv.Elem().Kind() != reflect.Struct {
			return of(rv.Elem().Interface())
		}
	case reflect.Int8, reflect.Int16, reflect.Uint8, reflect.Uint16:
		f, _ := strconv.ParseFloat(fmt.Sprint(rv.Interface()), 64)
		return Number(f)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return Null()
		}
		items := make([]Value, rv.Len())
		for i := range items {
			items[i] = of(rv.Index(i).Interface())
		}
		return List(items...)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return Invalid(x)
		}
		m := make(Map, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = of(iter.Value().Interface())
		}
		return Object(m)
	case reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Complex64, reflect.Complex128:
		return Invalid(x)
	}
	// Structs and pointers to structs go through their JSON form so that
	// field tags and custom marshalers are honoured.
	data, err := json.Marshal(x)
	if err != nil {
		return Invalid(x)
	}
	var decoded interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return Invalid(x)
	}
	return of(decoded)
}

// Interface converts v into plain Go data: nil, bool, float64, string,
// []interface{} and map[string]interface{}. It fails on any node that cannot
// be encoded.
func (v Value) Interface() (interface{}, error) {
	return toInterface(v, "$", map[identity]struct{}{})
}

// Interface converts m into a map[string]interface{}.
func (m Map) Interface() (map[string]interface{}, error) {
	x, err := toInterface(Object(m), "$", map[identity]struct{}{})
	if err != nil {
		return nil, err
	}
	return x.(map[string]interface{}), nil
}

// Validate reports the first node of v that cannot be encoded.
func Validate(v Value) error {
	_, err := v.Interface()
	return err
}

// toInterface fails on a map or list that contains itself; visiting holds
// the containers on the current path.
func toInterface(v Value, path string, visiting map[identity]struct{}) (interface{}, error) {
	switch v.Kind() {
	case KindNull:
		return nil, nil
	case KindBool:
		return v.b, nil
	case KindNumber:
		if math.IsNaN(v.n) || math.IsInf(v.n, 0) {
			return nil, &UnsupportedValueError{Path: path, Value: v}
		}
		return v.n, nil
	case KindString:
		return v.s, nil
	case KindList:
		out := make([]interface{}, len(v.l))
		if len(v.l) == 0 {
			return out, nil
		}
		id := listIdentity(v.l)
		if _, ok := visiting[id]; ok {
			return nil, &UnsupportedValueError{Path: path, Value: v}
		}
		visiting[id] = struct{}{}
		defer delete(visiting, id)
		for i, item := range v.l {
			x, err := toInterface(item, fmt.Sprintf("%s[%d]", path, i), visiting)
			if err != nil {
				return nil, err
			}
			out[i] = x
		}
		return out, nil
	case KindMap:
		out := make(map[string]interface{}, len(v.m))
		if len(v.m) == 0 {
			return out, nil
		}
		id := mapIdentity(v.m)
		if _, ok := visiting[id]; ok {
			return nil, &UnsupportedValueError{Path: path, Value: v}
		}
		visiting[id] = struct{}{}
		defer delete(visiting, id)
		for k, item := range v.m {
			x, err := toInterface(item, path+"."+k, visiting)
			if err != nil {
				return nil, err
			}
			out[k] = x
		}
		return out, nil
	default:
		return nil, &UnsupportedValueError{Path: path, Value: v}
	}
}
