// Package value models schema-free invocation payloads as a tagged union of
// structured data variants.
package value

import (
	"fmt"
	"math"
	"sort"
)

// Kind identifies the variant held by a Value.
type Kind uint8

const (
	// KindInvalid holds a Go value with no structured-data representation,
	// such as a channel, a function or an open file.
	KindInvalid Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindList
	KindMap
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindNull:    "null",
	KindBool:    "bool",
	KindNumber:  "number",
	KindString:  "string",
	KindList:    "list",
	KindMap:     "map",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Value is a single node of a payload tree. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	n    float64
	s    string
	l    []Value
	m    Map
	raw  interface{}
}

// Map is a string-keyed mapping of values. Key order carries no meaning.
type Map map[string]Value

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Number wraps a number.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Int wraps an integer as a number.
func Int(i int) Value { return Value{kind: KindNumber, n: float64(i)} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, s: s} }

// List wraps an ordered sequence.
func List(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}
	return Value{kind: KindList, l: items}
}

// Object wraps a mapping.
func Object(m Map) Value {
	if m == nil {
		m = Map{}
	}
	return Value{kind: KindMap, m: m}
}

// Invalid wraps a Go value that cannot be encoded.
func Invalid(raw interface{}) Value { return Value{kind: KindInvalid, raw: raw} }

// Kind reports the variant of v.
func (v Value) Kind() Kind {
	if v.kind == KindInvalid && v.raw == nil {
		return KindNull
	}
	return v.kind
}

func (v Value) IsNull() bool { return v.Kind() == KindNull }

// AsBool returns the boolean and whether v holds one.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsNumber returns the number and whether v holds one.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsInt returns the number truncated to an int when it is integral.
func (v Value) AsInt() (int, bool) {
	if v.kind != KindNumber || v.n != math.Trunc(v.n) || math.IsInf(v.n, 0) {
		return 0, false
	}
	return int(v.n), true
}

// AsString returns the string and whether v holds one.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsList returns the list items and whether v holds a list.
func (v Value) AsList() ([]Value, bool) { return v.l, v.kind == KindList }

// AsMap returns the mapping and whether v holds one.
func (v Value) AsMap() (Map, bool) { return v.m, v.kind == KindMap }

// Raw returns the Go value wrapped by an Invalid value.
func (v Value) Raw() interface{} { return v.raw }

func (v Value) String() string {
	switch v.Kind() {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindNumber:
		return fmt.Sprintf("%g", v.n)
	case KindString:
		return fmt.Sprintf("%q", v.s)
	case KindList:
		return fmt.Sprintf("list[%d]", len(v.l))
	case KindMap:
		return fmt.Sprintf("map[%d]", len(v.m))
	default:
		return fmt.Sprintf("invalid(%T)", v.raw)
	}
}

// Clone returns a deep copy of v. Self-referencing maps and lists are
// copied with the same shape.
func (v Value) Clone() Value {
	return v.clone(map[identity]interface{}{})
}

// Clone returns a deep copy of m. A nil map clones to nil.
func (m Map) Clone() Map {
	if m == nil {
		return nil
	}
	return m.clone(map[identity]interface{}{})
}

func (v Value) clone(copies map[identity]interface{}) Value {
	switch v.kind {
	case KindList:
		if v.l == nil {
			return Value{kind: KindList}
		}
		id := listIdentity(v.l)
		if cp, ok := copies[id]; ok {
			return Value{kind: KindList, l: cp.([]Value)}
		}
		items := make([]Value, len(v.l))
		copies[id] = items
		for i, item := range v.l {
			items[i] = item.clone(copies)
		}
		return Value{kind: KindList, l: items}
	case KindMap:
		if v.m == nil {
			return Value{kind: KindMap}
		}
		return Value{kind: KindMap, m: v.m.clone(copies)}
	default:
		return v
	}
}

func (m Map) clone(copies map[identity]interface{}) Map {
	id := mapIdentity(m)
	if cp, ok := copies[id]; ok {
		return cp.(Map)
	}
	out := make(Map, len(m))
	copies[id] = out
	for k, v := range m {
		out[k] = v.clone(copies)
	}
	return out
}

// Keys returns the keys of m in sorted order.
func (m Map) Keys() []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// String returns the string stored under key, or "" when absent or not a string.
func (m Map) String(key string) string {
	s, _ := m[key].AsString()
	return s
}

// Map returns the mapping stored under key, or nil.
func (m Map) Map(key string) Map {
	sub, _ := m[key].AsMap()
	return sub
}

// Equal reports whether a and b hold structurally equal data.
func Equal(a, b Value) bool {
	return equal(a, b, map[[2]identity]struct{}{})
}

// EqualMaps reports whether a and b hold the same keys with equal values.
func EqualMaps(a, b Map) bool {
	return equalMaps(a, b, map[[2]identity]struct{}{})
}

// equal treats a pair of containers already under comparison as equal, so
// that self-referencing values terminate.
func equal(a, b Value, seen map[[2]identity]struct{}) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindNumber:
		return a.n == b.n
	case KindString:
		return a.s == b.s
	case KindList:
		if len(a.l) != len(b.l) {
			return false
		}
		if len(a.l) == 0 {
			return true
		}
		pair := [2]identity{listIdentity(a.l), listIdentity(b.l)}
		if _, ok := seen[pair]; ok {
			return true
		}
		seen[pair] = struct{}{}
		for i := range a.l {
			if !equal(a.l[i], b.l[i], seen) {
				return false
			}
		}
		return true
	case KindMap:
		return equalMaps(a.m, b.m, seen)
	default:
		return false
	}
}

func equalMaps(a, b Map, seen map[[2]identity]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	if len(a) == 0 {
		return true
	}
	pair := [2]identity{mapIdentity(a), mapIdentity(b)}
	if _, ok := seen[pair]; ok {
		return true
	}
	seen[pair] = struct{}{}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !equal(av, bv, seen) {
			return false
		}
	}
	return true
}
