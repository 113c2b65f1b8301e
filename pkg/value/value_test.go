package value

import (
	stdjson "encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf(t *testing.T) {
	type sample struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	tests := []struct {
		name string
		in   interface{}
		kind Kind
	}{
		{"nil", nil, KindNull},
		{"bool", true, KindBool},
		{"int", 42, KindNumber},
		{"int8", int8(3), KindNumber},
		{"float", 1.5, KindNumber},
		{"json number", stdjson.Number("12"), KindNumber},
		{"string", "pong", KindString},
		{"slice", []interface{}{1, "a"}, KindList},
		{"typed slice", []string{"a", "b"}, KindList},
		{"map", map[string]interface{}{"a": 1}, KindMap},
		{"string map", map[string]string{"a": "b"}, KindMap},
		{"struct", sample{Name: "x", Count: 2}, KindMap},
		{"struct pointer", &sample{Name: "x"}, KindMap},
		{"nil pointer", (*sample)(nil), KindNull},
		{"channel", make(chan int), KindInvalid},
		{"func", func() {}, KindInvalid},
		{"int keyed map", map[int]string{1: "a"}, KindInvalid},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.kind, Of(tc.in).Kind())
		})
	}
}

func TestOfStructUsesJSONTags(t *testing.T) {
	v := Of(struct {
		StatusCode int    `json:"statusCode"`
		Body       string `json:"body"`
	}{200, "pong"})

	m, ok := v.AsMap()
	require.True(t, ok)
	code, ok := m["statusCode"].AsInt()
	require.True(t, ok)
	assert.Equal(t, 200, code)
	assert.Equal(t, "pong", m.String("body"))
}

func TestRoundTrip(t *testing.T) {
	input := []byte(`{"path":"/ping","n":1.25,"ok":true,"none":null,"items":[1,"two",{"three":3}],"nested":{"a":{"b":"c"}}}`)

	m, err := UnmarshalMap(input)
	require.NoError(t, err)
	assert.Equal(t, "/ping", m.String("path"))
	assert.True(t, m["none"].IsNull())

	encoded, err := MarshalMap(m)
	require.NoError(t, err)
	assert.JSONEq(t, string(input), string(encoded))

	again, err := UnmarshalMap(encoded)
	require.NoError(t, err)
	assert.True(t, EqualMaps(m, again))
}

func TestUnmarshalMapRejectsNonObjects(t *testing.T) {
	for _, in := range []string{``, `[]`, `"x"`, `42`, `null`, `{"a":`} {
		t.Run(in, func(t *testing.T) {
			_, err := UnmarshalMap([]byte(in))
			assert.ErrorIs(t, err, ErrNotObject)
		})
	}
}

func TestMarshalUnsupported(t *testing.T) {
	tests := []struct {
		name string
		in   Map
		path string
	}{
		{"channel", Map{"handle": Of(make(chan int))}, "$.handle"},
		{"nan", Map{"n": Number(math.NaN())}, "$.n"},
		{"inf in list", Map{"l": List(Int(1), Number(math.Inf(1)))}, "$.l[1]"},
		{"nested", Map{"a": Object(Map{"f": Of(func() {})})}, "$.a.f"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MarshalMap(tc.in)
			var unsupported *UnsupportedValueError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tc.path, unsupported.Path)
		})
	}
}

func TestMarshalNilMap(t *testing.T) {
	_, err := MarshalMap(nil)
	assert.ErrorIs(t, err, ErrNotObject)
}

func TestCloneIsDeep(t *testing.T) {
	orig := Map{"nested": Object(Map{"k": String("v")}), "list": List(String("a"))}
	cp := orig.Clone()

	cp.Map("nested")["k"] = String("changed")
	items, _ := cp["list"].AsList()
	items[0] = String("changed")

	assert.Equal(t, "v", orig.Map("nested").String("k"))
	origItems, _ := orig["list"].AsList()
	assert.Equal(t, "a", origItems[0].s)
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Null(), Value{}))
	assert.True(t, Equal(Int(2), Number(2)))
	assert.False(t, Equal(String("2"), Number(2)))
	assert.False(t, Equal(List(Int(1)), List(Int(1), Int(2))))
	assert.True(t, EqualMaps(Map{"a": Bool(true)}, Map{"a": Bool(true)}))
	assert.False(t, EqualMaps(Map{"a": Bool(true)}, Map{"b": Bool(true)}))
	assert.False(t, Equal(Of(make(chan int)), Of(make(chan int))))
}

func TestValueJSONInterop(t *testing.T) {
	type envelope struct {
		Payload Map `json:"payload"`
	}

	var env envelope
	require.NoError(t, stdjson.Unmarshal([]byte(`{"payload":{"statusCode":200}}`), &env))
	code, ok := env.Payload["statusCode"].AsInt()
	require.True(t, ok)
	assert.Equal(t, 200, code)

	out, err := stdjson.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `{"payload":{"statusCode":200}}`, string(out))
}

func selfReferencingMap() Map {
	m := Map{"name": String("loop")}
	m["self"] = Object(m)
	return m
}

func TestMarshalCycle(t *testing.T) {
	items := make([]Value, 2)
	items[0] = Int(1)
	items[1] = List(items...)

	tests := []struct {
		name string
		in   Map
		path string
	}{
		{"map contains itself", selfReferencingMap(), "$.self"},
		{"nested map cycle", Map{"outer": Object(selfReferencingMap())}, "$.outer.self"},
		{"list contains itself", Map{"l": List(items...)}, "$.l[1]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := MarshalMap(tc.in)
			var unsupported *UnsupportedValueError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tc.path, unsupported.Path)
			assert.Contains(t, err.Error(), "cycle")
		})
	}
}

func TestMarshalSharedValueIsNotACycle(t *testing.T) {
	shared := Object(Map{"k": String("v")})
	encoded, err := MarshalMap(Map{"a": shared, "b": List(shared, shared)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":{"k":"v"},"b":[{"k":"v"},{"k":"v"}]}`, string(encoded))
}

func TestCloneCycle(t *testing.T) {
	orig := selfReferencingMap()
	cp := orig.Clone()

	cp["name"] = String("copy")
	assert.Equal(t, "loop", orig.String("name"))
	assert.Equal(t, "copy", cp.Map("self").String("name"), "the copy refers to itself, not to the original")
	assert.True(t, EqualMaps(selfReferencingMap(), orig))
}

func TestOfCycle(t *testing.T) {
	m := map[string]interface{}{"name": "loop"}
	m["self"] = m
	assert.Equal(t, KindInvalid, Of(m).Kind())

	l := make([]interface{}, 1)
	l[0] = l
	assert.Equal(t, KindInvalid, Of(l).Kind())

	type node struct {
		Next *node `json:"next"`
	}
	n := &node{}
	n.Next = n
	assert.Equal(t, KindInvalid, Of(n).Kind())

	_, err := MarshalMap(Map{"body": Of(m)})
	assert.Error(t, err)
}
