package value

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type testRow struct {
	names  []string
	values []any
}

func (r testRow) ColumnCount() int        { return len(r.names) }
func (r testRow) ColumnName(i int) string { return r.names[i-1] }
func (r testRow) Get(i int) any           { return r.values[i-1] }

type testFielder struct{}

func (testFielder) Fields() []Field { return []Field{{Name: "a", Value: 1}} }

type namedString string

type person struct {
	Name string
}

func TestClassify(t *testing.T) {
	var nilMapping *Mapping
	var nilSlice []any
	var nilPtr *person
	n := 5

	tests := []struct {
		name     string
		input    any
		expected Kind
	}{
		{name: "nil", input: nil, expected: KindNull},
		{name: "nil mapping", input: nilMapping, expected: KindNull},
		{name: "nil slice", input: nilSlice, expected: KindNull},
		{name: "nil struct pointer", input: nilPtr, expected: KindNull},
		{name: "string", input: "text", expected: KindScalar},
		{name: "bool", input: true, expected: KindScalar},
		{name: "int", input: 42, expected: KindScalar},
		{name: "float", input: 4.2, expected: KindScalar},
		{name: "json number", input: json.Number("12"), expected: KindScalar},
		{name: "raw message", input: json.RawMessage(`{"a":1}`), expected: KindScalar},
		{name: "named string", input: namedString("x"), expected: KindScalar},
		{name: "pointer to int", input: &n, expected: KindScalar},
		{name: "time", input: time.Unix(0, 0), expected: KindScalar},
		{name: "slice", input: []any{1, 2}, expected: KindSequence},
		{name: "typed slice", input: []string{"a"}, expected: KindSequence},
		{name: "array", input: [2]int{1, 2}, expected: KindSequence},
		{name: "mapping", input: NewMapping(), expected: KindMapping},
		{name: "native map", input: map[int]string{1: "a"}, expected: KindMapping},
		{name: "row", input: testRow{}, expected: KindRow},
		{name: "fielder", input: testFielder{}, expected: KindOpaque},
		{name: "struct", input: person{Name: "x"}, expected: KindOpaque},
		{name: "struct pointer", input: &person{Name: "x"}, expected: KindOpaque},
		{name: "channel", input: make(chan int), expected: KindUnsupported},
		{name: "complex", input: complex(1, 2), expected: KindUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input))
		})
	}
}

func TestIndirect(t *testing.T) {
	n := 5
	pn := &n
	m := NewMapping()

	assert.Equal(t, 5, Indirect(&pn))
	assert.Same(t, m, Indirect(m))
	assert.Nil(t, Indirect((*int)(nil)))
	assert.Equal(t, "x", Indirect("x"))
}

func TestTypeName(t *testing.T) {
	assert.Equal(t, "null", TypeName(nil))
	assert.Equal(t, "int", TypeName(3))
	assert.Equal(t, "*value.Mapping", TypeName(NewMapping()))
}

func TestMapping_PreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("zeta", 1)
	m.Set("alpha", 2)
	m.Set("mid", 3)
	m.Set("zeta", 4)

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, 4, v)

	var visited []string
	m.Each(func(key string, _ any) { visited = append(visited, key) })
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, visited)
}

func TestMappingOf(t *testing.T) {
	m := MappingOf("a", 1, "b", MappingOf("c", []any{"d"}))

	assert.Equal(t, map[string]any{
		"a": 1,
		"b": map[string]any{"c": []any{"d"}},
	}, m.ToMap())

	assert.Panics(t, func() { MappingOf("a") })
	assert.Panics(t, func() { MappingOf(1, 2) })
}

func TestNative(t *testing.T) {
	tree := []any{MappingOf("k", []any{MappingOf("n", nil)}), "s"}

	assert.Equal(t, []any{
		map[string]any{"k": []any{map[string]any{"n": nil}}},
		"s",
	}, Native(tree))
}

func TestMapping_MarshalYAML(t *testing.T) {
	m := MappingOf("b", 1, "a", MappingOf("k", "v", "j", []any{true}))

	out, err := yaml.Marshal(m)
	require.NoError(t, err)

	text := string(out)
	assert.Less(t, strings.Index(text, "b:"), strings.Index(text, "a:"))
	assert.Less(t, strings.Index(text, "k:"), strings.Index(text, "j:"))

	var back map[string]any
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, map[string]any{
		"b": 1,
		"a": map[string]any{"k": "v", "j": []any{true}},
	}, back)
}

func TestFromYAML(t *testing.T) {
	doc := `
name: John
tags:
  - a
  - b
nested:
  z: 1
  a: 2.5
empty:
`
	v, err := FromYAML([]byte(doc))
	require.NoError(t, err)

	m, ok := v.(*Mapping)
	require.True(t, ok)
	assert.Equal(t, []string{"name", "tags", "nested", "empty"}, m.Keys())

	nested, _ := m.Get("nested")
	require.IsType(t, &Mapping{}, nested)
	assert.Equal(t, []string{"z", "a"}, nested.(*Mapping).Keys())

	assert.Equal(t, map[string]any{
		"name":   "John",
		"tags":   []any{"a", "b"},
		"nested": map[string]any{"z": 1, "a": 2.5},
		"empty":  nil,
	}, m.ToMap())
}

func TestFromYAML_EmptyAndInvalid(t *testing.T) {
	v, err := FromYAML([]byte(""))
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = FromYAML([]byte("a: [1, 2"))
	assert.Error(t, err)
}
