package value

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mapping is a string-keyed map that remembers insertion order.
// The zero value is not usable; create one with NewMapping or MappingOf.
type Mapping struct {
	keys   []string
	values map[string]any
}

// NewMapping creates an empty Mapping.
func NewMapping() *Mapping {
	return &Mapping{values: make(map[string]any)}
}

// MappingOf builds a Mapping from alternating keys and values.
// It panics when a key is not a string or the argument count is odd.
func MappingOf(kv ...any) *Mapping {
	if len(kv)%2 != 0 {
		panic("value.MappingOf: odd number of arguments")
	}
	m := NewMapping()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("value.MappingOf: key %v is %T, not string", kv[i], kv[i]))
		}
		m.Set(key, kv[i+1])
	}
	return m
}

// Set stores v under key. Overwriting an existing key keeps its original position.
func (m *Mapping) Set(key string, v any) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *Mapping) Each(fn func(key string, v any)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// ToMap converts the mapping and everything nested in it to native Go containers.
func (m *Mapping) ToMap() map[string]any {
	out := make(map[string]any, len(m.keys))
	for _, k := range m.keys {
		out[k] = Native(m.values[k])
	}
	return out
}

// MarshalYAML renders the mapping as a YAML mapping node so key order survives.
func (m *Mapping) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if m == nil {
		return node, nil
	}
	for _, k := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(m.values[k]); err != nil {
			return nil, fmt.Errorf("encoding value of key %q: %w", k, err)
		}
		node.Content = append(node.Content, keyNode, valueNode)
	}
	return node, nil
}
