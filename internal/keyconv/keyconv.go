// Package keyconv turns mapping keys of any type into JSON object member names.
package keyconv

import (
	"fmt"
	"reflect"

	"github.com/spf13/cast"
)

// Converter converts a mapping key into the string used as a JSON object member name.
type Converter interface {
	ConvertKey(key any) (string, error)
}

// Func adapts an ordinary function to the Converter interface.
type Func func(key any) (string, error)

// ConvertKey calls f(key).
func (f Func) ConvertKey(key any) (string, error) {
	return f(key)
}

// CastConverter converts keys with spf13/cast. Strings (including named string types),
// booleans, numbers, byte slices, fmt.Stringer and error values are supported.
type CastConverter struct{}

var _ Converter = CastConverter{}

// New returns the default converter.
func New() Converter {
	return CastConverter{}
}

// ConvertKey converts key to a string.
func (CastConverter) ConvertKey(key any) (string, error) {
	if key == nil {
		return "", fmt.Errorf("mapping key is nil")
	}
	s, err := cast.ToStringE(key)
	if err != nil {
		// cast does not know named string types such as `type Key string`
		if rv := reflect.ValueOf(key); rv.Kind() == reflect.String {
			return rv.String(), nil
		}
		return "", fmt.Errorf("mapping key %v of type %T cannot be converted to string: %w", key, key, err)
	}
	return s, nil
}
