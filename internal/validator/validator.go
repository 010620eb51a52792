// Package validator answers whether a text is a JSON document with an object or array root.
package validator

import (
	"github.com/tidwall/gjson"
)

// IsJSON reports whether text is a complete, valid JSON document whose root is an
// object or an array. It never fails; invalid input simply yields false.
func IsJSON(text string) bool {
	if !gjson.Valid(text) {
		return false
	}
	root := gjson.Parse(text)
	return root.IsObject() || root.IsArray()
}

// IsJSONBytes is IsJSON for raw bytes.
func IsJSONBytes(data []byte) bool {
	if !gjson.ValidBytes(data) {
		return false
	}
	root := gjson.ParseBytes(data)
	return root.IsObject() || root.IsArray()
}
