// Package value defines the generic value tree exchanged by the encoder and the decoder
// and the classification policy both of them dispatch on.
package value

import (
	"encoding"
	"encoding/json"
	"reflect"
)

// Kind is the structural kind of a value.
type Kind string

const (
	KindNull        = Kind("null")
	KindScalar      = Kind("scalar")
	KindSequence    = Kind("sequence")
	KindMapping     = Kind("mapping")
	KindRow         = Kind("row")
	KindOpaque      = Kind("opaque")
	KindUnsupported = Kind("unsupported")
)

// Row is a column-oriented record. Columns are addressed from 1 to ColumnCount().
type Row interface {
	ColumnCount() int
	ColumnName(i int) string
	Get(i int) any
}

// Field is a named value exposed by an opaque structured value.
type Field struct {
	Name  string
	Value any
}

// Fielder is implemented by values that enumerate their own fields, in order.
// Types implementing it are encoded as JSON objects without reflection.
type Fielder interface {
	Fields() []Field
}

// Classify returns the kind of v. It is the single dispatch point of the encoder,
// so the order of the checks below defines which kind wins for types that could
// qualify for several.
func Classify(v any) Kind {
	if isNil(v) {
		return KindNull
	}

	switch v.(type) {
	case *Mapping:
		return KindMapping
	case Row:
		return KindRow
	case Fielder:
		return KindOpaque
	case string, bool, json.Number, json.RawMessage, []byte,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr,
		float32, float64:
		return KindScalar
	case encoding.TextMarshaler:
		return KindScalar
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return Classify(rv.Elem().Interface())
	case reflect.Map:
		return KindMapping
	case reflect.Slice, reflect.Array:
		return KindSequence
	case reflect.Struct:
		return KindOpaque
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return KindScalar
	default:
		return KindUnsupported
	}
}

// Indirect follows pointers until it reaches a value that is not a pointer, or a pointer
// whose type carries its own behaviour (*Mapping, Row, Fielder, TextMarshaler).
// A nil pointer yields nil.
func Indirect(v any) any {
	for {
		if isNil(v) {
			return nil
		}
		switch v.(type) {
		case *Mapping, Row, Fielder, encoding.TextMarshaler:
			return v
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v
		}
		v = rv.Elem().Interface()
	}
}

// TypeName returns a printable name for the dynamic type of v, "null" for nil.
func TypeName(v any) string {
	if v == nil {
		return "null"
	}
	return reflect.TypeOf(v).String()
}

// Native converts a decoded tree into plain Go containers: every *Mapping becomes a
// map[string]any, recursively. Other values are returned unchanged.
func Native(v any) any {
	switch t := v.(type) {
	case *Mapping:
		return t.ToMap()
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = Native(elem)
		}
		return out
	default:
		return v
	}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
