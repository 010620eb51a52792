// Package rows adapts column-oriented records into mappings and provides row sources
// backed by slices, channels, SQL result sets and CSV files.
package rows

import (
	"reflect"

	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/value"
)

// RowType is the element type a Source must declare to be collected as rows.
var RowType = reflect.TypeFor[value.Row]()

// Source is a finite, push-based stream of elements of a declared type.
// Each calls fn for every element in arrival order and stops at the first error.
type Source interface {
	ElemType() reflect.Type
	Each(fn func(elem any) error) error
}

// ToMapping converts a row into a mapping, one entry per column in column order.
// Duplicate column names keep the first position and the last value.
func ToMapping(row value.Row) *value.Mapping {
	m := value.NewMapping()
	for i := 1; i <= row.ColumnCount(); i++ {
		m.Set(row.ColumnName(i), row.Get(i))
	}
	return m
}

// Collect drains src into a slice of mappings, preserving order. The declared element
// type is checked before any element is consumed. No partial result is returned on error.
func Collect(src Source) ([]any, error) {
	return CollectFor("rows", src)
}

// CollectFor is Collect with the name of the calling component used in type errors.
func CollectFor(component string, src Source) ([]any, error) {
	if err := CheckType(component, src); err != nil {
		return nil, err
	}

	out := []any{}
	err := src.Each(func(elem any) error {
		row, ok := elem.(value.Row)
		if !ok {
			return errors.NewWrongArgumentTypeError(component, RowType.Name(), typeName(reflect.TypeOf(elem)))
		}
		out = append(out, ToMapping(row))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CheckType verifies that src declares Row elements. A nil src declares nothing.
func CheckType(component string, src Source) error {
	if src == nil {
		return errors.NewWrongArgumentTypeError(component, RowType.Name(), "null")
	}
	if t := src.ElemType(); t != RowType {
		return errors.NewWrongArgumentTypeError(component, RowType.Name(), typeName(t))
	}
	return nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "null"
	}
	if name := t.Name(); name != "" {
		return name
	}
	return t.String()
}
