package rows

import (
	"fmt"
	"reflect"

	"github.com/mcncl/jsonconv/internal/value"
)

// SimpleRow is an in-memory row.
type SimpleRow struct {
	names  []string
	values []any
}

var _ value.Row = (*SimpleRow)(nil)

// NewRow creates a row from parallel column names and values.
// It panics when the two slices differ in length.
func NewRow(names []string, values []any) *SimpleRow {
	if len(names) != len(values) {
		panic(fmt.Sprintf("rows.NewRow: %d names for %d values", len(names), len(values)))
	}
	return &SimpleRow{names: names, values: values}
}

func (r *SimpleRow) ColumnCount() int        { return len(r.names) }
func (r *SimpleRow) ColumnName(i int) string { return r.names[i-1] }
func (r *SimpleRow) Get(i int) any           { return r.values[i-1] }

type sliceSource[T any] struct {
	items []T
}

// FromSlice returns a source over items whose declared element type is T.
// Use FromSlice[value.Row] for a row stream.
func FromSlice[T any](items ...T) Source {
	return &sliceSource[T]{items: items}
}

func (s *sliceSource[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *sliceSource[T]) Each(fn func(elem any) error) error {
	for _, item := range s.items {
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

type chanSource[T any] struct {
	ch <-chan T
}

// FromChannel returns a source that consumes ch until it is closed.
// A channel that is never closed blocks Each forever.
func FromChannel[T any](ch <-chan T) Source {
	return &chanSource[T]{ch: ch}
}

func (s *chanSource[T]) ElemType() reflect.Type {
	return reflect.TypeFor[T]()
}

func (s *chanSource[T]) Each(fn func(elem any) error) error {
	for item := range s.ch {
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}
