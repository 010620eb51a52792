package rows

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cast"
)

// CSVOptions controls how a CSV document is read.
type CSVOptions struct {
	// Delimiter separates fields. Zero means a comma.
	Delimiter rune
	// InferTypes turns numeric, boolean and empty cells into numbers, booleans and nulls.
	InferTypes bool
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

type csvSource struct {
	r    io.Reader
	opts CSVOptions
}

// FromCSV returns a row source over a CSV document. The first record names the columns.
func FromCSV(r io.Reader, opts CSVOptions) Source {
	return &csvSource{r: r, opts: opts}
}

func (s *csvSource) ElemType() reflect.Type {
	return RowType
}

func (s *csvSource) Each(fn func(elem any) error) error {
	reader := csv.NewReader(s.r)
	if s.opts.Delimiter != 0 {
		reader.Comma = s.opts.Delimiter
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading CSV header: %w", err)
	}
	names := lo.Map(header, func(name string, i int) string {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		return strings.TrimSpace(name)
	})

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading CSV record: %w", err)
		}
		cells := lo.Map(record, func(cell string, _ int) any {
			if s.opts.InferTypes {
				return inferCell(cell)
			}
			return cell
		})
		if err := fn(NewRow(names, cells)); err != nil {
			return err
		}
	}
}

// inferCell only converts text that is already a well-formed JSON literal, so values
// such as "007" or "0x1F" stay strings.
func inferCell(cell string) any {
	switch {
	case cell == "":
		return nil
	case cell == "true" || cell == "false":
		return cast.ToBool(cell)
	case !jsonNumber.MatchString(cell):
		return cell
	}
	if !strings.ContainsAny(cell, ".eE") {
		if i, err := cast.ToInt64E(cell); err == nil {
			return i
		}
	}
	if f, err := cast.ToFloat64E(cell); err == nil {
		return f
	}
	return cell
}
