// Package printer renders a built JSON structure to text, compact or indented.
package printer

import (
	"encoding"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"

	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/value"
)

// Printer writes a JSON structure made of *value.Mapping, []any, map[string]any and
// scalars. A Printer is immutable and safe for concurrent use.
type Printer struct {
	indent int
	api    jsoniter.API
}

// New creates a Printer. When pretty is false, or indent is not positive, output is compact.
// Otherwise every nesting level adds indent spaces and each member goes on its own line.
func New(pretty bool, indent int) *Printer {
	step := 0
	if pretty && indent > 0 {
		step = indent
	}
	return &Printer{
		indent: step,
		api:    jsoniter.Config{IndentionStep: step}.Froze(),
	}
}

// Indent returns the effective indentation step, 0 for compact output.
func (p *Printer) Indent() int {
	return p.indent
}

// Print renders tree as JSON text.
func (p *Printer) Print(tree any) (string, error) {
	stream := p.api.BorrowStream(nil)
	defer p.api.ReturnStream(stream)

	if err := p.write(stream, tree); err != nil {
		return "", err
	}
	if stream.Error != nil {
		return "", errors.NewConversionError("failed to write JSON", stream.Error)
	}
	return string(stream.Buffer()), nil
}

func (p *Printer) write(stream *jsoniter.Stream, v any) error {
	switch t := v.(type) {
	case nil:
		stream.WriteNil()
	case *value.Mapping:
		if t == nil {
			stream.WriteNil()
			return nil
		}
		return p.writeObject(stream, t.Keys(), func(k string) any {
			v, _ := t.Get(k)
			return v
		})
	case map[string]any:
		if t == nil {
			stream.WriteNil()
			return nil
		}
		keys := lo.Keys(t)
		slices.Sort(keys)
		return p.writeObject(stream, keys, func(k string) any { return t[k] })
	case []any:
		if t == nil {
			stream.WriteNil()
			return nil
		}
		return p.writeArray(stream, t)
	case string:
		stream.WriteString(t)
	case bool:
		stream.WriteBool(t)
	case int:
		stream.WriteInt(t)
	case int8:
		stream.WriteInt8(t)
	case int16:
		stream.WriteInt16(t)
	case int32:
		stream.WriteInt32(t)
	case int64:
		stream.WriteInt64(t)
	case uint:
		stream.WriteUint(t)
	case uint8:
		stream.WriteUint8(t)
	case uint16:
		stream.WriteUint16(t)
	case uint32:
		stream.WriteUint32(t)
	case uint64:
		stream.WriteUint64(t)
	case float32:
		if err := checkFloat(float64(t)); err != nil {
			return err
		}
		stream.WriteFloat32(t)
	case float64:
		if err := checkFloat(t); err != nil {
			return err
		}
		stream.WriteFloat64(t)
	case json.Number:
		return writeNumber(stream, t)
	case json.RawMessage:
		return writeRaw(stream, t)
	case []byte:
		if t == nil {
			stream.WriteNil()
			return nil
		}
		stream.WriteString(base64.StdEncoding.EncodeToString(t))
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return errors.NewConversionError(fmt.Sprintf("value of type %s cannot be marshaled as text", value.TypeName(v)), err)
		}
		stream.WriteString(string(text))
	default:
		return writeReflected(stream, v)
	}
	return nil
}

func (p *Printer) writeObject(stream *jsoniter.Stream, keys []string, get func(string) any) error {
	if len(keys) == 0 {
		stream.WriteEmptyObject()
		return nil
	}
	stream.WriteObjectStart()
	for i, k := range keys {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(k)
		if err := p.write(stream, get(k)); err != nil {
			return err
		}
	}
	stream.WriteObjectEnd()
	return nil
}

func (p *Printer) writeArray(stream *jsoniter.Stream, elems []any) error {
	if len(elems) == 0 {
		stream.WriteEmptyArray()
		return nil
	}
	stream.WriteArrayStart()
	for i, elem := range elems {
		if i > 0 {
			stream.WriteMore()
		}
		if err := p.write(stream, elem); err != nil {
			return err
		}
	}
	stream.WriteArrayEnd()
	return nil
}

// writeReflected handles named scalar types such as `type Status string`.
func writeReflected(stream *jsoniter.Stream, v any) error {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		stream.WriteString(rv.String())
	case reflect.Bool:
		stream.WriteBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		stream.WriteInt64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		stream.WriteUint64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if err := checkFloat(f); err != nil {
			return err
		}
		stream.WriteFloat64(f)
	default:
		return errors.NewConversionError(fmt.Sprintf("value of type %s cannot be written as JSON", value.TypeName(v)), nil)
	}
	return nil
}

func writeNumber(stream *jsoniter.Stream, n json.Number) error {
	s := string(n)
	if s == "" {
		stream.WriteRaw("0")
		return nil
	}
	if !gjson.Valid(s) || gjson.Parse(s).Type != gjson.Number {
		return errors.NewConversionError(fmt.Sprintf("%q is not a valid JSON number", s), nil)
	}
	stream.WriteRaw(s)
	return nil
}

// writeRaw embeds already-encoded JSON, compacted.
func writeRaw(stream *jsoniter.Stream, raw json.RawMessage) error {
	if raw == nil {
		stream.WriteNil()
		return nil
	}
	if !gjson.ValidBytes(raw) {
		return errors.NewConversionError(fmt.Sprintf("json.RawMessage %q is not valid JSON", string(raw)), nil)
	}
	stream.WriteRaw(gjson.GetBytes(raw, "@ugly").Raw)
	return nil
}

func checkFloat(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return errors.NewConversionError(fmt.Sprintf("unsupported float value %v", f), nil)
	}
	return nil
}
