// Package encoder converts Go values into JSON text.
//
// Values are classified with value.Classify and rebuilt into a tree of *value.Mapping,
// []any and scalars, which is then rendered by a printer.Printer.
package encoder

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/keyconv"
	"github.com/mcncl/jsonconv/internal/logger"
	"github.com/mcncl/jsonconv/internal/printer"
	"github.com/mcncl/jsonconv/internal/rows"
	"github.com/mcncl/jsonconv/internal/validator"
	"github.com/mcncl/jsonconv/internal/value"
)

// Option configures an Encoder.
type Option func(*Encoder)

// WithKeyConverter replaces the converter applied to every mapping key.
func WithKeyConverter(c keyconv.Converter) Option {
	return func(e *Encoder) {
		e.keys = c
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(e *Encoder) {
		e.log = logger.OrNop(log)
	}
}

// WithName sets the component name reported in row stream type errors.
func WithName(name string) Option {
	return func(e *Encoder) {
		e.name = name
	}
}

// WithPrinter replaces the printer built from the encode configuration.
func WithPrinter(p *printer.Printer) Option {
	return func(e *Encoder) {
		e.printer = p
	}
}

// Encoder converts values to JSON. It is safe for concurrent use.
type Encoder struct {
	name    string
	cfg     *config.Config
	keys    keyconv.Converter
	printer *printer.Printer
	log     *zap.SugaredLogger

	fields sync.Map // reflect.Type -> []fieldInfo
}

// NewEncoder creates an Encoder. A nil cfg means the default configuration.
func NewEncoder(cfg *config.Config, opts ...Option) *Encoder {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	e := &Encoder{
		name:    "Encoder",
		cfg:     cfg,
		keys:    keyconv.New(),
		printer: printer.New(cfg.Encode.PrettyPrint, cfg.Encode.IndentFactor),
		log:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Encode converts v to JSON text.
//
// A nil v yields an empty string. A string or json.RawMessage is returned unchanged when
// it already holds a JSON object or array, and rejected otherwise. Any other value must
// build into an object or an array.
func (e *Encoder) Encode(v any) (string, error) {
	return e.EncodeWith(v, e.printer)
}

// EncodeWith is Encode rendering with p instead of the encoder's own printer.
func (e *Encoder) EncodeWith(v any, p *printer.Printer) (string, error) {
	switch t := v.(type) {
	case string:
		return passThrough(t)
	case json.RawMessage:
		return passThrough(string(t))
	}

	if value.Classify(v) == value.KindNull {
		return "", nil
	}

	tree, err := e.Build(v)
	if err != nil {
		return "", err
	}
	switch tree.(type) {
	case *value.Mapping, []any:
	default:
		return "", errors.NewNotValidJSONRootError(value.TypeName(v))
	}

	out, err := p.Print(tree)
	if err != nil {
		return "", err
	}
	e.log.Debugw("encoded value", "type", value.TypeName(v), "bytes", len(out))
	return out, nil
}

// EncodeRows converts a row stream into a JSON array with one object per row.
// A nil src yields an empty string, as Encode does for nil.
func (e *Encoder) EncodeRows(src rows.Source) (string, error) {
	if value.Classify(src) == value.KindNull {
		return "", nil
	}
	items, err := rows.CollectFor(e.name, src)
	if err != nil {
		return "", err
	}
	tree, err := e.build(items, 0)
	if err != nil {
		return "", err
	}
	out, err := e.printer.Print(tree)
	if err != nil {
		return "", err
	}
	e.log.Debugw("encoded rows", "rows", len(items), "bytes", len(out))
	return out, nil
}

// Build converts v into the tree the printer renders, without printing it.
func (e *Encoder) Build(v any) (any, error) {
	return e.build(v, 0)
}

func passThrough(text string) (string, error) {
	if !validator.IsJSON(text) {
		return "", errors.NewNotJSONStringError()
	}
	return text, nil
}

func (e *Encoder) build(v any, depth int) (any, error) {
	if depth > e.cfg.Encode.MaxDepth {
		return nil, errors.NewConversionError(fmt.Sprintf("maximum nesting depth of %d exceeded", e.cfg.Encode.MaxDepth), nil)
	}

	switch value.Classify(v) {
	case value.KindNull:
		return nil, nil
	case value.KindScalar:
		return value.Indirect(v), nil
	case value.KindSequence:
		return e.buildSequence(value.Indirect(v), depth)
	case value.KindMapping:
		return e.buildMapping(value.Indirect(v), depth)
	case value.KindRow:
		return e.buildMapping(rows.ToMapping(value.Indirect(v).(value.Row)), depth)
	case value.KindOpaque:
		return e.buildOpaque(value.Indirect(v), depth)
	default:
		return nil, errors.NewConversionError(fmt.Sprintf("value of type %s cannot be converted to JSON", value.TypeName(v)), nil)
	}
}

func (e *Encoder) buildSequence(v any, depth int) (any, error) {
	if elems, ok := v.([]any); ok {
		out := make([]any, len(elems))
		for i, elem := range elems {
			built, err := e.build(elem, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = built
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	out := make([]any, rv.Len())
	for i := range out {
		built, err := e.build(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = built
	}
	return out, nil
}

type entry struct {
	key   string
	value any
}

func (e *Encoder) buildMapping(v any, depth int) (any, error) {
	var entries []entry

	if m, ok := v.(*value.Mapping); ok {
		entries = make([]entry, 0, m.Len())
		for _, k := range m.Keys() {
			key, err := e.convertKey(k)
			if err != nil {
				return nil, err
			}
			val, _ := m.Get(k)
			entries = append(entries, entry{key: key, value: val})
		}
	} else {
		rv := reflect.ValueOf(v)
		entries = make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			key, err := e.convertKey(iter.Key().Interface())
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry{key: key, value: iter.Value().Interface()})
		}
		// Go maps have no order of their own.
		sort.SliceStable(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
	}

	out := value.NewMapping()
	for _, ent := range entries {
		built, err := e.build(ent.value, depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(ent.key, built)
	}
	return out, nil
}

func (e *Encoder) convertKey(key any) (string, error) {
	s, err := e.keys.ConvertKey(key)
	if err != nil {
		return "", errors.NewConversionError("failed to convert mapping key", err)
	}
	return s, nil
}

func (e *Encoder) buildOpaque(v any, depth int) (any, error) {
	var fields []value.Field
	if f, ok := v.(value.Fielder); ok {
		fields = f.Fields()
	} else {
		fields = e.structFields(reflect.ValueOf(v))
	}

	out := value.NewMapping()
	for _, field := range fields {
		built, err := e.build(field.Value, depth+1)
		if err != nil {
			return nil, err
		}
		out.Set(field.Name, built)
	}
	return out, nil
}
