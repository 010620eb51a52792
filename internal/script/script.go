// Package script exposes JSON conversion as global functions for embedded scripting hosts.
//
// The registry is populated once, on first use, and is read-only afterwards.
package script

import (
	"maps"
	"sync"

	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/decoder"
	"github.com/mcncl/jsonconv/internal/encoder"
	"github.com/mcncl/jsonconv/internal/printer"
)

// JSON is bound to the global name "Json".
type JSON struct {
	enc      *encoder.Encoder
	dec      *decoder.Decoder
	printers sync.Map // indent -> *printer.Printer
}

func newJSON(cfg *config.Config) *JSON {
	return &JSON{
		enc: encoder.NewEncoder(cfg, encoder.WithName("Json"), encoder.WithPrinter(printer.New(false, 0))),
		dec: decoder.NewDecoder(cfg),
	}
}

// Stringify converts v to compact JSON text.
func (j *JSON) Stringify(v any) (string, error) {
	return j.enc.Encode(v)
}

// StringifyIndent converts v to JSON text indented by indent spaces per level.
func (j *JSON) StringifyIndent(v any, indent int) (string, error) {
	return j.enc.EncodeWith(v, j.indentPrinter(indent))
}

func (j *JSON) indentPrinter(indent int) *printer.Printer {
	if p, ok := j.printers.Load(indent); ok {
		return p.(*printer.Printer)
	}
	p, _ := j.printers.LoadOrStore(indent, printer.New(true, indent))
	return p.(*printer.Printer)
}

// Parse converts JSON text to a value tree.
func (j *JSON) Parse(text string) (any, error) {
	return j.dec.DecodeString(text)
}

var (
	once     sync.Once
	bindings map[string]any
)

func registry() map[string]any {
	once.Do(func() {
		bindings = map[string]any{
			"Json": newJSON(config.NewConfig()),
		}
	})
	return bindings
}

// Globals returns a copy of all bindings, keyed by global name.
func Globals() map[string]any {
	return maps.Clone(registry())
}

// Lookup returns the binding registered under name.
func Lookup(name string) (any, bool) {
	v, ok := registry()[name]
	return v, ok
}
