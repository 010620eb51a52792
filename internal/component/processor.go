package component

import (
	"go.uber.org/zap"

	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/decoder"
	"github.com/mcncl/jsonconv/internal/encoder"
	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/printer"
	"github.com/mcncl/jsonconv/internal/rows"
	"github.com/mcncl/jsonconv/internal/value"
)

// Processor transforms one message into another.
type Processor interface {
	Apply(msg *Message) (*Message, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(msg *Message) (*Message, error)

// Apply calls f(msg).
func (f ProcessorFunc) Apply(msg *Message) (*Message, error) {
	return f(msg)
}

// Chain applies processors in order, stopping at the first error.
func Chain(processors ...Processor) Processor {
	return ProcessorFunc(func(msg *Message) (*Message, error) {
		var err error
		for _, p := range processors {
			if msg, err = p.Apply(msg); err != nil {
				return nil, err
			}
		}
		return msg, nil
	})
}

// ObjectToJSON converts the payload to JSON text. Strings that already hold a JSON object
// or array pass through unchanged and row streams become an array of objects.
type ObjectToJSON struct {
	enc *encoder.Encoder
}

// NewObjectToJSON creates the processor from the encode configuration.
func NewObjectToJSON(cfg *config.Config, log *zap.SugaredLogger) *ObjectToJSON {
	return &ObjectToJSON{
		enc: encoder.NewEncoder(cfg, encoder.WithName("ObjectToJSON"), encoder.WithLogger(log)),
	}
}

// Apply implements Processor.
func (c *ObjectToJSON) Apply(msg *Message) (*Message, error) {
	payload := msg.Payload()
	if value.Classify(payload) == value.KindNull {
		return Empty(), nil
	}

	var (
		out string
		err error
	)
	if src, ok := payload.(rows.Source); ok {
		out, err = c.enc.EncodeRows(src)
	} else {
		out, err = c.enc.Encode(payload)
	}
	if err != nil {
		return nil, err
	}
	return WithJSON(out), nil
}

// JSONToObject parses a JSON string or byte slice payload into a value tree.
type JSONToObject struct {
	dec *decoder.Decoder
}

// NewJSONToObject creates the processor from the decode configuration.
func NewJSONToObject(cfg *config.Config, log *zap.SugaredLogger) *JSONToObject {
	return &JSONToObject{
		dec: decoder.NewDecoder(cfg, decoder.WithLogger(log)),
	}
}

// Apply implements Processor.
func (c *JSONToObject) Apply(msg *Message) (*Message, error) {
	if msg.IsEmpty() {
		return Empty(), nil
	}
	out, err := c.dec.Decode(msg.Payload())
	if err != nil {
		return nil, err
	}
	return WithObject(out), nil
}

// RowsToJSON converts a row stream payload into an indented JSON array of objects.
type RowsToJSON struct {
	enc *encoder.Encoder
}

// NewRowsToJSON creates the processor. Output is indented by rows.indent_factor.
func NewRowsToJSON(cfg *config.Config, log *zap.SugaredLogger) *RowsToJSON {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &RowsToJSON{
		enc: encoder.NewEncoder(cfg,
			encoder.WithName("RowsToJSON"),
			encoder.WithPrinter(printer.New(true, cfg.Rows.IndentFactor)),
			encoder.WithLogger(log),
		),
	}
}

// Apply implements Processor.
func (c *RowsToJSON) Apply(msg *Message) (*Message, error) {
	src, ok := msg.Payload().(rows.Source)
	if !ok {
		return nil, errors.NewWrongArgumentTypeError("RowsToJSON", rows.RowType.Name(), value.TypeName(msg.Payload()))
	}
	out, err := c.enc.EncodeRows(src)
	if err != nil {
		return nil, err
	}
	return WithJSON(out), nil
}
