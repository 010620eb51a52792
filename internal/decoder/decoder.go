// Package decoder parses JSON text into a value tree of *value.Mapping, []any and scalars.
package decoder

import (
	"bytes"
	"encoding/json"
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/errors" // Custom errors package
	"github.com/mcncl/jsonconv/internal/logger"
	"github.com/mcncl/jsonconv/internal/validator"
	"github.com/mcncl/jsonconv/internal/value"
)

const whitespace = " \t\r\n"

var errInvalidDocument = stderrors.New("invalid JSON document")

// Option configures a Decoder.
type Option func(*Decoder)

// WithLogger sets the logger used for debug output.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(d *Decoder) {
		d.log = logger.OrNop(log)
	}
}

// Decoder converts JSON text to a value tree. It is safe for concurrent use.
type Decoder struct {
	useNumber bool
	api       jsoniter.API
	log       *zap.SugaredLogger
}

// NewDecoder creates a Decoder. A nil cfg means the default configuration.
func NewDecoder(cfg *config.Config, opts ...Option) *Decoder {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	d := &Decoder{
		useNumber: cfg.Decode.UseNumber,
		api:       jsoniter.ConfigCompatibleWithStandardLibrary,
		log:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode parses input, which must be a string or a byte slice holding a JSON object or
// array. A nil or zero-length input yields (nil, nil) without parsing.
//
// Objects become *value.Mapping in document order, arrays []any, numbers int64 when
// integral and float64 otherwise (json.Number with decode.use_number).
func (d *Decoder) Decode(input any) (any, error) {
	switch t := input.(type) {
	case nil:
		return nil, nil
	case string:
		return d.decode([]byte(t))
	case []byte:
		return d.decode(t)
	case json.RawMessage:
		return d.decode(t)
	default:
		return nil, errors.NewInvalidInputTypeError(value.TypeName(input))
	}
}

// DecodeString parses JSON text.
func (d *Decoder) DecodeString(text string) (any, error) {
	return d.Decode(text)
}

// DecodeReader parses everything read from r.
func (d *Decoder) DecodeReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewInputError("failed to read input", err)
	}
	return d.decode(data)
}

// DecodeFile parses JSON from a file path
func (d *Decoder) DecodeFile(filePath string) (any, error) {
	if strings.TrimSpace(filePath) == "" {
		return nil, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(filePath)
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", filePath), errors.ErrFileNotFound)
		}
		return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", filePath), err)
	}
	if len(data) == 0 {
		return nil, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", filePath), errors.ErrFileEmpty)
	}
	return d.decode(data)
}

func (d *Decoder) decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, nil
	}

	doc := bytes.TrimLeft(data, whitespace)
	if len(doc) == 0 {
		return nil, errors.NewParseError(errors.ErrEmptyInput)
	}
	if doc[0] != '{' && doc[0] != '[' {
		return nil, errors.NewUnexpectedTokenError(d.literalToken(doc))
	}

	if !validator.IsJSONBytes(doc) {
		return nil, d.diagnose(doc)
	}

	iter := d.api.BorrowIterator(doc)
	defer d.api.ReturnIterator(iter)
	root := d.read(iter)
	if iter.Error != nil && iter.Error != io.EOF {
		return nil, errors.NewParseError(iter.Error)
	}

	d.log.Debugw("decoded JSON", "bytes", len(doc), "root", value.TypeName(root))
	return root, nil
}

// diagnose explains why doc is not a single JSON object or array: the tokenizer's
// syntax error, or the first token after a well-formed root.
func (d *Decoder) diagnose(doc []byte) error {
	iter := d.api.BorrowIterator(doc)
	defer d.api.ReturnIterator(iter)

	raw := iter.SkipAndReturnBytes()
	if iter.Error != nil {
		return errors.NewParseError(iter.Error)
	}
	if rest := bytes.TrimLeft(doc[len(raw):], whitespace); len(rest) > 0 {
		return errors.NewUnexpectedTokenError(d.literalToken(rest))
	}
	return errors.NewParseError(errInvalidDocument)
}

func (d *Decoder) read(iter *jsoniter.Iterator) any {
	switch iter.WhatIsNext() {
	case jsoniter.ObjectValue:
		m := value.NewMapping()
		iter.ReadObjectCB(func(it *jsoniter.Iterator, key string) bool {
			m.Set(key, d.read(it))
			return it.Error == nil
		})
		return m
	case jsoniter.ArrayValue:
		seq := []any{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			seq = append(seq, d.read(it))
			return it.Error == nil
		})
		return seq
	case jsoniter.StringValue:
		return iter.ReadString()
	case jsoniter.NumberValue:
		return d.number(iter.ReadNumber())
	case jsoniter.BoolValue:
		return iter.ReadBool()
	case jsoniter.NilValue:
		iter.ReadNil()
		return nil
	default:
		iter.ReportError("read", "unexpected value")
		return nil
	}
}

// number converts a literal to int64 or float64. A literal outside both ranges, or any
// literal when useNumber is set, stays a json.Number.
func (d *Decoder) number(n json.Number) any {
	if d.useNumber {
		return n
	}
	if !strings.ContainsAny(string(n), ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}

// literalToken returns the offending token at the start of text: the content of a
// string, or the run of characters up to whitespace or a structural character.
func (d *Decoder) literalToken(text []byte) string {
	if text[0] == '"' {
		iter := d.api.BorrowIterator(text)
		defer d.api.ReturnIterator(iter)
		if s := iter.ReadString(); iter.Error == nil || iter.Error == io.EOF {
			return s
		}
	}
	end := bytes.IndexAny(text, whitespace+`,:]}[{"`)
	switch {
	case end < 0:
		return string(text)
	case end == 0:
		return string(text[:1])
	default:
		return string(text[:end])
	}
}
