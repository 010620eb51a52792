package main

import (
	"database/sql"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonconv/internal/component"
	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/rows"
	"github.com/mcncl/jsonconv/internal/validator"
	"github.com/mcncl/jsonconv/internal/value"
)

// EncodeCmd converts JSON or YAML input to JSON text
type EncodeCmd struct {
	Input    string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output   string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	From     string `help:"Input format." enum:"json,yaml" default:"json"`
	Pretty   bool   `help:"Pretty print the output (overrides encode.pretty_print)." short:"p"`
	Indent   int    `help:"Spaces per indentation level (overrides encode.indent_factor)." default:"-1"`
	Reformat bool   `help:"Re-serialize JSON input instead of passing it through unchanged. Implied by --pretty and --indent."`
}

// Run executes the encode command
func (c *EncodeCmd) Run(ctx *Context) error {
	var overrides config.Overrides
	if c.Pretty {
		overrides.PrettyPrint = &c.Pretty
	}
	if c.Indent >= 0 {
		overrides.IndentFactor = &c.Indent
	}

	cfg, log, err := ctx.setup(overrides)
	if err != nil {
		return err
	}

	data, err := ctx.readInput(c.Input)
	if err != nil {
		return err
	}

	var msg *component.Message
	switch {
	case c.From == "yaml":
		tree, err := value.FromYAML(data)
		if err != nil {
			return errors.NewInputError("failed to parse YAML input", err)
		}
		msg, err = component.NewObjectToJSON(cfg, log).Apply(component.WithObject(tree))
		if err != nil {
			return err
		}
	case c.Reformat || overrides.PrettyPrint != nil || overrides.IndentFactor != nil:
		pipeline := component.Chain(component.NewJSONToObject(cfg, log), component.NewObjectToJSON(cfg, log))
		msg, err = pipeline.Apply(component.WithJSON(string(data)))
		if err != nil {
			return err
		}
	default:
		msg, err = component.NewObjectToJSON(cfg, log).Apply(component.WithJSON(string(data)))
		if err != nil {
			return err
		}
	}

	if msg.IsEmpty() {
		return errors.NewInputError("input holds no value", errors.ErrEmptyInput)
	}
	return ctx.writeOutput(c.Output, msg.Payload().(string))
}

// DecodeCmd parses JSON input and prints the object tree as YAML
type DecodeCmd struct {
	Input     string `help:"Path to input JSON file. If not specified, reads from stdin." short:"i" type:"path"`
	Output    string `help:"Path to output YAML file. If not specified, writes to stdout." short:"o" type:"path"`
	UseNumber bool   `help:"Keep numbers as written instead of converting them (overrides decode.use_number)."`
}

// Run executes the decode command
func (c *DecodeCmd) Run(ctx *Context) error {
	var overrides config.Overrides
	if c.UseNumber {
		overrides.UseNumber = &c.UseNumber
	}

	cfg, log, err := ctx.setup(overrides)
	if err != nil {
		return err
	}

	data, err := ctx.readInput(c.Input)
	if err != nil {
		return err
	}

	msg, err := component.NewJSONToObject(cfg, log).Apply(component.WithJSON(string(data)))
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(msg.Payload())
	if err != nil {
		return errors.NewOutputError("failed to render YAML", err)
	}
	return ctx.writeOutput(c.Output, string(out))
}

// RowsCmd converts CSV rows or an SQL result set to a JSON array
type RowsCmd struct {
	Input      string `help:"Path to input CSV file. If neither this nor --dsn is given, reads CSV from stdin." short:"i" type:"path"`
	Output     string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	DSN        string `help:"Database connection string. Rows are read from --query instead of CSV." env:"JSONCONV_DSN"`
	Query      string `help:"SQL query whose result set is converted." short:"q"`
	Driver     string `help:"database/sql driver name." default:"postgres"`
	InferTypes bool   `help:"Turn numeric, boolean and empty CSV cells into numbers, booleans and nulls (overrides rows.infer_types)."`
}

// Run executes the rows command
func (c *RowsCmd) Run(ctx *Context) error {
	var overrides config.Overrides
	if c.InferTypes {
		overrides.InferTypes = &c.InferTypes
	}

	cfg, log, err := ctx.setup(overrides)
	if err != nil {
		return err
	}

	var src rows.Source
	if c.DSN != "" {
		if c.Query == "" {
			return errors.NewInputError("--dsn requires --query", errors.ErrNoRowSource)
		}
		db, err := sql.Open(c.Driver, c.DSN)
		if err != nil {
			return errors.NewInputError("failed to open database", err)
		}
		defer db.Close()

		log.Debugw("running query", "driver", c.Driver, "query", c.Query)
		src, err = rows.Query(ctx.Ctx, db, c.Query)
		if err != nil {
			return errors.NewInputError("failed to query database", err)
		}
	} else {
		r, err := ctx.openInput(c.Input)
		if err != nil {
			return err
		}
		defer r.Close()

		src = rows.FromCSV(r, rows.CSVOptions{
			Delimiter:  cfg.DelimiterRune(),
			InferTypes: cfg.Rows.InferTypes,
		})
	}

	msg, err := component.NewRowsToJSON(cfg, log).Apply(component.WithStream(src))
	if err != nil {
		return err
	}
	return ctx.writeOutput(c.Output, msg.Payload().(string))
}

// ValidateCmd checks that the input is a JSON object or array
type ValidateCmd struct {
	Input string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
}

// Run executes the validate command
func (c *ValidateCmd) Run(ctx *Context) error {
	_, log, err := ctx.setup(config.Overrides{})
	if err != nil {
		return err
	}

	data, err := ctx.readInput(c.Input)
	if err != nil {
		return err
	}

	if !validator.IsJSONBytes(data) {
		return errors.NewNotJSONStringError()
	}
	log.Debugw("input is valid", "bytes", len(data))
	return ctx.writeOutput("", "valid")
}
