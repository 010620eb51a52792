package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/alecthomas/kong"
	_ "github.com/lib/pq" // postgres driver for `jsonconv rows --dsn`
	"go.uber.org/zap"

	"github.com/mcncl/jsonconv/internal/config"
	"github.com/mcncl/jsonconv/internal/errors"
	"github.com/mcncl/jsonconv/internal/logger"
)

// Version information
const (
	Version = "0.1.0"
)

// Globals are the flags shared by every command
type Globals struct {
	Config  string           `help:"Path to config file. If not specified, .jsonconv.yml is searched for in the current directory and its parents." short:"c" type:"path"`
	Debug   bool             `help:"Enable debug logging." short:"d"`
	Version kong.VersionFlag `help:"Show version information." short:"v"`
}

// CLI defines the command-line interface
var CLI struct {
	Globals

	Encode   EncodeCmd   `cmd:"" help:"Convert JSON or YAML input to JSON text."`
	Decode   DecodeCmd   `cmd:"" help:"Parse JSON input and print the resulting object tree as YAML."`
	Rows     RowsCmd     `cmd:"" help:"Convert CSV rows or an SQL result set to a JSON array of objects."`
	Validate ValidateCmd `cmd:"" help:"Check that the input is a JSON object or array."`
}

// Context holds the runtime context shared by the commands
type Context struct {
	*Globals

	Ctx    context.Context
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonconv"),
		kong.Description("A tool to convert between JSON text and objects, YAML, CSV and SQL rows"),
		kong.UsageOnError(),
		kong.Vars{"version": "jsonconv version " + Version},
	)

	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = kctx.Run(&Context{
		Globals: &CLI.Globals,
		Ctx:     ctx,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	})
	if err != nil {
		// Use our custom error handling to provide user-friendly error messages
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: jsonconv --help\n")
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration with CLI precedence and builds the logger
func (c *Context) setup(overrides config.Overrides) (*config.Config, *zap.SugaredLogger, error) {
	path := c.Config
	if path == "" {
		path = config.FindConfigFile()
	}
	overrides.Debug = c.Debug

	cfg, err := config.LoadConfigWithCLI(path, overrides)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Log, c.Stderr)
	if err != nil {
		return nil, nil, err
	}
	if path != "" {
		log.Debugw("loaded config file", "path", path)
	}
	return cfg, log, nil
}

// readInput reads the whole input from a file or stdin
func (c *Context) readInput(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if stderrors.Is(err, os.ErrNotExist) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
		}
		if len(data) == 0 {
			return nil, errors.NewInputError(fmt.Sprintf("input file '%s' is empty", path), errors.ErrFileEmpty)
		}
		return data, nil
	}

	if err := c.checkStdin(); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(c.Stdin)
	if err != nil {
		return nil, errors.NewInputError("failed to read from stdin", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return data, nil
}

// openInput opens a file or stdin for streaming readers
func (c *Context) openInput(path string) (io.ReadCloser, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			if stderrors.Is(err, os.ErrNotExist) {
				return nil, errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
			}
			return nil, errors.NewInputError(fmt.Sprintf("failed to open file '%s'", path), err)
		}
		return f, nil
	}

	if err := c.checkStdin(); err != nil {
		return nil, err
	}
	return io.NopCloser(c.Stdin), nil
}

// checkStdin fails when stdin is an interactive terminal with nothing piped in
func (c *Context) checkStdin() error {
	f, ok := c.Stdin.(*os.File)
	if !ok {
		return nil
	}
	stat, err := f.Stat()
	if err != nil {
		return errors.NewInputError("failed to access stdin", err)
	}
	if stat.Mode()&os.ModeCharDevice != 0 {
		return errors.NewInputError("no input provided", errors.ErrNoInput)
	}
	return nil
}

// writeOutput writes text to a file or stdout
func (c *Context) writeOutput(path, text string) error {
	if path != "" {
		if err := os.WriteFile(path, []byte(strings.TrimSpace(text)+"\n"), 0o644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", path), err)
		}
		fmt.Fprintf(c.Stderr, "Output written to %s\n", path)
		return nil
	}

	if _, err := fmt.Fprintln(c.Stdout, strings.TrimSpace(text)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
