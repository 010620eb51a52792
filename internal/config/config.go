package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"github.com/iancoleman/strcase"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonconv/internal/errors"
)

// Supported values of naming.field_case.
const (
	FieldCaseNone       = "none"
	FieldCaseCamel      = "camel"
	FieldCaseLowerCamel = "lower_camel"
	FieldCaseSnake      = "snake"
	FieldCaseKebab      = "kebab"
)

var (
	fieldCases = []string{FieldCaseNone, FieldCaseCamel, FieldCaseLowerCamel, FieldCaseSnake, FieldCaseKebab}
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"console", "json"}
)

// Config represents the complete configuration for jsonconv
type Config struct {
	Encode EncodeConfig `yaml:"encode"`
	Decode DecodeConfig `yaml:"decode"`
	Naming NamingConfig `yaml:"naming"`
	Rows   RowsConfig   `yaml:"rows"`
	Log    LogConfig    `yaml:"log"`
}

// EncodeConfig controls how values are written as JSON
type EncodeConfig struct {
	PrettyPrint  bool `yaml:"pretty_print"`
	IndentFactor int  `yaml:"indent_factor"`
	MaxDepth     int  `yaml:"max_depth"`
}

// DecodeConfig controls how JSON text is read
type DecodeConfig struct {
	UseNumber bool `yaml:"use_number"`
}

// NamingConfig controls the member names of structs encoded by reflection
type NamingConfig struct {
	FieldCase     string            `yaml:"field_case"`
	FieldMappings map[string]string `yaml:"field_mappings"`
	SkipFields    []FieldPattern    `yaml:"skip_fields"`
}

// FieldPattern matches Go struct field names
type FieldPattern struct {
	Pattern string `yaml:"pattern"`
	Comment string `yaml:"comment,omitempty"`

	// compiled regex (not serialized)
	regex *regexp.Regexp
}

// RowsConfig controls row stream conversion
type RowsConfig struct {
	IndentFactor int    `yaml:"indent_factor"`
	InferTypes   bool   `yaml:"infer_types"`
	Delimiter    string `yaml:"delimiter"`
}

// LogConfig controls logging output
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Encode: EncodeConfig{
			PrettyPrint:  false,
			IndentFactor: 2,
			MaxDepth:     1000,
		},
		Decode: DecodeConfig{
			UseNumber: false,
		},
		Naming: NamingConfig{
			FieldCase:     FieldCaseNone,
			FieldMappings: make(map[string]string),
			SkipFields:    []FieldPattern{},
		},
		Rows: RowsConfig{
			IndentFactor: 4,
			InferTypes:   false,
			Delimiter:    ",",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewConfigError("failed to read config file", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.NewConfigError("failed to parse config file", err)
	}

	if err := cfg.compilePatterns(); err != nil {
		return nil, errors.NewConfigError("failed to compile patterns", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindConfigFile searches for a config file in current directory and parents
func FindConfigFile() string {
	configNames := []string{".jsonconv.yml", ".jsonconv.yaml", "jsonconv.yml", "jsonconv.yaml"}

	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	// Search up the directory tree
	for {
		for _, name := range configNames {
			configPath := filepath.Join(currentDir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return ""
}

// Validate checks option values that YAML decoding cannot
func (c *Config) Validate() error {
	switch {
	case c.Encode.IndentFactor < 0:
		return errors.NewConfigError(fmt.Sprintf("encode.indent_factor must not be negative, got %d", c.Encode.IndentFactor), nil)
	case c.Encode.MaxDepth <= 0:
		return errors.NewConfigError(fmt.Sprintf("encode.max_depth must be positive, got %d", c.Encode.MaxDepth), nil)
	case c.Rows.IndentFactor < 0:
		return errors.NewConfigError(fmt.Sprintf("rows.indent_factor must not be negative, got %d", c.Rows.IndentFactor), nil)
	case utf8.RuneCountInString(c.Rows.Delimiter) != 1:
		return errors.NewConfigError(fmt.Sprintf("rows.delimiter must be a single character, got %q", c.Rows.Delimiter), nil)
	case !lo.Contains(fieldCases, c.Naming.FieldCase):
		return errors.NewConfigError(fmt.Sprintf("naming.field_case %q is not one of %v", c.Naming.FieldCase, fieldCases), nil)
	case !lo.Contains(logLevels, c.Log.Level):
		return errors.NewConfigError(fmt.Sprintf("log.level %q is not one of %v", c.Log.Level, logLevels), nil)
	case !lo.Contains(logFormats, c.Log.Format):
		return errors.NewConfigError(fmt.Sprintf("log.format %q is not one of %v", c.Log.Format, logFormats), nil)
	}
	return nil
}

// compilePatterns compiles all regex patterns in the config
func (c *Config) compilePatterns() error {
	for i := range c.Naming.SkipFields {
		field := &c.Naming.SkipFields[i]
		regex, err := regexp.Compile(field.Pattern)
		if err != nil {
			return fmt.Errorf("invalid skip field pattern '%s': %w", field.Pattern, err)
		}
		field.regex = regex
	}
	return nil
}

// MatchesField checks if this pattern matches the given field name
func (fp *FieldPattern) MatchesField(fieldName string) bool {
	if fp.regex == nil {
		regex, err := regexp.Compile(fp.Pattern)
		if err != nil {
			return false
		}
		fp.regex = regex
	}
	return fp.regex.MatchString(fieldName)
}

// ShouldSkipField reports whether a struct field is left out of encoded objects
func (c *Config) ShouldSkipField(fieldName string) bool {
	return lo.ContainsBy(c.Naming.SkipFields, func(fp FieldPattern) bool {
		return fp.MatchesField(fieldName)
	})
}

// FieldName returns the JSON member name for an untagged Go struct field,
// applying explicit mappings first and then the configured case.
func (c *Config) FieldName(goName string) string {
	if mapped, exists := c.Naming.FieldMappings[goName]; exists {
		return mapped
	}

	switch c.Naming.FieldCase {
	case FieldCaseCamel:
		return strcase.ToCamel(goName)
	case FieldCaseLowerCamel:
		return strcase.ToLowerCamel(goName)
	case FieldCaseSnake:
		return strcase.ToSnake(goName)
	case FieldCaseKebab:
		return strcase.ToKebab(goName)
	default:
		return goName
	}
}

// DelimiterRune returns rows.delimiter as a rune, a comma when unset
func (c *Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Rows.Delimiter)
	if r == utf8.RuneError {
		return ','
	}
	return r
}

// Overrides carries CLI flags. A nil pointer means the flag was not given.
type Overrides struct {
	PrettyPrint  *bool
	IndentFactor *int
	UseNumber    *bool
	InferTypes   *bool
	Debug        bool
}

// LoadConfigWithCLI loads config with CLI argument precedence:
// CLI flags > config file > defaults
func LoadConfigWithCLI(configPath string, cli Overrides) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cli.PrettyPrint != nil {
		cfg.Encode.PrettyPrint = *cli.PrettyPrint
	}
	if cli.IndentFactor != nil {
		cfg.Encode.IndentFactor = *cli.IndentFactor
	}
	if cli.UseNumber != nil {
		cfg.Decode.UseNumber = *cli.UseNumber
	}
	if cli.InferTypes != nil {
		cfg.Rows.InferTypes = *cli.InferTypes
	}
	if cli.Debug {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
