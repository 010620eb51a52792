package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrFileNotFound    = errors.New("file not found")
	ErrFileEmpty       = errors.New("file is empty")
	ErrNoInput         = errors.New("no input provided: please specify a file with -i or pipe data to stdin")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrNoRowSource     = errors.New("no row source: provide a CSV file with -i or a --dsn and --query")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInvalidInputType  ErrorType = "invalid_input_type"
	ErrorTypeParse             ErrorType = "parse"
	ErrorTypeUnexpectedToken   ErrorType = "unexpected_token"
	ErrorTypeNotJSONString     ErrorType = "not_json_string"
	ErrorTypeNotValidJSONRoot  ErrorType = "not_valid_json_root"
	ErrorTypeWrongArgumentType ErrorType = "wrong_argument_type"
	ErrorTypeConversion        ErrorType = "conversion"
	ErrorTypeInput             ErrorType = "input"
	ErrorTypeOutput            ErrorType = "output"
	ErrorTypeConfig            ErrorType = "config"
	ErrorTypeUnknown           ErrorType = "unknown"
)

// Typed sentinels for errors.Is matching. Only the Type is compared.
var (
	ErrInvalidInputType  = &AppError{Type: ErrorTypeInvalidInputType}
	ErrParse             = &AppError{Type: ErrorTypeParse}
	ErrUnexpectedToken   = &AppError{Type: ErrorTypeUnexpectedToken}
	ErrNotJSONString     = &AppError{Type: ErrorTypeNotJSONString}
	ErrNotValidJSONRoot  = &AppError{Type: ErrorTypeNotValidJSONRoot}
	ErrWrongArgumentType = &AppError{Type: ErrorTypeWrongArgumentType}
	ErrConversion        = &AppError{Type: ErrorTypeConversion}
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInvalidInputTypeError reports a decode input that is neither a string nor a byte slice.
func NewInvalidInputTypeError(typeName string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInputType,
		Message: fmt.Sprintf("the payload of type (%s) is not a string, only a string or byte slice can be converted to an object", typeName),
	}
}

// NewParseError wraps a tokenizer failure; the tokenizer diagnostic is kept verbatim in Err.
func NewParseError(err error) *AppError {
	return &AppError{
		Type:    ErrorTypeParse,
		Message: "the JSON cannot be parsed",
		Err:     err,
	}
}

// NewUnexpectedTokenError reports a root or trailing token that is not an object or array.
func NewUnexpectedTokenError(token string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnexpectedToken,
		Message: fmt.Sprintf("the JSON cannot be parsed, token '%s' was not expected", token),
	}
}

// NewNotJSONStringError reports a string payload that is not a JSON object or array.
func NewNotJSONStringError() *AppError {
	return &AppError{
		Type:    ErrorTypeNotJSONString,
		Message: "the given string is not a valid JSON object or array",
	}
}

// NewNotValidJSONRootError reports an encoded root that is neither an object nor an array.
func NewNotValidJSONRootError(typeName string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotValidJSONRoot,
		Message: fmt.Sprintf("a JSON root must be an object or an array, but type=[%s] was given", typeName),
	}
}

// NewWrongArgumentTypeError reports a row stream declaring an unexpected element type.
func NewWrongArgumentTypeError(component, expected, actual string) *AppError {
	return &AppError{
		Type:    ErrorTypeWrongArgumentType,
		Message: fmt.Sprintf("%s expects a stream of type=[%s] but type=[%s] was given", component, expected, actual),
	}
}

// NewConversionError creates a generic error raised while building the JSON structure
func NewConversionError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConversion,
		Message: message,
		Err:     err,
	}
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to configuration loading
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		detail := appErr.Message
		if appErr.Err != nil {
			detail = fmt.Sprintf("%s (%v)", appErr.Message, appErr.Err)
		}
		switch appErr.Type {
		case ErrorTypeInvalidInputType:
			return fmt.Sprintf("Invalid input: %s", detail)
		case ErrorTypeParse, ErrorTypeUnexpectedToken:
			return fmt.Sprintf("JSON parsing error: %s", detail)
		case ErrorTypeNotJSONString, ErrorTypeNotValidJSONRoot:
			return fmt.Sprintf("JSON encoding error: %s", detail)
		case ErrorTypeWrongArgumentType:
			return fmt.Sprintf("Row stream error: %s", detail)
		case ErrorTypeConversion:
			return fmt.Sprintf("Conversion error: %s", detail)
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", detail)
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", detail)
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", detail)
		default:
			return fmt.Sprintf("Error: %s", detail)
		}
	}

	// Handle standard errors
	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide JSON or YAML data."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}
	if errors.Is(err, ErrFileEmpty) {
		return "Error: The specified file is empty."
	}
	if errors.Is(err, ErrNoInput) {
		return "Error: No input provided. Please specify a file with -i or pipe data to stdin."
	}
	if errors.Is(err, ErrInvalidFilePath) {
		return "Error: Invalid file path. Please provide a valid file path."
	}
	if errors.Is(err, ErrNoRowSource) {
		return "Error: No row source. Provide a CSV file with -i or a --dsn and --query."
	}

	// Generic error message for unknown errors
	return fmt.Sprintf("Error: %v", err)
}
