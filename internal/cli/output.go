package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes. Only conform distinguishes 1 from 2: a scenario that
// ran and disagreed is 1, anything that kept a command from running is 2.
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// Codes carried in CLIError.Code and printed as "Error [Exxx]".
const (
	ErrCodeGeneric     = "E001"
	ErrCodeOperand     = "E002" // operand is not N, N/D or a u64
	ErrCodeLibrary     = "E003" // --lib could not be opened
	ErrCodeConfig      = "E004" // rational.build.yaml, RATIONAL_* or flags rejected
	ErrCodeBuild       = "E005" // go build failed
	ErrCodeScenario    = "E006"
	ErrCodeWriteFailed = "E007"
	ErrCodeWorkspace   = "E008" // no go.mod above --dir
)

// ExitError is returned from RunE once the failure has been reported.
// cmd/rational exits with Code and prints nothing further.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError with no cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError caused by err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the Code of the ExitError in err's chain, or
// ExitFailure when there is none.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a JSON envelope.
// Results and errors go to Writer; toolchain stderr and --verbose notes go
// to ErrWriter so JSON on stdout stays parseable.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // nil means Writer
	Verbose   bool
}

// CLIResponse is the --format json envelope.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" | "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
}

// CLIError is the error half of CLIResponse.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Success writes a result. Text mode prints data with fmt.Println, so every
// result type (SumResult, BuildResult, ...) implements fmt.Stringer.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return f.envelope(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error writes an error. Details are shown in text mode only with --verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return f.envelope(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}
	text := fmt.Sprintf("Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		text += fmt.Sprintf("Details: %v\n", details)
	}
	_, err := io.WriteString(f.Writer, text)
	return err
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

// envelope writes resp as one line of JSON.
func (f *OutputFormatter) envelope(resp CLIResponse) error {
	return json.NewEncoder(f.Writer).Encode(resp)
}

// Fail reports err in the configured format and returns an ExitError
// carrying exitCode, so RunE can `return f.Fail(...)`.
func (f *OutputFormatter) Fail(exitCode int, code, message string, err error) error {
	var details any
	if err != nil {
		details = err.Error()
	}
	if outErr := f.Error(code, message, details); outErr != nil {
		return outErr
	}
	return WrapExitError(exitCode, message, err)
}

// VerboseLog writes a --verbose note to ErrWriter.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter, falling back to Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
