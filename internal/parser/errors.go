package parser

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/Sarang095/dcrx/internal/instruction"
)

// Common error variables
var (
	ErrEmptyDocument    = errors.New("document has no instructions")
	ErrInstructionCount = errors.New("instruction count mismatch")
)

// ErrorCode represents specific error types for better error handling
type ErrorCode int

const (
	CodeSyntaxError ErrorCode = iota + 1
	CodeValidationError
	CodeIOError
	CodeInternalError
)

func (c ErrorCode) String() string {
	switch c {
	case CodeSyntaxError:
		return "syntax"
	case CodeValidationError:
		return "validation"
	case CodeIOError:
		return "io"
	case CodeInternalError:
		return "internal"
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// DockerfileError provides detailed error information
type DockerfileError struct {
	Code     ErrorCode
	Stage    string   // build stage alias if applicable
	Position Position // error location
	Message  string   // user-friendly message
	Snippet  string   // problematic logical line
	Hints    []string // suggested fixes
	Cause    error    // underlying error
}

func (e *DockerfileError) Error() string {
	var sb strings.Builder

	if e.Stage != "" {
		sb.WriteString(fmt.Sprintf("stage %q: ", e.Stage))
	}
	sb.WriteString(fmt.Sprintf("%s: %s", e.Position, e.Message))

	if e.Snippet != "" {
		sb.WriteString("\n    " + e.Snippet)
	}
	for _, hint := range e.Hints {
		sb.WriteString("\n  hint: " + hint)
	}
	return sb.String()
}

func (e *DockerfileError) Unwrap() error {
	return e.Cause
}

// ErrorCollector collects multiple errors during parsing
type ErrorCollector struct {
	errors []error
}

func NewErrorCollector() *ErrorCollector {
	return &ErrorCollector{
		errors: make([]error, 0),
	}
}

func (c *ErrorCollector) Add(err error) {
	if err != nil {
		c.errors = append(c.errors, err)
	}
}

func (c *ErrorCollector) HasErrors() bool {
	return len(c.errors) > 0
}

func (c *ErrorCollector) Errors() []error {
	return c.errors
}

// Error constructors

func NewSyntaxError(pos Position, message string, cause error) *DockerfileError {
	return &DockerfileError{
		Code:     CodeSyntaxError,
		Position: pos,
		Message:  message,
		Hints:    hintsFor(message),
		Cause:    cause,
	}
}

// NewValidationError wraps the validation failure of the instruction at pos
func NewValidationError(stage string, pos Position, snippet string, cause error) *DockerfileError {
	return &DockerfileError{
		Code:     CodeValidationError,
		Stage:    stage,
		Position: pos,
		Message:  cause.Error(),
		Snippet:  snippet,
		Hints:    hintsFor(cause.Error()),
		Cause:    cause,
	}
}

func NewIOError(filename string, cause error) *DockerfileError {
	return &DockerfileError{
		Code:     CodeIOError,
		Position: Position{Filename: filename},
		Message:  cause.Error(),
		Cause:    cause,
	}
}

// IsValidationError reports whether err carries an instruction validation failure
func IsValidationError(err error) bool {
	var verr *instruction.ValidationError
	return errors.As(err, &verr)
}

var commonErrors = []struct {
	pattern string
	hint    string
}{
	{"--chmod", "permissions are written as 3 or 4 octal digits, for example 0755"},
	{"protocol", "ports are written as port[/tcp|udp|sctp]"},
	{"requires a source", "ADD and COPY need at least a source and a destination"},
	{"json array", `write the command as a JSON array, for example ["/bin/sh", "-c"]`},
	{"onbuild", "ONBUILD cannot wrap ONBUILD, FROM, ARG or MAINTAINER"},
	{"mount", "mount options are comma separated key=value pairs, for example type=cache,target=/root/.cache"},
	{"unknown signal", "use a signal number or a name such as SIGTERM"},
	{"whole number", "healthcheck durations must be whole seconds, for example 30s or 1m"},
	{"unknown instruction", "instruction keywords are written in upper case (FROM, RUN, COPY)"},
}

func hintsFor(message string) []string {
	hints := make([]string, 0)

	lower := strings.ToLower(message)
	for _, e := range commonErrors {
		if strings.Contains(lower, e.pattern) {
			hints = append(hints, e.hint)
		}
	}
	return hints
}
