package entity

import (
	"errors"
	"fmt"
)

var (
	ErrUpstreamUnavailable = errors.New("language model unavailable")
	ErrUnrecognizedTool    = errors.New("unrecognized tool")
	ErrInvalidArguments    = errors.New("invalid tool arguments")
)

// CapabilityFailure is a recoverable tool failure. Its text is handed back to
// the model as the tool result instead of aborting the run.
type CapabilityFailure struct {
	Tool  ToolName
	Cause string
}

func NewCapabilityFailure(tool ToolName, format string, args ...any) *CapabilityFailure {
	return &CapabilityFailure{Tool: tool, Cause: fmt.Sprintf(format, args...)}
}

func (f *CapabilityFailure) Error() string {
	return f.Cause
}

// UnrecognizedToolError carries the name the model asked for.
type UnrecognizedToolError struct {
	Name string
}

func (e *UnrecognizedToolError) Error() string {
	return fmt.Sprintf("unrecognized tool %q", e.Name)
}

func (e *UnrecognizedToolError) Unwrap() error {
	return ErrUnrecognizedTool
}
