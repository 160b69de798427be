package dyn4j

import "errors"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Construction errors
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeMissingArgument Code = "MISSING_ARGUMENT"
	CodeDegenerateShape Code = "DEGENERATE_SHAPE"
	CodeInvalidSettings Code = "INVALID_SETTINGS"

	// Usage errors
	CodeReentrantStep Code = "REENTRANT_STEP"
	CodeWorldLocked   Code = "WORLD_LOCKED"
)

// Error is a domain error carrying a Code and the offending parameter.
type Error struct {
	Code    Code
	Param   string
	Message string
}

func (e *Error) Error() string {
	if e.Param == "" {
		return string(e.Code) + ": " + e.Message
	}
	return string(e.Code) + " (" + e.Param + "): " + e.Message
}

func invalidArgument(param, msg string) error {
	return &Error{Code: CodeInvalidArgument, Param: param, Message: msg}
}

func missingArgument(param string) error {
	return &Error{Code: CodeMissingArgument, Param: param, Message: param + " is required"}
}

func degenerateShape(param, msg string) error {
	return &Error{Code: CodeDegenerateShape, Param: param, Message: msg}
}

func worldLocked(op string) error {
	return &Error{Code: CodeWorldLocked, Message: op + " called while the world is stepping"}
}

func reentrantStep() error {
	return &Error{Code: CodeReentrantStep, Message: "Step called from inside a step callback"}
}

// GetCode extracts the error code from any error.
// Returns CodeUnknown if the error is not a domain error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// IsCode checks if the error has the specified code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// GetParam returns the parameter an error refers to, if any.
func GetParam(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Param
	}
	return ""
}
