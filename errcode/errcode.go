package errcode

import (
	"context"
	"errors"
)

// Code is a stable, log-facing error identifier.
// It is a string newtype, comparable, allocation-free, and implements error.
type Code string

func (c Code) Error() string { return string(c) }

// Canonical codes (short, stable).
const (
	OK            Code = "ok"
	InvalidParams Code = "invalid_params"
	Unsupported   Code = "unsupported"
	Timeout       Code = "timeout"

	// Sensor collaborator.
	SensorRead    Code = "sensor_read"
	SensorTimeout Code = "sensor_timeout"

	// Display collaborator.
	DisplayIO       Code = "display_io"
	DisplayNotReady Code = "display_not_ready"
	OutOfBounds     Code = "out_of_bounds"

	// Fixed-capacity text formatting.
	BufferFull Code = "buffer_full"

	Error Code = "error" // generic fallback
)

// E keeps the operation and cause next to a Code.
type E struct {
	C   Code
	Op  string
	Msg string
	Err error
}

func (e *E) Error() string {
	s := string(e.C)
	if e.Op != "" {
		s = e.Op + ": " + s
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil && e.Err != error(e.C) {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *E) Unwrap() error { return e.Err }
func (e *E) Code() Code    { return e.C }

// Is lets errors.Is(err, errcode.SensorRead) match a wrapped *E.
func (e *E) Is(target error) bool {
	c, ok := target.(Code)
	return ok && c == e.C
}

// Wrap attaches c and op to err. A nil err stays nil.
func Wrap(c Code, op string, err error) error {
	if err == nil {
		return nil
	}
	return &E{C: c, Op: op, Err: err}
}

// New builds an *E without a cause.
func New(c Code, op, msg string) error {
	return &E{C: c, Op: op, Msg: msg}
}

// Of extracts a Code from an error, defaulting to Error.
func Of(err error) Code {
	if err == nil {
		return OK
	}
	type coder interface{ Code() Code }
	var x coder
	if errors.As(err, &x) {
		return x.Code()
	}
	var c Code
	if errors.As(err, &c) {
		return c
	}
	return Error
}

// Sensor classifies an error returned by a sensor collaborator. Errors that
// already carry a code keep it; a bare Timeout becomes SensorTimeout.
func Sensor(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *E
	if errors.As(err, &e) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, Timeout) {
		return Wrap(SensorTimeout, op, err)
	}
	if c, ok := err.(Code); ok {
		return Wrap(c, op, err)
	}
	return Wrap(SensorRead, op, err)
}

// Display classifies an error returned by a display collaborator. Errors
// that already carry a code keep it.
func Display(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *E
	if errors.As(err, &e) {
		return err
	}
	if c, ok := err.(Code); ok {
		return Wrap(c, op, err)
	}
	return Wrap(DisplayIO, op, err)
}
