package transport

import (
	"errors"
	"fmt"
)

// Kind classifies the stage of an execution that failed.
type Kind int

const (
	// KindConfig indicates an invalid request configuration, such as a
	// missing target URL.
	KindConfig Kind = iota + 1
	// KindBody indicates an unsupported request body shape.
	KindBody
	// KindTransport indicates a connection, TLS or timeout failure.
	KindTransport
	// KindStatus indicates the server answered with a non-success status.
	KindStatus
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindBody:
		return "body"
	case KindTransport:
		return "transport"
	case KindStatus:
		return "status"
	default:
		return "unknown"
	}
}

var (
	// ErrNoTarget is returned when neither an absolute URL nor a base
	// address with a relative reference is configured.
	ErrNoTarget = errors.New("no target URL: need an absolute URL or a base address with a relative reference")

	// ErrBodyShape is returned when the request body is not a string,
	// byte slice or io.Reader.
	ErrBodyShape = errors.New("unsupported body shape")
)

// Failure carries the structured outcome of a failed execution.
type Failure struct {
	Kind Kind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}
