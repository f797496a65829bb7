package types

import (
	"errors"
	"fmt"
)

var (
	// ErrEncoding is returned when a protocol specific payload is malformed
	// and cannot be turned into calldata
	ErrEncoding = errors.New("encoding error")

	// ErrUnsupportedProtocol is returned when no encoder handles an order tag
	// or operation
	ErrUnsupportedProtocol = errors.New("unsupported protocol")
)

type EncodingError struct {
	Protocol string
	Msg      string
}

func (e *EncodingError) Error() string {
	if e.Protocol == "" {
		return fmt.Sprintf("encoding error: %s", e.Msg)
	}
	return fmt.Sprintf("encoding error (%s): %s", e.Protocol, e.Msg)
}

func (e *EncodingError) Unwrap() error { return ErrEncoding }

// Encodingf builds an EncodingError for protocol with a formatted message
func Encodingf(protocol string, format string, args ...any) error {
	return &EncodingError{Protocol: protocol, Msg: fmt.Sprintf(format, args...)}
}

type UnsupportedError struct {
	Protocol string
	Op       string
}

func (e *UnsupportedError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("unsupported protocol: %q", e.Protocol)
	}
	return fmt.Sprintf("unsupported protocol: %q does not support %s", e.Protocol, e.Op)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupportedProtocol }
