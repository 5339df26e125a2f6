package snakes

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidMessageType = errors.New("invalid message type")
	ErrEncodeFailed       = errors.New("failed to encode command")
	ErrDecodeFailed       = errors.New("failed to decode frame")
	ErrClosed             = errors.New("connection closed")
	ErrFailed             = errors.New("connection failed")
	ErrNotOpen            = errors.New("connection not open yet")
	ErrSendBufferFull     = errors.New("send buffer full")
	ErrHandshakeCommand   = errors.New("SetName is sent by the handshake")
)

// ConnectError is returned when the address is malformed or the transport could not be set up.
type ConnectError struct {
	Address string
	Err     error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("failed to connect to %q: %s", e.Address, e.Err)
}

func (e *ConnectError) Unwrap() error {
	return e.Err
}

// DecodeError reports an inbound frame that could not be decoded.
// It never terminates the connection.
type DecodeError struct {
	Frame []byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", ErrDecodeFailed, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Is(target error) bool {
	return target == ErrDecodeFailed
}

// FailedError is returned by operations on a connection that ended with a transport error.
// Err is the underlying cause.
type FailedError struct {
	Err error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrFailed, e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}

func (e *FailedError) Is(target error) bool {
	return target == ErrFailed
}
