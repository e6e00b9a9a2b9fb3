package domain

import "fmt"

// DeviceError reports that an audio input or output device is unavailable or
// was revoked. It is fatal to the current session; reconnection is an
// explicit user action.
type DeviceError struct {
	Op  string
	Err error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("audio device: %s: %v", e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error { return e.Err }

// TransportError reports a channel handshake or mid-session failure on the
// agent connection. Fatal to the current session, same handling as
// DeviceError.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("session transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ProtocolError reports a malformed inbound frame. It is recovered locally:
// the offending payload is dropped and logged, the session continues.
type ProtocolError struct {
	Kind string
	Err  error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol: %s: %v", e.Kind, e.Err)
}

func (e *ProtocolError) Unwrap() error { return e.Err }
