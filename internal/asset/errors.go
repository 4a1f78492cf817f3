package asset

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrTimeout           = errors.New("asset: fetch timed out")
	ErrRequestFailed     = errors.New("asset: request failed")
	ErrMalformed         = errors.New("asset: malformed payload")
	ErrUnsupported       = errors.New("asset: unsupported asset")
	ErrCancelled         = errors.New("asset: load cancelled")
	ErrNoLoader          = errors.New("asset: no loader registered")
	ErrUnsupportedScheme = errors.New("asset: unsupported url scheme")
)

// TransportReason classifies a TransportError.
type TransportReason int

const (
	// TransportRequestFailed covers non-2xx responses, invalid requests and
	// transport-level failures.
	TransportRequestFailed TransportReason = iota
	// TransportTimeout means no complete response arrived within the timeout.
	TransportTimeout
)

func (r TransportReason) String() string {
	switch r {
	case TransportTimeout:
		return "timeout"
	case TransportRequestFailed:
		return "request failed"
	default:
		return fmt.Sprintf("TransportReason(%d)", int(r))
	}
}

// TransportError is returned by a Fetcher when the payload could not be
// retrieved.
//
// Use errors.Is with ErrTimeout or ErrRequestFailed to test the reason, or
// errors.As to inspect URL and StatusCode.
type TransportError struct {
	Reason     TransportReason
	URL        string
	StatusCode int   // HTTP status, 0 when no response was received
	Err        error // underlying cause, may be nil
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("fetch %s: %s", e.URL, e.Reason)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching e.Reason.
func (e *TransportError) Is(target error) bool {
	switch target {
	case ErrTimeout:
		return e.Reason == TransportTimeout
	case ErrRequestFailed:
		return e.Reason == TransportRequestFailed
	}
	return false
}

// RequestFailed returns a TransportError with reason TransportRequestFailed.
func RequestFailed(url string, status int, err error) *TransportError {
	return &TransportError{Reason: TransportRequestFailed, URL: url, StatusCode: status, Err: err}
}

// Timeout returns a TransportError with reason TransportTimeout.
func Timeout(url string, err error) *TransportError {
	return &TransportError{Reason: TransportTimeout, URL: url, Err: err}
}

// DecodeReason classifies a DecodeError.
type DecodeReason int

const (
	// DecodeMalformed means the bytes are empty or not in a recognized encoding.
	DecodeMalformed DecodeReason = iota
	// DecodeUnsupported means the decoder cannot produce this kind of asset.
	DecodeUnsupported
)

func (r DecodeReason) String() string {
	switch r {
	case DecodeMalformed:
		return "malformed"
	case DecodeUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("DecodeReason(%d)", int(r))
	}
}

// DecodeError is returned by a Decoder when bytes cannot be turned into an
// asset.
type DecodeError struct {
	Reason DecodeReason
	Kind   Kind
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode %s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("decode %s: %s", e.Kind, e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel matching e.Reason.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrMalformed:
		return e.Reason == DecodeMalformed
	case ErrUnsupported:
		return e.Reason == DecodeUnsupported
	}
	return false
}

// Malformed returns a DecodeError with reason DecodeMalformed.
func Malformed(kind Kind, err error) *DecodeError {
	return &DecodeError{Reason: DecodeMalformed, Kind: kind, Err: err}
}

// Unsupported returns a DecodeError with reason DecodeUnsupported.
func Unsupported(kind Kind, err error) *DecodeError {
	return &DecodeError{Reason: DecodeUnsupported, Kind: kind, Err: err}
}
