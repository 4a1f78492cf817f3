package asset

import (
	"errors"
	"fmt"
)

// Status identifies which variant of an Outcome is populated. The zero
// value is StatusPending, so an unset Outcome never reads as a success.
type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusTransportFailure
	StatusDecodeFailure
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusSuccess:
		return "success"
	case StatusTransportFailure:
		return "transport failure"
	case StatusDecodeFailure:
		return "decode failure"
	case StatusCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Outcome is the terminal result of a load. Asset is only meaningful when
// Status is StatusSuccess; Err is set for every terminal failure status.
// A pending Outcome has neither.
type Outcome[T any] struct {
	Status Status
	Asset  T
	Err    error
}

// Succeeded returns a successful Outcome carrying asset.
func Succeeded[T any](asset T) Outcome[T] {
	return Outcome[T]{Status: StatusSuccess, Asset: asset}
}

// Cancelled returns a cancelled Outcome.
func Cancelled[T any]() Outcome[T] {
	return Outcome[T]{Status: StatusCancelled, Err: ErrCancelled}
}

// Failed classifies err into the matching Outcome variant. Errors that are
// neither transport nor decode errors are treated as transport failures.
func Failed[T any](err error) Outcome[T] {
	var te *TransportError
	var de *DecodeError
	switch {
	case errors.Is(err, ErrCancelled):
		return Cancelled[T]()
	case errors.As(err, &de):
		return Outcome[T]{Status: StatusDecodeFailure, Err: de}
	case errors.As(err, &te):
		return Outcome[T]{Status: StatusTransportFailure, Err: te}
	default:
		return Outcome[T]{Status: StatusTransportFailure, Err: &TransportError{Reason: TransportRequestFailed, Err: err}}
	}
}

// OK reports whether the outcome carries an asset.
func (o Outcome[T]) OK() bool { return o.Status == StatusSuccess }

// TransportError returns the transport error of a TransportFailure outcome.
func (o Outcome[T]) TransportError() (*TransportError, bool) {
	var te *TransportError
	if o.Status != StatusTransportFailure || !errors.As(o.Err, &te) {
		return nil, false
	}
	return te, true
}

// DecodeError returns the decode error of a DecodeFailure outcome.
func (o Outcome[T]) DecodeError() (*DecodeError, bool) {
	var de *DecodeError
	if o.Status != StatusDecodeFailure || !errors.As(o.Err, &de) {
		return nil, false
	}
	return de, true
}

func (o Outcome[T]) String() string {
	if o.Err != nil {
		return fmt.Sprintf("%s: %v", o.Status, o.Err)
	}
	return o.Status.String()
}
