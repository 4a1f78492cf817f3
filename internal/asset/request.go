package asset

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"
)

// DefaultTimeout bounds a single fetch when a loader is not configured
// otherwise.
const DefaultTimeout = 10 * time.Second

// Request describes one load. It is immutable once constructed.
type Request struct {
	url     string
	kind    Kind
	timeout time.Duration
}

// NewRequest validates its arguments and returns a Request.
func NewRequest(rawURL string, kind Kind, timeout time.Duration) (Request, error) {
	if err := ValidateURL(rawURL); err != nil {
		return Request{}, err
	}
	if timeout <= 0 {
		return Request{}, fmt.Errorf("asset: timeout must be positive, got %v", timeout)
	}
	return Request{url: rawURL, kind: kind, timeout: timeout}, nil
}

func (r Request) URL() string            { return r.url }
func (r Request) Kind() Kind             { return r.kind }
func (r Request) Timeout() time.Duration { return r.timeout }

// ValidateURL reports whether rawURL is an absolute URL with a scheme and,
// for network schemes, a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return errors.New("asset: url is empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("asset: parse url: %w", err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("asset: url %q is not absolute", rawURL)
	}
	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return fmt.Errorf("asset: url %q has no host", rawURL)
	}
	return nil
}

// RawPayload is the undecoded body of a fetched asset. It is handed to exactly
// one Decoder and not retained afterwards.
type RawPayload struct {
	Bytes       []byte
	SourceURL   string
	ContentType string
}

// Fetcher retrieves raw bytes for a URL.
//
// Implementations must return a *TransportError for every failure except
// cancellation of ctx by the caller, which is reported as ErrCancelled.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) (*RawPayload, error)
}

// Decoder turns raw bytes into a typed asset. Implementations must be pure:
// the same bytes always yield the same outcome. Failures are *DecodeError.
type Decoder[T any] interface {
	Decode(data []byte) (T, error)
}

// DecoderFunc adapts a function to the Decoder interface.
type DecoderFunc[T any] func(data []byte) (T, error)

func (f DecoderFunc[T]) Decode(data []byte) (T, error) { return f(data) }
