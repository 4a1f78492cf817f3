package asset

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ligustah/lobby/internal/logging"
)

// Options configures a Loader.
type Options struct {
	// Timeout bounds the fetch of a single load.
	// Default: DefaultTimeout (10s)
	Timeout time.Duration

	// Logger receives load events. Default: discard.
	Logger *log.Logger
}

// Loader composes a Fetcher and a Decoder into a single typed load
// operation. A Loader holds no per-request state and may be used from
// multiple goroutines.
type Loader[T any] struct {
	kind    Kind
	fetcher Fetcher
	decoder Decoder[T]
	timeout time.Duration
	logger  *log.Logger
}

// NewLoader creates a Loader for kind.
func NewLoader[T any](kind Kind, fetcher Fetcher, decoder Decoder[T], opts Options) *Loader[T] {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Loader[T]{
		kind:    kind,
		fetcher: fetcher,
		decoder: decoder,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
}

// Kind returns the asset kind this loader produces.
func (l *Loader[T]) Kind() Kind { return l.kind }

// Timeout returns the per-fetch timeout.
func (l *Loader[T]) Timeout() time.Duration { return l.timeout }

// LoadFromURL fetches url and decodes it. It blocks until the outcome is
// known; use Start to run it in the background.
func (l *Loader[T]) LoadFromURL(ctx context.Context, url string) Outcome[T] {
	req, err := NewRequest(url, l.kind, l.timeout)
	if err != nil {
		l.logger.Error("invalid asset request", "kind", l.kind, "url", url, "err", err)
		return Failed[T](RequestFailed(url, 0, err))
	}
	return l.Load(ctx, req)
}

// Load runs req. The decoder is only invoked after a successful fetch and
// only if ctx is still live.
func (l *Loader[T]) Load(ctx context.Context, req Request) Outcome[T] {
	logger := l.logger.With("kind", req.Kind(), "request_id", uuid.NewString())

	if ctx.Err() != nil {
		return Cancelled[T]()
	}

	logger.Debug("loading asset", "url", req.URL(), "timeout", req.Timeout())
	payload, err := l.fetcher.Fetch(ctx, req.URL(), req.Timeout())
	if err != nil {
		if errors.Is(err, ErrCancelled) || ctx.Err() != nil {
			logger.Debug("asset load cancelled during fetch", "url", req.URL())
			return Cancelled[T]()
		}
		logger.Error("error downloading asset", "url", req.URL(), "err", err)
		return Failed[T](err)
	}

	// Superseded while the body was in flight.
	if ctx.Err() != nil {
		logger.Debug("asset load cancelled before decode", "url", req.URL())
		return Cancelled[T]()
	}

	asset, err := l.decoder.Decode(payload.Bytes)
	if err != nil {
		var de *DecodeError
		if !errors.As(err, &de) {
			err = Malformed(req.Kind(), err)
		}
		logger.Warn("error decoding asset", "url", req.URL(), "err", err)
		return Failed[T](err)
	}

	logger.Info("asset loaded", "url", req.URL(), "bytes", len(payload.Bytes))
	return Succeeded(asset)
}

// Start runs LoadFromURL on a new goroutine and returns a handle to it.
func (l *Loader[T]) Start(ctx context.Context, url string) *Task[T] {
	return Go(ctx, func(ctx context.Context) Outcome[T] {
		return l.LoadFromURL(ctx, url)
	})
}

func (l *Loader[T]) String() string {
	return fmt.Sprintf("Loader[%s]", l.kind)
}
