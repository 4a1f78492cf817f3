package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/bytesize"
	"github.com/ligustah/lobby/internal/logging"
)

// Common errors.
var (
	ErrNotFound        = errors.New("http: resource not found")
	ErrForbidden       = errors.New("http: access forbidden")
	ErrUnauthorized    = errors.New("http: unauthorized")
	ErrServerError     = errors.New("http: server error")
	ErrPayloadTooLarge = errors.New("http: payload exceeds size limit")
)

// errFetchTimeout is the cancellation cause of a request that ran out of time.
var errFetchTimeout = errors.New("http: fetch deadline reached")

// Options configures the HTTP client.
type Options struct {
	// MaxIdleConnsPerHost sets the maximum idle connections per host.
	// Default: 16
	MaxIdleConnsPerHost int

	// MaxSize caps the number of body bytes read per fetch.
	// Default: 32MiB
	MaxSize int64

	// Logger receives fetch events. Default: discard.
	Logger *log.Logger
}

// DefaultOptions returns options with sensible defaults.
func DefaultOptions() Options {
	return Options{
		MaxIdleConnsPerHost: 16,
		MaxSize:             32 * bytesize.MiB,
	}
}

// Client fetches asset payloads over plain HTTP GET.
type Client struct {
	client *http.Client
	opts   Options
}

// NewClient creates a new HTTP client with the given options.
func NewClient(opts Options) *Client {
	def := DefaultOptions()
	if opts.MaxIdleConnsPerHost <= 0 {
		opts.MaxIdleConnsPerHost = def.MaxIdleConnsPerHost
	}
	if opts.MaxSize <= 0 {
		opts.MaxSize = def.MaxSize
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		MaxIdleConnsPerHost: opts.MaxIdleConnsPerHost,
		MaxIdleConns:        opts.MaxIdleConnsPerHost * 2,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		client: &http.Client{Transport: transport},
		opts:   opts,
	}
}

// Fetch performs a GET request for url and returns the full body.
//
// The whole exchange, headers and body, must finish within timeout or a
// timeout error is returned. Cancellation of ctx is reported as
// asset.ErrCancelled. Fetch never retries.
func (c *Client) Fetch(ctx context.Context, url string, timeout time.Duration) (*asset.RawPayload, error) {
	logger := c.opts.Logger.With("url", url)

	if err := asset.ValidateURL(url); err != nil {
		return nil, c.fail(logger, asset.RequestFailed(url, 0, err))
	}
	if timeout <= 0 {
		return nil, c.fail(logger, asset.RequestFailed(url, 0, fmt.Errorf("timeout must be positive, got %v", timeout)))
	}

	logger.Info("fetching asset", "timeout", timeout)

	reqCtx, cancel := context.WithTimeoutCause(ctx, timeout, errFetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, c.fail(logger, asset.RequestFailed(url, 0, fmt.Errorf("create request: %w", err)))
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classify(ctx, reqCtx, logger, url, 0, err)
	}
	defer resp.Body.Close()

	if err := checkStatusCode(resp.StatusCode); err != nil {
		return nil, c.fail(logger, asset.RequestFailed(url, resp.StatusCode, err))
	}

	if resp.ContentLength > c.opts.MaxSize {
		return nil, c.fail(logger, asset.RequestFailed(url, resp.StatusCode,
			fmt.Errorf("%w: %s > %s", ErrPayloadTooLarge,
				bytesize.Format(resp.ContentLength), bytesize.Format(c.opts.MaxSize))))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.opts.MaxSize+1))
	if err != nil {
		return nil, c.classify(ctx, reqCtx, logger, url, resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if int64(len(data)) > c.opts.MaxSize {
		return nil, c.fail(logger, asset.RequestFailed(url, resp.StatusCode,
			fmt.Errorf("%w: limit %s", ErrPayloadTooLarge, bytesize.Format(c.opts.MaxSize))))
	}

	logger.Debug("fetched asset", "status", resp.StatusCode, "size", bytesize.Format(int64(len(data))))

	return &asset.RawPayload{
		Bytes:       data,
		SourceURL:   url,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// classify turns a transport error into a timeout, a cancellation or a
// request failure depending on which context ended.
func (c *Client) classify(parent, reqCtx context.Context, logger *log.Logger, url string, status int, err error) error {
	switch {
	case parent.Err() != nil:
		logger.Debug("fetch cancelled", "err", err)
		return asset.ErrCancelled
	case errors.Is(context.Cause(reqCtx), errFetchTimeout):
		return c.fail(logger, asset.Timeout(url, err))
	default:
		return c.fail(logger, asset.RequestFailed(url, status, err))
	}
}

func (c *Client) fail(logger *log.Logger, err *asset.TransportError) error {
	logger.Error("error fetching asset", "reason", err.Reason, "status", err.StatusCode, "err", err.Err)
	return err
}

// checkStatusCode returns an appropriate error for non-success status codes.
func checkStatusCode(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusForbidden:
		return ErrForbidden
	case code == http.StatusUnauthorized:
		return ErrUnauthorized
	case code >= 500:
		return fmt.Errorf("%w: %d", ErrServerError, code)
	default:
		return fmt.Errorf("unexpected status code: %d", code)
	}
}
