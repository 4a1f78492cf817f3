package bucket

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gocloud.dev/blob"
	"gocloud.dev/gcerrors"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/bytesize"
	"github.com/ligustah/lobby/internal/logging"
)

// Common errors.
var (
	ErrNotFound        = errors.New("bucket: object not found")
	ErrPayloadTooLarge = errors.New("bucket: object exceeds size limit")
)

var errFetchTimeout = errors.New("bucket: fetch deadline reached")

// Schemes lists the URL schemes served by object storage drivers.
var Schemes = []string{"s3", "gs", "mem", "file"}

// Options configures the Fetcher.
type Options struct {
	// MaxSize caps the object size. Default: 32MiB
	MaxSize int64

	// Logger receives fetch events. Default: discard.
	Logger *log.Logger
}

// Fetcher reads asset objects from blob storage. An asset URL names the
// bucket by scheme and host and the object key by path, for example
// s3://avatars/players/42.png?region=us-east-1.
type Fetcher struct {
	opts Options

	mu      sync.RWMutex
	buckets map[string]*blob.Bucket
}

// NewFetcher creates a Fetcher. Buckets that are not attached with Attach are
// opened per fetch through the gocloud URL openers linked into the binary.
func NewFetcher(opts Options) *Fetcher {
	if opts.MaxSize <= 0 {
		opts.MaxSize = 32 * bytesize.MiB
	}
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	return &Fetcher{
		opts:    opts,
		buckets: make(map[string]*blob.Bucket),
	}
}

// Attach serves URLs under prefix (scheme://host, e.g. "mem://avatars") from
// an already opened bucket. The caller keeps ownership of b.
func (f *Fetcher) Attach(prefix string, b *blob.Bucket) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buckets[strings.TrimSuffix(prefix, "/")] = b
}

// Fetch implements asset.Fetcher.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*asset.RawPayload, error) {
	logger := f.opts.Logger.With("url", rawURL)

	bucketURL, prefix, key, err := splitURL(rawURL)
	if err != nil {
		return nil, f.fail(logger, asset.RequestFailed(rawURL, 0, err))
	}
	if timeout <= 0 {
		return nil, f.fail(logger, asset.RequestFailed(rawURL, 0, fmt.Errorf("timeout must be positive, got %v", timeout)))
	}

	if ctx.Err() != nil {
		return nil, asset.ErrCancelled
	}

	logger.Info("fetching asset", "timeout", timeout)

	reqCtx, cancel := context.WithTimeoutCause(ctx, timeout, errFetchTimeout)
	defer cancel()

	b, release, err := f.open(reqCtx, prefix, bucketURL)
	if err != nil {
		return nil, f.classify(ctx, reqCtx, logger, rawURL, fmt.Errorf("open bucket: %w", err))
	}
	defer release()

	attrs, err := b.Attributes(reqCtx, key)
	if err != nil {
		return nil, f.classify(ctx, reqCtx, logger, rawURL, err)
	}
	if attrs.Size > f.opts.MaxSize {
		return nil, f.fail(logger, asset.RequestFailed(rawURL, 0,
			fmt.Errorf("%w: %s > %s", ErrPayloadTooLarge, bytesize.Format(attrs.Size), bytesize.Format(f.opts.MaxSize))))
	}

	data, err := b.ReadAll(reqCtx, key)
	if err != nil {
		return nil, f.classify(ctx, reqCtx, logger, rawURL, err)
	}

	logger.Debug("fetched asset", "size", bytesize.Format(int64(len(data))))

	return &asset.RawPayload{
		Bytes:       data,
		SourceURL:   rawURL,
		ContentType: attrs.ContentType,
	}, nil
}

// open returns the attached bucket for prefix, or opens bucketURL. release
// closes buckets opened here and is a no-op for attached ones.
func (f *Fetcher) open(ctx context.Context, prefix, bucketURL string) (*blob.Bucket, func(), error) {
	f.mu.RLock()
	b, ok := f.buckets[prefix]
	f.mu.RUnlock()
	if ok {
		return b, func() {}, nil
	}

	b, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, nil, err
	}
	return b, func() { b.Close() }, nil
}

func (f *Fetcher) classify(parent, reqCtx context.Context, logger *log.Logger, rawURL string, err error) error {
	switch {
	case parent.Err() != nil:
		logger.Debug("fetch cancelled", "err", err)
		return asset.ErrCancelled
	case errors.Is(context.Cause(reqCtx), errFetchTimeout):
		return f.fail(logger, asset.Timeout(rawURL, err))
	case gcerrors.Code(err) == gcerrors.NotFound:
		return f.fail(logger, asset.RequestFailed(rawURL, 0, fmt.Errorf("%w: %v", ErrNotFound, err)))
	default:
		return f.fail(logger, asset.RequestFailed(rawURL, 0, err))
	}
}

func (f *Fetcher) fail(logger *log.Logger, err *asset.TransportError) error {
	logger.Error("error fetching asset", "reason", err.Reason, "err", err.Err)
	return err
}

// splitURL splits an asset URL into the bucket URL (scheme, host and query),
// the attach prefix (scheme://host) and the object key.
func splitURL(rawURL string) (bucketURL, prefix, key string, err error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", "", fmt.Errorf("parse url: %w", err)
	}
	if u.Scheme == "" {
		return "", "", "", fmt.Errorf("url %q has no scheme", rawURL)
	}

	if u.Scheme == "file" {
		// file:///dir/avatar.png -> bucket file:///dir, key avatar.png
		idx := strings.LastIndex(u.Path, "/")
		if idx < 0 || idx == len(u.Path)-1 {
			return "", "", "", fmt.Errorf("url %q has no object key", rawURL)
		}
		dir := u.Path[:idx]
		key = u.Path[idx+1:]
		if dir == "" {
			dir = "/"
		}
		prefix = "file://" + u.Host + dir
		return withQuery(prefix, u.RawQuery), prefix, key, nil
	}

	key = strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", "", fmt.Errorf("url %q has no object key", rawURL)
	}
	prefix = u.Scheme + "://" + u.Host
	return withQuery(prefix, u.RawQuery), prefix, key, nil
}

func withQuery(base, rawQuery string) string {
	if rawQuery == "" {
		return base
	}
	return base + "?" + rawQuery
}
