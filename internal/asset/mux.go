package asset

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Mux is a Fetcher that dispatches on the URL scheme.
type Mux struct {
	mu       sync.RWMutex
	fetchers map[string]Fetcher
}

// NewMux creates an empty Mux.
func NewMux() *Mux {
	return &Mux{fetchers: make(map[string]Fetcher)}
}

// Handle routes URLs with any of the given schemes to f.
func (m *Mux) Handle(f Fetcher, schemes ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range schemes {
		m.fetchers[strings.ToLower(s)] = f
	}
}

// Fetch implements Fetcher.
func (m *Mux) Fetch(ctx context.Context, rawURL string, timeout time.Duration) (*RawPayload, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, RequestFailed(rawURL, 0, fmt.Errorf("parse url: %w", err))
	}

	m.mu.RLock()
	f, ok := m.fetchers[strings.ToLower(u.Scheme)]
	m.mu.RUnlock()
	if !ok {
		return nil, RequestFailed(rawURL, 0, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme))
	}
	return f.Fetch(ctx, rawURL, timeout)
}
