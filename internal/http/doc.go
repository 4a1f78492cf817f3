// Package http provides the HTTP fetcher for remote assets.
//
// This package handles:
//   - Plain GET requests, no custom headers, no authentication
//   - A hard per-fetch timeout covering headers and body
//   - Mapping of non-2xx responses to request failures
//   - A cap on payload size
//
// Nothing is retried; a failed fetch is reported once.
//
// # Usage
//
//	client := http.NewClient(http.Options{
//	    MaxSize: 32 * bytesize.MiB,
//	    Logger:  logger,
//	})
//
//	payload, err := client.Fetch(ctx, "https://host/avatar.png", 10*time.Second)
//	// err is a *asset.TransportError or asset.ErrCancelled
package http
