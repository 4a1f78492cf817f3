// Package asset implements the remote asset pipeline: fetch a URL, decode the
// bytes, and hand back a typed asset or a classified failure.
//
// # Pipeline
//
//	Loader[T].LoadFromURL(ctx, url)
//	    -> Fetcher.Fetch(ctx, url, timeout)  // *RawPayload or *TransportError
//	    -> Decoder[T].Decode(bytes)          // T or *DecodeError
//	    -> Outcome[T]
//
// Every failure is converted into an Outcome; nothing escapes as a panic and
// nothing is retried. Exactly one of these is produced per load:
//   - StatusSuccess: Asset is set
//   - StatusTransportFailure: Err is a *TransportError (timeout or request failed)
//   - StatusDecodeFailure: Err is a *DecodeError (malformed or unsupported)
//   - StatusCancelled: the context was cancelled before decode
//
// A Task that has not finished reports StatusPending, which is never OK.
//
// # Usage
//
//	loader := asset.NewLoader[*decode.Image](asset.KindImage, fetcher, decode.ImageDecoder{}, asset.Options{
//	    Timeout: 10 * time.Second,
//	})
//	task := loader.Start(ctx, "https://host/avatar.png")
//	outcome, err := task.Wait(ctx)
//	if err != nil {
//	    return err // ctx ended first, the load is still running
//	}
//	if !outcome.OK() {
//	    return outcome.Err
//	}
//	use(outcome.Asset)
//
// Loaders are grouped by kind in a Registry; Mux routes URLs to fetchers by
// scheme.
package asset
