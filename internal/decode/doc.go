// Package decode holds the per-kind decoders of the asset pipeline.
//
// Decoders are pure and synchronous: the same bytes always produce the same
// result and no state is shared between calls. Failures are
// *asset.DecodeError values, never panics.
package decode
