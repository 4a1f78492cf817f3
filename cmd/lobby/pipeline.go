package main

import (
	"github.com/charmbracelet/log"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/bucket"
	"github.com/ligustah/lobby/internal/config"
	"github.com/ligustah/lobby/internal/decode"
	lobbyhttp "github.com/ligustah/lobby/internal/http"
)

// newRegistry wires the fetchers and decoders into one loader per kind.
// http(s) URLs go to the HTTP client, bucket URLs to the blob fetcher.
func newRegistry(cfg config.Config, logger *log.Logger) *asset.Registry {
	httpOpts := lobbyhttp.DefaultOptions()
	httpOpts.MaxSize = cfg.Fetch.MaxSize
	httpOpts.Logger = logger

	mux := asset.NewMux()
	mux.Handle(lobbyhttp.NewClient(httpOpts), "http", "https")
	mux.Handle(bucket.NewFetcher(bucket.Options{MaxSize: cfg.Fetch.MaxSize, Logger: logger}), bucket.Schemes...)

	opts := asset.Options{Timeout: cfg.Fetch.Timeout, Logger: logger}
	registry := asset.NewRegistry()
	asset.Register(registry, asset.NewLoader[*decode.Image](asset.KindImage, mux, decode.ImageDecoder{MaxPixels: cfg.Fetch.MaxPixels}, opts))
	asset.Register(registry, asset.NewLoader[*decode.Mesh](asset.KindMesh, mux, decode.MeshDecoder{}, opts))
	return registry
}
