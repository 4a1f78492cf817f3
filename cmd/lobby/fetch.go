package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/bytesize"
	"github.com/ligustah/lobby/internal/decode"
	"github.com/ligustah/lobby/internal/logging"
)

func newFetchCmd(root *rootOptions) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Load a single asset and print the outcome",
		Long: `Fetch and decode one asset. The asset kind is taken from the URL's file
extension unless --kind is given. Supported schemes are http, https, s3, gs,
file and mem.`,
		Example: `lobby fetch https://cdn.example.com/ada.png
lobby fetch --kind image "s3://avatars/ada?region=eu-west-1"`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(cmd, root, asset.Kind(kind), args[0])
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "asset kind (image or mesh)")
	return cmd
}

func runFetch(cmd *cobra.Command, root *rootOptions, kind asset.Kind, url string) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := cfg.ValidateFetch(); err != nil {
		return usageError{err}
	}
	if err := asset.ValidateURL(url); err != nil {
		return usageError{err}
	}

	if kind == asset.KindUnknown {
		kind = asset.KindForPath(url)
	}

	logger, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return usageError{err}
	}
	registry := newRegistry(cfg, logger)
	w := cmd.OutOrStdout()

	switch kind {
	case asset.KindImage:
		return fetchOnce(cmd.Context(), w, registry, kind, url, func(img *decode.Image) string {
			return fmt.Sprintf("%v, %s of pixels", img, bytesize.Format(int64(len(img.Pixels))))
		})
	case asset.KindMesh:
		return fetchOnce(cmd.Context(), w, registry, kind, url, func(m *decode.Mesh) string {
			return m.String()
		})
	case asset.KindUnknown:
		return invalidArgs("cannot tell the asset kind of %q, use --kind", url)
	default:
		return invalidArgs("unknown asset kind %q", kind)
	}
}

func fetchOnce[T any](ctx context.Context, w io.Writer, registry *asset.Registry, kind asset.Kind, url string, describe func(T) string) error {
	loader, err := asset.Lookup[T](registry, kind)
	if err != nil {
		return err
	}

	task := loader.Start(ctx, url)
	<-task.Done()
	out, _ := task.Outcome()

	fmt.Fprintf(w, "%s: %s\n", url, out.Status)
	if !out.OK() {
		return out.Err
	}
	fmt.Fprintf(w, "%s\n", describe(out.Asset))
	return nil
}
