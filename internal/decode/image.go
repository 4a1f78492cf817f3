package decode

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ligustah/lobby/internal/asset"
)

// ErrEmpty is wrapped by decode errors for zero-length payloads.
var ErrEmpty = errors.New("decode: empty payload")

// Image is a decoded image as tightly packed, non-premultiplied RGBA rows.
type Image struct {
	Format       string // encoding the image was decoded from, e.g. "png"
	Width        int
	Height       int
	ChannelCount uint8
	Pixels       []byte
}

// NRGBA returns a view of the pixels as an *image.NRGBA. The view shares the
// pixel slice.
func (i *Image) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    i.Pixels,
		Stride: i.Width * int(i.ChannelCount),
		Rect:   image.Rect(0, 0, i.Width, i.Height),
	}
}

func (i *Image) String() string {
	return fmt.Sprintf("%s %dx%d", i.Format, i.Width, i.Height)
}

// DefaultMaxPixels caps decoded images at 4096x4096 when ImageDecoder.MaxPixels
// is unset. A decoded image costs four bytes per pixel.
const DefaultMaxPixels = 4096 * 4096

// ImageDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP payloads.
type ImageDecoder struct {
	// MaxPixels rejects images with more than this many pixels before the
	// pixel data is decoded. Zero or less means DefaultMaxPixels.
	MaxPixels int
}

func (d ImageDecoder) maxPixels() int {
	if d.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return d.MaxPixels
}

// Decode implements asset.Decoder.
func (d ImageDecoder) Decode(data []byte) (*Image, error) {
	if len(data) == 0 {
		return nil, asset.Malformed(asset.KindImage, ErrEmpty)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, asset.Malformed(asset.KindImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, asset.Malformed(asset.KindImage, fmt.Errorf("invalid dimensions %dx%d", cfg.Width, cfg.Height))
	}
	if limit := d.maxPixels(); cfg.Width*cfg.Height > limit {
		return nil, asset.Unsupported(asset.KindImage,
			fmt.Errorf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, limit))
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, asset.Malformed(asset.KindImage, err)
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	return &Image{
		Format:       format,
		Width:        b.Dx(),
		Height:       b.Dy(),
		ChannelCount: 4,
		Pixels:       dst.Pix,
	}, nil
}
