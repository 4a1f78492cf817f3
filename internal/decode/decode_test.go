package decode

import (
	"bytes"
	"errors"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/ligustah/lobby/internal/asset"
	"github.com/ligustah/lobby/internal/testutils"
)

func TestImageDecodePNG(t *testing.T) {
	data := testutils.EncodePNG(t, 64, 64)

	img, err := ImageDecoder{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 64 || img.Height != 64 {
		t.Errorf("expected 64x64, got %dx%d", img.Width, img.Height)
	}
	if img.Format != "png" {
		t.Errorf("expected format png, got %q", img.Format)
	}
	if len(img.Pixels) != 64*64*4 {
		t.Errorf("expected %d pixel bytes, got %d", 64*64*4, len(img.Pixels))
	}
}

func TestImageDecodeLosslessRoundTrip(t *testing.T) {
	src := testutils.GradientImage(17, 9)

	encoders := map[string]func(*bytes.Buffer, image.Image) error{
		"png":  func(b *bytes.Buffer, m image.Image) error { return png.Encode(b, m) },
		"bmp":  func(b *bytes.Buffer, m image.Image) error { return bmp.Encode(b, m) },
		"tiff": func(b *bytes.Buffer, m image.Image) error { return tiff.Encode(b, m, nil) },
	}

	for name, encode := range encoders {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := encode(&buf, src); err != nil {
				t.Fatalf("encode: %v", err)
			}

			img, err := ImageDecoder{}.Decode(buf.Bytes())
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if img.Format != name {
				t.Errorf("expected format %s, got %s", name, img.Format)
			}
			if !bytes.Equal(img.Pixels, src.Pix) {
				t.Error("decoded pixels differ from source")
			}

			// Re-encoding the decoded image yields the same pixels again.
			var again bytes.Buffer
			if err := png.Encode(&again, img.NRGBA()); err != nil {
				t.Fatalf("re-encode: %v", err)
			}
			img2, err := ImageDecoder{}.Decode(again.Bytes())
			if err != nil {
				t.Fatalf("Decode re-encoded: %v", err)
			}
			if !bytes.Equal(img2.Pixels, img.Pixels) {
				t.Error("re-encoded pixels differ")
			}
		})
	}
}

func TestImageDecodeLossyFormats(t *testing.T) {
	src := testutils.GradientImage(8, 8)

	var jpg bytes.Buffer
	if err := jpeg.Encode(&jpg, src, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	var gf bytes.Buffer
	if err := gif.Encode(&gf, src, nil); err != nil {
		t.Fatalf("encode gif: %v", err)
	}

	for format, data := range map[string][]byte{"jpeg": jpg.Bytes(), "gif": gf.Bytes()} {
		img, err := ImageDecoder{}.Decode(data)
		if err != nil {
			t.Errorf("%s: Decode: %v", format, err)
			continue
		}
		if img.Format != format || img.Width != 8 || img.Height != 8 {
			t.Errorf("%s: got %v", format, img)
		}
	}
}

func TestImageDecodeMalformed(t *testing.T) {
	valid := testutils.EncodePNG(t, 4, 4)

	tests := []struct {
		name string
		data []byte
	}{
		{"nil", nil},
		{"empty", []byte{}},
		{"text", []byte("definitely not an image")},
		{"truncated png", valid[:len(valid)/2]},
		{"png header only", valid[:8]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := ImageDecoder{}.Decode(tt.data)
			if img != nil {
				t.Error("expected no image")
			}
			var de *asset.DecodeError
			if !errors.As(err, &de) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if de.Reason != asset.DecodeMalformed {
				t.Errorf("expected malformed, got %v", de.Reason)
			}
		})
	}
}

func TestImageDecodeEmptyWrapsErrEmpty(t *testing.T) {
	_, err := ImageDecoder{}.Decode(nil)
	if !errors.Is(err, ErrEmpty) || !errors.Is(err, asset.ErrMalformed) {
		t.Errorf("expected ErrEmpty malformed error, got %v", err)
	}
}

func TestImageDecodeMaxPixels(t *testing.T) {
	data := testutils.EncodePNG(t, 64, 64)

	_, err := ImageDecoder{MaxPixels: 32 * 32}.Decode(data)
	if !errors.Is(err, asset.ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
	if _, err := (ImageDecoder{MaxPixels: 64 * 64}).Decode(data); err != nil {
		t.Errorf("image at the limit rejected: %v", err)
	}
}

func TestImageDecodeDefaultMaxPixels(t *testing.T) {
	tests := []struct {
		name string
		w, h uint32
	}{
		{"square", 8000, 8000},
		{"wide", 1 << 20, 64},
		{"just over", DefaultMaxPixels + 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := testutils.OversizedPNG(t, tt.w, tt.h)
			for _, d := range []ImageDecoder{{}, {MaxPixels: -1}} {
				_, err := d.Decode(data)
				if !errors.Is(err, asset.ErrUnsupported) {
					t.Errorf("MaxPixels %d: expected ErrUnsupported, got %v", d.MaxPixels, err)
				}
			}
		})
	}
}

func TestImageDecodeDeterministic(t *testing.T) {
	data := testutils.EncodePNG(t, 16, 16)
	a, err := ImageDecoder{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := ImageDecoder{}.Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(a.Pixels, b.Pixels) {
		t.Error("same bytes decoded to different pixels")
	}
	a.Pixels[0] ^= 0xff
	if a.Pixels[0] == b.Pixels[0] {
		t.Error("decoded images share pixel memory")
	}
}

func TestMeshDecodeUnsupported(t *testing.T) {
	for _, data := range [][]byte{nil, []byte("glTF\x02\x00\x00\x00")} {
		mesh, err := MeshDecoder{}.Decode(data)
		if mesh != nil {
			t.Error("expected no mesh")
		}
		if !errors.Is(err, asset.ErrUnsupported) || !errors.Is(err, ErrMeshImportUnavailable) {
			t.Errorf("expected unsupported mesh error, got %v", err)
		}
	}
}
