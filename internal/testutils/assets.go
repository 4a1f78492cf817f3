// Package testutils provides shared test infrastructure: encoded image
// fixtures, an asset HTTP server and, behind the integration build tag, a
// minio container.
package testutils

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// GradientImage returns a deterministic w x h image with distinct pixels.
func GradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / max(w-1, 1)),
				G: uint8(y * 255 / max(h-1, 1)),
				B: uint8((x + y) % 256),
				A: 255,
			})
		}
	}
	return img
}

// EncodePNG encodes a GradientImage of the given size as PNG.
func EncodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, GradientImage(w, h)); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// OversizedPNG returns a tiny PNG whose header claims w x h pixels. The
// header is valid so the dimensions can be read, but the pixel data only
// covers a 1x1 image.
func OversizedPNG(t *testing.T, w, h uint32) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	data := buf.Bytes()

	// 8 byte signature, then the IHDR chunk: length, type, 13 data bytes, crc.
	binary.BigEndian.PutUint32(data[16:20], w)
	binary.BigEndian.PutUint32(data[20:24], h)
	binary.BigEndian.PutUint32(data[29:33], crc32.ChecksumIEEE(data[12:29]))
	return data
}

// Asset is a file served by an AssetServer.
type Asset struct {
	Data        []byte
	ContentType string
	Status      int           // 0 means 200
	Delay       time.Duration // wait before writing headers
	Gate        chan struct{} // if set, wait until closed before writing headers
}

// AssetServer serves fixed assets by path and counts requests per path.
type AssetServer struct {
	*httptest.Server

	mu     sync.Mutex
	assets map[string]*Asset
	hits   map[string]*atomic.Int32
}

// StartAssetServer starts a server for the given path -> asset map. It is
// closed when the test ends.
func StartAssetServer(t *testing.T, assets map[string]*Asset) *AssetServer {
	t.Helper()

	s := &AssetServer{
		assets: make(map[string]*Asset),
		hits:   make(map[string]*atomic.Int32),
	}
	for p, a := range assets {
		s.assets[p] = a
		s.hits[p] = &atomic.Int32{}
	}

	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

func (s *AssetServer) serve(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	a, ok := s.assets[r.URL.Path]
	hits := s.hits[r.URL.Path]
	s.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}
	hits.Add(1)

	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-r.Context().Done():
			return
		}
	}
	if a.Gate != nil {
		select {
		case <-a.Gate:
		case <-r.Context().Done():
			return
		}
	}

	if a.ContentType != "" {
		w.Header().Set("Content-Type", a.ContentType)
	}
	if a.Status != 0 {
		w.WriteHeader(a.Status)
	}
	w.Write(a.Data)
}

// URL returns the absolute URL for path.
func (s *AssetServer) URL(path string) string {
	return s.Server.URL + path
}

// Hits returns how many requests were made for path.
func (s *AssetServer) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.hits[path]; ok {
		return int(h.Load())
	}
	return 0
}
