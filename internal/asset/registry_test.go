package asset

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	img := NewLoader[string](KindImage, &fakeFetcher{}, &countingDecoder{}, Options{})
	Register(r, img)

	got, err := Lookup[string](r, KindImage)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got != img {
		t.Error("Lookup returned a different loader")
	}

	if _, err := Lookup[string](r, KindMesh); !errors.Is(err, ErrNoLoader) {
		t.Errorf("expected ErrNoLoader for unregistered kind, got %v", err)
	}
	if _, err := Lookup[int](r, KindImage); !errors.Is(err, ErrNoLoader) {
		t.Errorf("expected ErrNoLoader for mismatched type, got %v", err)
	}
}

func TestRegistryKinds(t *testing.T) {
	r := NewRegistry()
	Register(r, NewLoader[string](KindMesh, &fakeFetcher{}, &countingDecoder{}, Options{}))
	Register(r, NewLoader[string](KindImage, &fakeFetcher{}, &countingDecoder{}, Options{}))

	kinds := r.Kinds()
	if len(kinds) != 2 || kinds[0] != KindImage || kinds[1] != KindMesh {
		t.Errorf("Kinds() = %v, want [image mesh]", kinds)
	}
}

func TestKindForPath(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"https://host/avatar.png", KindImage},
		{"https://host/avatar.JPG?size=64", KindImage},
		{"s3://bucket/avatars/a.webp", KindImage},
		{"https://host/avatar.glb", KindMesh},
		{"model.obj", KindMesh},
		{"https://host/readme.txt", KindUnknown},
		{"https://host/", KindUnknown},
	}

	for _, tt := range tests {
		if got := KindForPath(tt.path); got != tt.want {
			t.Errorf("KindForPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestMuxDispatch(t *testing.T) {
	web := &fakeFetcher{payload: []byte("web")}
	store := &fakeFetcher{payload: []byte("store")}

	m := NewMux()
	m.Handle(web, "http", "https")
	m.Handle(store, "mem")

	p, err := m.Fetch(context.Background(), "HTTPS://host/a.png", time.Second)
	if err != nil || string(p.Bytes) != "web" {
		t.Errorf("https: got %v, %v", p, err)
	}
	p, err = m.Fetch(context.Background(), "mem://bucket/a.png", time.Second)
	if err != nil || string(p.Bytes) != "store" {
		t.Errorf("mem: got %v, %v", p, err)
	}

	_, err = m.Fetch(context.Background(), "ftp://host/a.png", time.Second)
	if !errors.Is(err, ErrUnsupportedScheme) || !errors.Is(err, ErrRequestFailed) {
		t.Errorf("expected unsupported scheme request failure, got %v", err)
	}
}

func TestTransportErrorMessage(t *testing.T) {
	err := RequestFailed("https://host/a.png", 503, errors.New("server error"))
	want := "fetch https://host/a.png: request failed (status 503): server error"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}

	var te *TransportError
	if !errors.As(error(err), &te) || te.StatusCode != 503 {
		t.Errorf("errors.As failed: %v", te)
	}
}
