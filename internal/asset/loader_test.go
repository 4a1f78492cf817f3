package asset

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

// fakeFetcher returns a fixed payload or error, optionally blocking until
// release is closed or ctx ends.
type fakeFetcher struct {
	payload []byte
	err     error
	release chan struct{}
	calls   atomic.Int32
	timeout time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*RawPayload, error) {
	f.calls.Add(1)
	f.timeout = timeout
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return nil, ErrCancelled
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &RawPayload{Bytes: f.payload, SourceURL: url}, nil
}

// countingDecoder records how often it was invoked.
type countingDecoder struct {
	calls atomic.Int32
	err   error
}

func (d *countingDecoder) Decode(data []byte) (string, error) {
	d.calls.Add(1)
	if d.err != nil {
		return "", d.err
	}
	return string(data), nil
}

func TestLoadFromURLSuccess(t *testing.T) {
	f := &fakeFetcher{payload: []byte("hello")}
	d := &countingDecoder{}
	l := NewLoader[string](KindImage, f, d, Options{})

	out := l.LoadFromURL(context.Background(), "https://host/avatar.png")
	if !out.OK() {
		t.Fatalf("expected success, got %v", out)
	}
	if out.Asset != "hello" {
		t.Errorf("expected asset 'hello', got %q", out.Asset)
	}
	if f.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, f.timeout)
	}
}

func TestLoadTransportFailureSkipsDecode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"timeout", Timeout("https://host/a.png", nil), ErrTimeout},
		{"request failed", RequestFailed("https://host/a.png", 404, nil), ErrRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &countingDecoder{}
			l := NewLoader[string](KindImage, &fakeFetcher{err: tt.err}, d, Options{})

			out := l.LoadFromURL(context.Background(), "https://host/a.png")
			if out.Status != StatusTransportFailure {
				t.Fatalf("expected transport failure, got %v", out)
			}
			if !errors.Is(out.Err, tt.sentinel) {
				t.Errorf("expected %v, got %v", tt.sentinel, out.Err)
			}
			if n := d.calls.Load(); n != 0 {
				t.Errorf("decoder called %d times, want 0", n)
			}
		})
	}
}

func TestLoadDecodeFailure(t *testing.T) {
	d := &countingDecoder{err: Unsupported(KindMesh, nil)}
	l := NewLoader[string](KindMesh, &fakeFetcher{payload: []byte("glb")}, d, Options{})

	out := l.LoadFromURL(context.Background(), "https://host/avatar.glb")
	if out.Status != StatusDecodeFailure {
		t.Fatalf("expected decode failure, got %v", out)
	}
	de, ok := out.DecodeError()
	if !ok || de.Reason != DecodeUnsupported {
		t.Errorf("expected unsupported decode error, got %v", out.Err)
	}
}

func TestLoadForeignDecodeErrorIsMalformed(t *testing.T) {
	d := &countingDecoder{err: errors.New("bad magic")}
	l := NewLoader[string](KindImage, &fakeFetcher{payload: []byte("x")}, d, Options{})

	out := l.LoadFromURL(context.Background(), "https://host/a.png")
	if !errors.Is(out.Err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", out.Err)
	}
}

func TestLoadInvalidURL(t *testing.T) {
	f := &fakeFetcher{}
	l := NewLoader[string](KindImage, f, &countingDecoder{}, Options{})

	for _, url := range []string{"", "relative/avatar.png", "http:///nohost.png"} {
		out := l.LoadFromURL(context.Background(), url)
		if !errors.Is(out.Err, ErrRequestFailed) {
			t.Errorf("LoadFromURL(%q): expected ErrRequestFailed, got %v", url, out)
		}
	}
	if n := f.calls.Load(); n != 0 {
		t.Errorf("fetcher called %d times for invalid urls", n)
	}
}

func TestLoadCancelledBeforeFetch(t *testing.T) {
	f := &fakeFetcher{payload: []byte("x")}
	d := &countingDecoder{}
	l := NewLoader[string](KindImage, f, d, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := l.LoadFromURL(ctx, "https://host/a.png")
	if out.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %v", out)
	}
	if f.calls.Load() != 0 || d.calls.Load() != 0 {
		t.Error("expected neither fetch nor decode after cancellation")
	}
}

func TestTaskCancelDuringFetch(t *testing.T) {
	f := &fakeFetcher{payload: []byte("x"), release: make(chan struct{})}
	d := &countingDecoder{}
	l := NewLoader[string](KindImage, f, d, Options{})

	task := l.Start(context.Background(), "https://host/a.png")
	for f.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	task.Cancel()

	out, err := task.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if out.Status != StatusCancelled {
		t.Errorf("expected cancelled, got %v", out)
	}
	if d.calls.Load() != 0 {
		t.Error("decoder invoked after cancellation")
	}
}

func TestTaskWaitContextExpires(t *testing.T) {
	f := &fakeFetcher{release: make(chan struct{})}
	l := NewLoader[string](KindImage, f, &countingDecoder{}, Options{})
	task := l.Start(context.Background(), "https://host/a.png")
	defer task.Cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	pending, err := task.Wait(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
	if pending.OK() || pending.Status != StatusPending {
		t.Errorf("expected pending outcome from expired wait, got %v", pending)
	}
	if out, done := task.Outcome(); done || out.OK() || out.Status != StatusPending {
		t.Errorf("expected pending outcome while fetch is blocked, got %v (done=%v)", out, done)
	}

	close(f.release)
	out, err := task.Wait(context.Background())
	if err != nil || !out.OK() {
		t.Errorf("expected success after release, got %v, %v", out, err)
	}
}

func TestZeroOutcomeIsNotOK(t *testing.T) {
	var out Outcome[string]
	if out.OK() {
		t.Error("zero outcome reported OK")
	}
	if out.Status.String() != "pending" {
		t.Errorf("zero status = %q, want pending", out.Status)
	}
}

// cancellingFetcher cancels the load's context and then returns a valid
// payload, as if cancellation raced with the end of the download.
type cancellingFetcher struct {
	cancel context.CancelFunc
}

func (f *cancellingFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) (*RawPayload, error) {
	f.cancel()
	return &RawPayload{Bytes: []byte("payload"), SourceURL: url}, nil
}

func TestLoadCancelledAfterFetch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	d := &countingDecoder{}
	l := NewLoader[string](KindImage, &cancellingFetcher{cancel: cancel}, d, Options{})

	out := l.LoadFromURL(ctx, "https://host/a.png")
	if out.Status != StatusCancelled {
		t.Fatalf("expected cancelled, got %v", out)
	}
	if !errors.Is(out.Err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", out.Err)
	}
	if n := d.calls.Load(); n != 0 {
		t.Errorf("decoder called %d times after cancellation", n)
	}
}

func TestFailedClassification(t *testing.T) {
	tests := []struct {
		err  error
		want Status
	}{
		{ErrCancelled, StatusCancelled},
		{Malformed(KindImage, nil), StatusDecodeFailure},
		{Timeout("u", nil), StatusTransportFailure},
		{errors.New("boom"), StatusTransportFailure},
	}

	for _, tt := range tests {
		if got := Failed[int](tt.err).Status; got != tt.want {
			t.Errorf("Failed(%v).Status = %v, want %v", tt.err, got, tt.want)
		}
	}
}
