package livesession

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"sync"
	"testing"
	"time"
)

// fakeFrameSource serves a fixed sequence of grab results, then reports
// the source as ended.
type fakeFrameSource struct {
	mu     sync.Mutex
	frames []image.Image
	errs   []error
	closed bool
}

func (s *fakeFrameSource) Grab(ctx context.Context) (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		return nil, err
	}
	if len(s.frames) == 0 {
		return nil, ErrSourceEnded
	}
	img := s.frames[0]
	s.frames = s.frames[1:]
	return img, nil
}

func (s *fakeFrameSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func solidImage(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	return img
}

// runSampler runs the sampler until it stops on its own; each test
// collects output through its own send func.
func runSampler(t *testing.T, sampler *FrameSampler) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	done := make(chan struct{})
	go func() {
		sampler.Run(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		t.Fatal("sampler did not stop")
	}
}

func TestFrameSamplerScalesAndEncodes(t *testing.T) {
	src := &fakeFrameSource{frames: []image.Image{solidImage(2048, 1024)}}
	var mu sync.Mutex
	var got [][]byte
	var mimes []string
	sampler := NewFrameSampler(src, func(mime string, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		mimes = append(mimes, mime)
		got = append(got, data)
	}, time.Millisecond, 1024, 60)

	runSampler(t, sampler)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("got %d frames, want 1", len(got))
	}
	if mimes[0] != "image/jpeg" {
		t.Errorf("mime = %q, want image/jpeg", mimes[0])
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(got[0]))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 512 {
		t.Errorf("scaled to %dx%d, want 1024x512", cfg.Width, cfg.Height)
	}
}

func TestFrameSamplerKeepsSmallFramesUnscaled(t *testing.T) {
	src := &fakeFrameSource{frames: []image.Image{solidImage(640, 480)}}
	var mu sync.Mutex
	var got [][]byte
	sampler := NewFrameSampler(src, func(mime string, data []byte) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, data)
	}, time.Millisecond, 1024, 60)

	runSampler(t, sampler)

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 1 {
		t.Fatalf("got %d frames, want 1", len(got))
	}
	cfg, err := jpeg.DecodeConfig(bytes.NewReader(got[0]))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 640 || cfg.Height != 480 {
		t.Errorf("frame is %dx%d, want 640x480", cfg.Width, cfg.Height)
	}
}

func TestFrameSamplerSkipsEmptyAndTransientFailures(t *testing.T) {
	src := &fakeFrameSource{
		errs:   []error{errors.New("capture busy")},
		frames: []image.Image{image.NewRGBA(image.Rect(0, 0, 0, 0)), solidImage(100, 100)},
	}
	var mu sync.Mutex
	var got int
	sampler := NewFrameSampler(src, func(string, []byte) {
		mu.Lock()
		defer mu.Unlock()
		got++
	}, time.Millisecond, 0, 0)

	runSampler(t, sampler)

	mu.Lock()
	defer mu.Unlock()
	// The transient error and the zero-dimension frame produce nothing;
	// only the real frame is sent.
	if got != 1 {
		t.Errorf("sent %d frames, want 1", got)
	}
}

func TestFrameSamplerStopsWhenSourceEnds(t *testing.T) {
	src := &fakeFrameSource{}
	sampler := NewFrameSampler(src, func(string, []byte) {
		t.Error("sent a frame from an ended source")
	}, time.Millisecond, 0, 0)

	runSampler(t, sampler)
}
