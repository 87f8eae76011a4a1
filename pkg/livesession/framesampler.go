package livesession

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/jpeg"
	"time"
)

const (
	// DefaultFrameInterval is the default screen sampling period. One
	// frame per second trades bandwidth against visual latency.
	DefaultFrameInterval = time.Second

	// DefaultFrameMaxDimension bounds the longest side of uplinked frames.
	DefaultFrameMaxDimension = 1024

	// DefaultFrameQuality is the JPEG quality for uplinked frames.
	DefaultFrameQuality = 60
)

// FrameSource provides video frames for uplink, e.g. a screen capture.
// Grab returns ErrSourceEnded once capture has stopped.
type FrameSource interface {
	Grab(ctx context.Context) (image.Image, error)
	Close() error
}

// FrameSampler periodically captures a video frame, scales it to a
// bounded resolution, compresses it and hands it to the transport.
type FrameSampler struct {
	src      FrameSource
	send     func(mimeType string, data []byte)
	interval time.Duration
	maxDim   int
	quality  int
}

// NewFrameSampler creates a sampler that forwards frames via send. Zero
// values for interval, maxDim and quality select the defaults.
func NewFrameSampler(src FrameSource, send func(mimeType string, data []byte), interval time.Duration, maxDim, quality int) *FrameSampler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if maxDim <= 0 {
		maxDim = DefaultFrameMaxDimension
	}
	if quality <= 0 {
		quality = DefaultFrameQuality
	}
	return &FrameSampler{
		src:      src,
		send:     send,
		interval: interval,
		maxDim:   maxDim,
		quality:  quality,
	}
}

// Run samples frames on a fixed interval until ctx is canceled or the
// source ends. A source that has not yet reported nonzero dimensions is
// skipped (stream still negotiating). The sampler stops silently when the
// source ends.
func (fs *FrameSampler) Run(ctx context.Context) {
	ticker := time.NewTicker(fs.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !fs.sampleOnce(ctx) {
				return
			}
		}
	}
}

// sampleOnce grabs, scales, encodes and sends one frame. It returns false
// when sampling should stop.
func (fs *FrameSampler) sampleOnce(ctx context.Context) bool {
	img, err := fs.src.Grab(ctx)
	if err != nil {
		if errors.Is(err, ErrSourceEnded) || ctx.Err() != nil {
			return false
		}
		// Transient grab failure: skip this tick.
		return true
	}
	if img == nil {
		return true
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return true
	}

	scaled := scaleToFit(img, fs.maxDim)
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: fs.quality}); err != nil {
		return true
	}
	fs.send("image/jpeg", buf.Bytes())
	return true
}

// scaleToFit downscales img so its largest dimension is at most maxDim,
// preserving aspect ratio. Images already within bounds are returned
// unchanged. Nearest-neighbor sampling is sufficient for 1 fps screen
// frames.
func scaleToFit(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	longest := w
	if h > longest {
		longest = h
	}
	if longest <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(longest)
	dw := int(float64(w) * scale)
	dh := int(float64(h) * scale)
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	for y := 0; y < dh; y++ {
		sy := bounds.Min.Y + y*h/dh
		for x := 0; x < dw; x++ {
			sx := bounds.Min.X + x*w/dw
			dst.Set(x, y, img.At(sx, sy))
		}
	}
	return dst
}
