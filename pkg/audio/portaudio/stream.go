package portaudio

import (
	"errors"
	"io"
	"sync"
	"time"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
)

// InputStream captures audio from the default input device.
type InputStream struct {
	stream *Stream
	format pcm.Format
	frames int
	mu     sync.Mutex
	closed bool
}

// NewInputStream creates a new input stream for recording.
// format: PCM format (e.g., pcm.L16Mono16K)
// bufferDuration: duration of each read buffer (e.g., 20ms)
func NewInputStream(format pcm.Format, bufferDuration time.Duration) (*InputStream, error) {
	framesPerBuffer := int(format.SamplesInDuration(bufferDuration))

	stream, err := openStream(format.Channels(), 0, float64(format.SampleRate()), framesPerBuffer)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	return &InputStream{
		stream: stream,
		format: format,
		frames: framesPerBuffer,
	}, nil
}

// Read reads PCM samples into the provided buffer.
// Returns the number of samples read (not bytes).
func (is *InputStream) Read(buf []int16) (int, error) {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.closed {
		return 0, io.EOF
	}

	samples, err := is.stream.Read(is.frames)
	if err != nil {
		return 0, err
	}

	n := copy(buf, samples)
	return n, nil
}

// Format returns the PCM format.
func (is *InputStream) Format() pcm.Format {
	return is.format
}

// Close stops and closes the stream.
func (is *InputStream) Close() error {
	is.mu.Lock()
	defer is.mu.Unlock()

	if is.closed {
		return nil
	}
	is.closed = true

	return is.stream.Close()
}

// OutputStream plays audio to the default output device.
type OutputStream struct {
	stream *Stream
	format pcm.Format
	frames int
	buffer []int16
	mu     sync.Mutex
	closed bool
}

// NewOutputStream creates a new output stream for playback.
// format: PCM format (e.g., pcm.L16Mono16K)
// bufferDuration: duration of each write buffer (e.g., 20ms)
func NewOutputStream(format pcm.Format, bufferDuration time.Duration) (*OutputStream, error) {
	framesPerBuffer := int(format.SamplesInDuration(bufferDuration))

	stream, err := openStream(0, format.Channels(), float64(format.SampleRate()), framesPerBuffer)
	if err != nil {
		return nil, err
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, err
	}

	return &OutputStream{
		stream: stream,
		format: format,
		frames: framesPerBuffer,
		buffer: make([]int16, framesPerBuffer*format.Channels()),
	}, nil
}

// Write writes PCM samples to the output.
// Returns the number of samples written.
func (os *OutputStream) Write(samples []int16) (int, error) {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return 0, errors.New("portaudio: stream closed")
	}

	n := copy(os.buffer, samples)
	// Zero out the rest if samples is shorter than buffer
	for i := n; i < len(os.buffer); i++ {
		os.buffer[i] = 0
	}

	if err := os.stream.Write(os.buffer); err != nil {
		return 0, err
	}
	return n, nil
}

// WriteBytes writes PCM samples from bytes (little-endian int16).
func (os *OutputStream) WriteBytes(buf []byte) (int, error) {
	samples := make([]int16, len(buf)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(buf[i*2]) | int16(buf[i*2+1])<<8
	}
	n, err := os.Write(samples)
	return n * 2, err
}

// Format returns the PCM format.
func (os *OutputStream) Format() pcm.Format {
	return os.format
}

// Close stops and closes the stream.
func (os *OutputStream) Close() error {
	os.mu.Lock()
	defer os.mu.Unlock()

	if os.closed {
		return nil
	}
	os.closed = true

	return os.stream.Close()
}
