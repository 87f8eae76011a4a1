package resampler

import (
	"fmt"
	"io"
	"sync"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Stream wraps an io.Reader of 16-bit PCM and resamples it from srcFmt to
// dstFmt. Sources in this repository are always mono; the destination may
// be mono or stereo (upmix by sample duplication). Stream must be closed
// with Close to release resources.
type Stream struct {
	srcFmt Format
	dstFmt Format
	src    io.Reader

	readBuf []byte

	mu            sync.Mutex
	closeErr      error
	resampler     resampling.Resampler
	leftover      []byte
	needsResample bool
}

// New creates a Stream that resamples audio from srcFmt to dstFmt. srcFmt
// must be mono.
func New(src io.Reader, srcFmt, dstFmt Format) (*Stream, error) {
	if srcFmt.Stereo {
		return nil, fmt.Errorf("resampler: stereo sources are not supported")
	}

	needsResample := srcFmt.SampleRate != dstFmt.SampleRate
	var rs resampling.Resampler
	if needsResample {
		var err error
		rs, err = resampling.New(&resampling.Config{
			InputRate:  float64(srcFmt.SampleRate),
			OutputRate: float64(dstFmt.SampleRate),
			Channels:   dstFmt.channels(),
			Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
		})
		if err != nil {
			return nil, fmt.Errorf("resampler: %w", err)
		}
	}

	return &Stream{
		srcFmt:        srcFmt,
		dstFmt:        dstFmt,
		src:           newSampleReader(src, srcFmt.sampleBytes()),
		resampler:     rs,
		needsResample: needsResample,
	}, nil
}

// Read copies resampled audio data into p. It is not safe for concurrent
// use.
func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(p) < s.dstFmt.sampleBytes() {
		return 0, io.ErrShortBuffer
	}
	p = p[:len(p)/s.dstFmt.sampleBytes()*s.dstFmt.sampleBytes()]

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.leftover) > 0 {
		n := copy(p, s.leftover)
		s.leftover = s.leftover[n:]
		return n, nil
	}
	if s.closeErr != nil {
		return 0, s.closeErr
	}
	return s.readAndProcess(p)
}

func (s *Stream) readAndProcess(p []byte) (int, error) {
	if !s.needsResample {
		n, err := s.readSource(len(p))
		copy(p, s.readBuf[:n])
		return n, err
	}

	ratio := float64(s.srcFmt.SampleRate) / float64(s.dstFmt.SampleRate)
	srcBytesNeeded := int(float64(len(p))*ratio) + s.srcFmt.sampleBytes()*4

	bytesRead, readErr := s.readSource(srcBytesNeeded)
	if bytesRead == 0 {
		if readErr != nil {
			return 0, readErr
		}
		return 0, io.EOF
	}

	// Normalize int16 LE to float64 for the resampling library.
	numChannels := s.dstFmt.channels()
	numSamples := bytesRead / 2
	input := make([]float64, numSamples)
	for i := range input {
		sample := int16(s.readBuf[i*2]) | int16(s.readBuf[i*2+1])<<8
		input[i] = float64(sample) / 32768.0
	}

	output, err := s.resampler.Process(input)
	if err != nil {
		return 0, fmt.Errorf("resampler: %w", err)
	}
	if len(output) == 0 {
		return 0, readErr
	}

	outputBytes := make([]byte, len(output)*2)
	for i, v := range output {
		sample := int16(v * 32767.0)
		if v > 1.0 {
			sample = 32767
		} else if v < -1.0 {
			sample = -32768
		}
		outputBytes[i*2] = byte(sample)
		outputBytes[i*2+1] = byte(sample >> 8)
	}
	outputBytes = outputBytes[:len(outputBytes)/(2*numChannels)*(2*numChannels)]

	n := copy(p, outputBytes)
	if len(outputBytes) > n {
		s.leftover = append(s.leftover, outputBytes[n:]...)
	}
	return n, readErr
}

// readSource reads up to dstLen bytes of source data into s.readBuf,
// upmixing to stereo when the destination is stereo. It returns the number
// of valid bytes in s.readBuf.
func (s *Stream) readSource(dstLen int) (int, error) {
	makeAtLeast(&s.readBuf, dstLen)

	if !s.dstFmt.Stereo {
		return s.src.Read(s.readBuf[:dstLen])
	}

	n, err := s.src.Read(s.readBuf[:dstLen/2])
	if n == 0 {
		return 0, err
	}
	return monoToStereo(s.readBuf[:n*2]), err
}

// Close releases resources. Subsequent Read calls return io.ErrClosedPipe.
func (s *Stream) Close() error {
	return s.CloseWithError(fmt.Errorf("resampler: %w", io.ErrClosedPipe))
}

// CloseWithError releases resources with a custom error returned by
// subsequent Read calls.
func (s *Stream) CloseWithError(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr == nil {
		s.closeErr = err
	}
	s.resampler = nil
	return nil
}

// monoToStereo converts mono 16-bit samples to stereo in-place by
// duplicating each sample. b holds the mono data in its first half.
func monoToStereo(b []byte) int {
	numSamples := len(b) / 4
	for i := numSamples - 1; i >= 0; i-- {
		s0, s1 := b[i*2], b[i*2+1]
		j := i * 4
		b[j], b[j+1] = s0, s1
		b[j+2], b[j+3] = s0, s1
	}
	return len(b)
}

func makeAtLeast(buf *[]byte, n int) []byte {
	if cap(*buf) < n {
		*buf = make([]byte, n)
	}
	*buf = (*buf)[:cap(*buf)]
	return *buf
}
