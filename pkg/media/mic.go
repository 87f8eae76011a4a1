package media

import (
	"sync"
	"time"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
	"github.com/glintlabs/livedesk/pkg/audio/portaudio"
)

var initOnce sync.Once

// initPortAudio initializes the PortAudio runtime once per process.
// Termination is left to process exit.
func initPortAudio() error {
	var err error
	initOnce.Do(func() {
		err = portaudio.Initialize()
	})
	return err
}

// micFrameDuration is the capture buffer size. 20 ms keeps uplink latency
// low without burning CPU on tiny reads.
const micFrameDuration = 20 * time.Millisecond

// Mic captures microphone audio from the default input device at the
// device-friendly 48 kHz rate. The session pipeline resamples it to the
// wire rate.
type Mic struct {
	in    *portaudio.InputStream
	frame []int16
}

// OpenMic opens the default input device.
func OpenMic() (*Mic, error) {
	if err := initPortAudio(); err != nil {
		return nil, err
	}
	in, err := portaudio.NewInputStream(pcm.L16Mono48K, micFrameDuration)
	if err != nil {
		return nil, err
	}
	return &Mic{
		in:    in,
		frame: make([]int16, pcm.L16Mono48K.SamplesInDuration(micFrameDuration)),
	}, nil
}

// ReadFrame blocks for the next capture buffer and returns it as float
// samples in [-1, 1).
func (m *Mic) ReadFrame() ([]float32, error) {
	n, err := m.in.Read(m.frame)
	if err != nil {
		return nil, err
	}
	out := make([]float32, n)
	for i, s := range m.frame[:n] {
		out[i] = float32(s) / 32768
	}
	return out, nil
}

// SampleRate returns the capture sample rate in Hz.
func (m *Mic) SampleRate() float64 {
	return float64(pcm.L16Mono48K.SampleRate())
}

// Close stops capture. A blocked ReadFrame returns io.EOF.
func (m *Mic) Close() error {
	return m.in.Close()
}
