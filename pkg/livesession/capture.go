package livesession

import (
	"context"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
	"github.com/glintlabs/livedesk/pkg/audio/resampler"
)

// wireRate is the uplink sample rate expected by the remote engine.
const wireRate = 16000

// AudioSource provides captured microphone audio as floating-point frames
// in [-1, 1] at SampleRate. ReadFrame blocks until a frame is available
// and returns io.EOF or ErrSourceEnded once capture has stopped.
type AudioSource interface {
	ReadFrame() ([]float32, error)
	SampleRate() float64
	Close() error
}

// capturePipeline converts captured audio frames to the wire format and
// forwards them as they are produced. The send function is fire-and-forget
// so the pipeline never blocks on network completion.
type capturePipeline struct {
	src     AudioSource
	send    func(data []byte)
	onLevel func(pcm.Level)
}

// run pumps frames until ctx is canceled or the source ends.
func (p *capturePipeline) run(ctx context.Context) {
	for {
		frame, err := p.src.ReadFrame()
		if err != nil {
			// Any read error means capture stopped, either on its own or
			// because cleanup closed the source underneath us.
			return
		}
		if ctx.Err() != nil {
			return
		}
		if len(frame) == 0 {
			continue
		}

		if p.onLevel != nil {
			p.onLevel(pcm.MeasureFloat(frame))
		}

		resampled := resampler.Linear(frame, p.src.SampleRate(), wireRate)
		p.send(pcm.FloatToPCM16(resampled))
	}
}
