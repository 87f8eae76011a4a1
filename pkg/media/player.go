package media

import (
	"bytes"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
	"github.com/glintlabs/livedesk/pkg/audio/portaudio"
	"github.com/glintlabs/livedesk/pkg/audio/resampler"
	"github.com/glintlabs/livedesk/pkg/livesession"
)

// playerBufferDuration is the device write granularity.
const playerBufferDuration = 20 * time.Millisecond

// Player plays 24 kHz response audio at scheduled positions on the
// default output device. Scheduled chunks are laid out on a byte-accurate
// timeline that renders silence between them; the rendered stream is
// resampled to the device rate and pumped to PortAudio. The playback
// clock advances with the bytes the device has consumed, so scheduling
// against Now is gapless regardless of chunk arrival jitter.
type Player struct {
	tl  *timeline
	rs  *resampler.Stream
	out *portaudio.OutputStream

	closeOnce sync.Once
	closeErr  error
}

var _ livesession.PlaybackDevice = (*Player)(nil)

// OpenPlayer opens the default output device and starts the render pump.
func OpenPlayer() (*Player, error) {
	if err := initPortAudio(); err != nil {
		return nil, err
	}
	out, err := portaudio.NewOutputStream(pcm.L16Mono48K, playerBufferDuration)
	if err != nil {
		return nil, err
	}
	tl := newTimeline()
	rs, err := resampler.New(tl,
		resampler.Format{SampleRate: pcm.L16Mono24K.SampleRate()},
		resampler.Format{SampleRate: pcm.L16Mono48K.SampleRate()})
	if err != nil {
		out.Close()
		return nil, err
	}
	p := &Player{tl: tl, rs: rs, out: out}
	go p.pump()
	return p, nil
}

func (p *Player) pump() {
	buf := make([]byte, pcm.L16Mono48K.BytesInDuration(playerBufferDuration))
	for {
		n, err := p.rs.Read(buf)
		if n > 0 {
			if _, werr := p.out.WriteBytes(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

// Now returns the playback clock position.
func (p *Player) Now() time.Duration {
	return pcm.L16Mono24K.Duration(p.tl.position())
}

// Play schedules a 24 kHz chunk to begin at start on the playback clock.
// done fires from the render goroutine once the chunk has been fully
// rendered; a stopped handle never fires it.
func (p *Player) Play(chunk pcm.Chunk, start time.Duration, done func()) (livesession.Handle, error) {
	if chunk.Format() != pcm.L16Mono24K {
		return nil, errors.New("media: player accepts 24 kHz mono chunks only")
	}
	var buf bytes.Buffer
	if _, err := chunk.WriteTo(&buf); err != nil {
		return nil, err
	}
	return p.tl.add(pcm.L16Mono24K.BytesInDuration(start), buf.Bytes(), done)
}

// Close stops rendering and releases the output device.
func (p *Player) Close() error {
	p.closeOnce.Do(func() {
		p.tl.close()
		p.rs.Close()
		p.closeErr = p.out.Close()
	})
	return p.closeErr
}

// timeline renders scheduled byte ranges over a silent 24 kHz stream. It
// is the source side of the player's resample pipeline.
type timeline struct {
	mu     sync.Mutex
	pos    int64
	plays  []*scheduledPlay
	closed bool
}

type scheduledPlay struct {
	startByte int64
	data      []byte
	done      func()
}

func newTimeline() *timeline {
	return &timeline{}
}

func (tl *timeline) position() int64 {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.pos
}

// add schedules data at startByte and returns a handle that removes it.
func (tl *timeline) add(startByte int64, data []byte, done func()) (livesession.Handle, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	if tl.closed {
		return nil, errors.New("media: player closed")
	}
	play := &scheduledPlay{startByte: startByte, data: data, done: done}
	tl.plays = append(tl.plays, play)
	return &playHandle{tl: tl, play: play}, nil
}

// Read renders the next window of the timeline: silence overlaid with any
// scheduled plays that intersect it. Plays fully rendered by the end of
// the window are retired and their done callbacks fired.
func (tl *timeline) Read(p []byte) (int, error) {
	tl.mu.Lock()
	if tl.closed {
		tl.mu.Unlock()
		return 0, io.EOF
	}
	for i := range p {
		p[i] = 0
	}

	windowStart := tl.pos
	windowEnd := windowStart + int64(len(p))
	var finished []*scheduledPlay
	keep := tl.plays[:0]
	for _, play := range tl.plays {
		end := play.startByte + int64(len(play.data))
		from, to := windowStart, windowEnd
		if play.startByte > from {
			from = play.startByte
		}
		if end < to {
			to = end
		}
		if from < to {
			copy(p[from-windowStart:to-windowStart], play.data[from-play.startByte:to-play.startByte])
		}
		if end <= windowEnd {
			finished = append(finished, play)
		} else {
			keep = append(keep, play)
		}
	}
	tl.plays = keep
	tl.pos = windowEnd
	tl.mu.Unlock()

	for _, play := range finished {
		if play.done != nil {
			play.done()
		}
	}
	return len(p), nil
}

func (tl *timeline) remove(play *scheduledPlay) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for i, other := range tl.plays {
		if other == play {
			tl.plays = append(tl.plays[:i], tl.plays[i+1:]...)
			return
		}
	}
}

func (tl *timeline) close() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.closed = true
	tl.plays = nil
}

type playHandle struct {
	tl   *timeline
	play *scheduledPlay
}

// Stop discards the remaining audio of this play without firing done.
func (h *playHandle) Stop() {
	h.tl.remove(h.play)
}
