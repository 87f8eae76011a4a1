package livesession

import (
	"fmt"
	"sync"
	"time"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
)

// Handle is an in-flight scheduled playback that can be stopped early.
type Handle interface {
	Stop()
}

// Output is a playback device that plays audio chunks at scheduled
// positions on its own clock. Play must not invoke done synchronously.
type Output interface {
	// Now returns the current position on the output clock.
	Now() time.Duration

	// Play schedules chunk to begin playing at start and invokes done
	// exactly once when playback ends naturally. Stopping the returned
	// handle discards any remaining audio without invoking done.
	Play(chunk pcm.Chunk, start time.Duration, done func()) (Handle, error)
}

// Scheduler schedules decoded response audio for gapless playback.
// Chunks are scheduled back-to-back by cursor time rather than arrival
// time, so irregular network inter-arrival delay does not produce audible
// gaps. Interrupt implements barge-in by discarding everything in flight.
type Scheduler struct {
	out Output

	mu     sync.Mutex
	cursor time.Duration
	active map[Handle]struct{}
}

// NewScheduler creates a scheduler playing on out.
func NewScheduler(out Output) *Scheduler {
	return &Scheduler{
		out:    out,
		active: make(map[Handle]struct{}),
	}
}

// OnAudioChunk decodes one downlink chunk (16-bit PCM at 24 kHz) and
// schedules it to start at max(cursor, output clock), then advances the
// cursor by the chunk duration. An undecodable chunk returns an error and
// is dropped; the session continues.
func (s *Scheduler) OnAudioChunk(data []byte) error {
	if len(data) == 0 || len(data)%2 != 0 {
		return fmt.Errorf("%w: %d bytes", errBadChunk, len(data))
	}
	chunk := pcm.L16Mono24K.DataChunk(data)
	duration := pcm.L16Mono24K.Duration(chunk.Len())

	s.mu.Lock()
	defer s.mu.Unlock()

	start := s.cursor
	if now := s.out.Now(); now > start {
		start = now
	}

	// reg.handle is written and read under s.mu, which is held until this
	// method returns, so the done callback always observes the handle.
	var reg struct{ handle Handle }
	handle, err := s.out.Play(chunk, start, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		// Removing a handle already cleared by Interrupt is a no-op.
		delete(s.active, reg.handle)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", errBadChunk, err)
	}
	reg.handle = handle
	s.active[handle] = struct{}{}
	s.cursor = start + duration
	return nil
}

// Interrupt immediately stops every in-flight playback, clears the active
// set and resets the cursor to zero. It is called on barge-in and during
// session cleanup.
func (s *Scheduler) Interrupt() {
	s.mu.Lock()
	handles := make([]Handle, 0, len(s.active))
	for h := range s.active {
		handles = append(handles, h)
	}
	s.active = make(map[Handle]struct{})
	s.cursor = 0
	s.mu.Unlock()

	for _, h := range handles {
		h.Stop()
	}
}

// Cursor returns the next scheduled start position.
func (s *Scheduler) Cursor() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// ActiveCount returns the number of in-flight scheduled playbacks.
func (s *Scheduler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.active)
}
