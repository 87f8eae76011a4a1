package livesession

import (
	"bytes"
	"errors"
	"iter"
	"sync"
	"testing"

	"github.com/glintlabs/livedesk/pkg/geminilive"
)

// fakeSession records uplink frames and can be made to fail sends.
type fakeSession struct {
	mu       sync.Mutex
	sent     []sentFrame
	sendErr  error
	closed   bool
	events   chan *geminilive.ServerEvent
	closeErr error
}

type sentFrame struct {
	mime string
	data []byte
}

func newFakeSession() *fakeSession {
	return &fakeSession{events: make(chan *geminilive.ServerEvent, 16)}
}

func (s *fakeSession) SendAudio(audio []byte) error {
	return s.record(sentFrame{mime: "audio/pcm;rate=16000", data: audio})
}

func (s *fakeSession) SendImage(mimeType string, data []byte) error {
	return s.record(sentFrame{mime: mimeType, data: data})
}

func (s *fakeSession) record(frame sentFrame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, frame)
	return nil
}

func (s *fakeSession) frames() []sentFrame {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentFrame, len(s.sent))
	copy(out, s.sent)
	return out
}

func (s *fakeSession) failSends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

func (s *fakeSession) Events() iter.Seq2[*geminilive.ServerEvent, error] {
	return func(yield func(*geminilive.ServerEvent, error) bool) {
		for ev := range s.events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return s.closeErr
}

func (s *fakeSession) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func TestTransportBuffersUntilResolve(t *testing.T) {
	tr := NewTransport()
	tr.SendAudio([]byte{1, 2})
	tr.SendImage("image/jpeg", []byte{3, 4})
	tr.SendAudio([]byte{5, 6})

	sess := newFakeSession()
	tr.Resolve(sess)

	frames := sess.frames()
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	// Submission order survives buffering.
	if !bytes.Equal(frames[0].data, []byte{1, 2}) {
		t.Errorf("frame 0 = %v", frames[0])
	}
	if frames[1].mime != "image/jpeg" {
		t.Errorf("frame 1 mime = %q", frames[1].mime)
	}
	if !bytes.Equal(frames[2].data, []byte{5, 6}) {
		t.Errorf("frame 2 = %v", frames[2])
	}
	if got := tr.Dropped(); got != 0 {
		t.Errorf("dropped = %d, want 0", got)
	}

	// Later sends go straight through.
	tr.SendAudio([]byte{7, 8})
	if got := len(sess.frames()); got != 4 {
		t.Errorf("got %d frames after direct send, want 4", got)
	}
}

func TestTransportDropsAfterDiscard(t *testing.T) {
	tr := NewTransport()
	tr.SendAudio([]byte{1, 2})
	tr.Discard()
	tr.SendAudio([]byte{3, 4})
	tr.SendImage("image/jpeg", []byte{5})

	if got := tr.Dropped(); got != 3 {
		t.Errorf("dropped = %d, want 3", got)
	}

	// Resolving after discard is a no-op.
	sess := newFakeSession()
	tr.Resolve(sess)
	tr.SendAudio([]byte{6})
	if got := len(sess.frames()); got != 0 {
		t.Errorf("discarded transport delivered %d frames", got)
	}
	if got := tr.Dropped(); got != 4 {
		t.Errorf("dropped = %d, want 4", got)
	}
}

func TestTransportClosesOnSendFailure(t *testing.T) {
	tr := NewTransport()
	sess := newFakeSession()
	tr.Resolve(sess)

	tr.SendAudio([]byte{1, 2})
	sess.failSends(errors.New("connection reset"))
	tr.SendAudio([]byte{3, 4})
	tr.SendAudio([]byte{5, 6})

	if got := len(sess.frames()); got != 1 {
		t.Errorf("got %d delivered frames, want 1", got)
	}
	if got := tr.Dropped(); got != 2 {
		t.Errorf("dropped = %d, want 2", got)
	}
}

func TestTransportCountsFlushFailure(t *testing.T) {
	tr := NewTransport()
	tr.SendAudio([]byte{1})
	tr.SendAudio([]byte{2})
	tr.SendAudio([]byte{3})

	sess := newFakeSession()
	sess.failSends(errors.New("connection reset"))
	tr.Resolve(sess)

	if got := tr.Dropped(); got != 3 {
		t.Errorf("dropped = %d, want 3", got)
	}
	tr.SendAudio([]byte{4})
	if got := tr.Dropped(); got != 4 {
		t.Errorf("dropped = %d, want 4", got)
	}
}
