package livesession

import (
	"sync"
	"sync/atomic"

	"github.com/glintlabs/livedesk/pkg/geminilive"
)

// Transport queues uplink frames against an eventual live session handle.
// Frames sent before the handle resolves are buffered and delivered in
// submission order once it does. After the session has closed or errored,
// sends are dropped silently: this fire-and-forget discipline decouples
// the real-time capture path from network completion latency at the cost
// of losing frames after failure. Drops are counted for observability.
type Transport struct {
	mu      sync.Mutex
	sess    geminilive.Session
	pending []outFrame
	closed  bool

	dropped atomic.Int64
}

type outFrame struct {
	mime  string
	data  []byte
	audio bool
}

// NewTransport creates a transport with an unresolved session handle.
func NewTransport() *Transport {
	return &Transport{}
}

// SendAudio queues one frame of 16 kHz PCM audio. It never blocks on
// network completion and never returns an error.
func (t *Transport) SendAudio(data []byte) {
	t.send(outFrame{data: data, audio: true})
}

// SendImage queues one compressed video frame.
func (t *Transport) SendImage(mimeType string, data []byte) {
	t.send(outFrame{mime: mimeType, data: data})
}

func (t *Transport) send(frame outFrame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		t.dropped.Add(1)
		return
	}
	if t.sess == nil {
		t.pending = append(t.pending, frame)
		return
	}
	if err := t.deliver(frame); err != nil {
		// A send failure means the session is gone. Subsequent sends are
		// dropped without surfacing the error.
		t.closed = true
		t.sess = nil
		t.dropped.Add(1)
	}
}

func (t *Transport) deliver(frame outFrame) error {
	if frame.audio {
		return t.sess.SendAudio(frame.data)
	}
	return t.sess.SendImage(frame.mime, frame.data)
}

// Resolve binds the session handle and flushes buffered frames in
// submission order. Resolving a discarded transport is a no-op.
func (t *Transport) Resolve(sess geminilive.Session) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	t.sess = sess
	for i, frame := range t.pending {
		if err := t.deliver(frame); err != nil {
			t.closed = true
			t.sess = nil
			t.dropped.Add(int64(len(t.pending) - i))
			break
		}
	}
	t.pending = nil
}

// Discard drops the session handle and any buffered frames. All further
// sends are counted as dropped.
func (t *Transport) Discard() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.sess = nil
	t.dropped.Add(int64(len(t.pending)))
	t.pending = nil
}

// Dropped returns the number of frames dropped since creation.
func (t *Transport) Dropped() int64 {
	return t.dropped.Load()
}
