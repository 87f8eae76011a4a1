package livesession

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
	"github.com/glintlabs/livedesk/pkg/geminilive"
)

// PlaybackDevice is an audio output that can be released.
type PlaybackDevice interface {
	Output
	Close() error
}

// Config wires a Controller to its capture devices, playback device and
// remote session factory. Connect, OpenMic and OpenOutput are required;
// OpenScreen is optional and, when nil, the session runs audio-only.
// Callbacks are invoked from controller goroutines and must not block.
type Config struct {
	// Connect dials the remote engine. The context is canceled when the
	// session is stopped.
	Connect func(ctx context.Context) (geminilive.Session, error)

	// OpenMic acquires the microphone. ErrPermissionDenied is treated as
	// a user decline rather than a failure.
	OpenMic func() (AudioSource, error)

	// OpenScreen acquires the screen capture. Optional.
	OpenScreen func() (FrameSource, error)

	// OpenOutput acquires the playback device.
	OpenOutput func() (PlaybackDevice, error)

	// FrameInterval, FrameMaxDimension and FrameQuality tune the screen
	// sampler. Zero values select the package defaults.
	FrameInterval     time.Duration
	FrameMaxDimension int
	FrameQuality      int

	Logger *slog.Logger

	// OnState is invoked on every lifecycle state change.
	OnState func(State)
	// OnLevel is invoked with the level of each captured audio frame.
	OnLevel func(pcm.Level)
	// OnPartial is invoked with the accumulated partial transcript for a
	// role whenever a new delta arrives.
	OnPartial func(Role, string)
	// OnEntry is invoked for each finalized transcript entry.
	OnEntry func(Entry)
}

// Controller owns one live session at a time and drives its lifecycle:
// device acquisition, connection, the downlink event loop and teardown.
// All remote events are applied from a single event-loop goroutine;
// Start and Stop may be called from any goroutine.
type Controller struct {
	cfg    Config
	logger *slog.Logger

	mu         sync.Mutex
	state      State
	gen        uint64
	cancel     context.CancelFunc
	mic        AudioSource
	screen     FrameSource
	output     PlaybackDevice
	sess       geminilive.Session
	transport  *Transport
	scheduler  *Scheduler
	transcript *Assembler

	droppedPrev int64
}

// Stats is a snapshot of session counters.
type Stats struct {
	// DroppedFrames counts uplink frames dropped across all sessions of
	// this controller's lifetime.
	DroppedFrames int64
}

// NewController creates an idle controller. It returns an error when a
// required Config field is missing.
func NewController(cfg Config) (*Controller, error) {
	if cfg.Connect == nil {
		return nil, errors.New("livesession: Config.Connect is required")
	}
	if cfg.OpenMic == nil {
		return nil, errors.New("livesession: Config.OpenMic is required")
	}
	if cfg.OpenOutput == nil {
		return nil, errors.New("livesession: Config.OpenOutput is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:    cfg,
		logger: logger,
		state:  StateIdle,
	}, nil
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stats returns session counters accumulated so far.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.droppedPrev
	if c.transport != nil {
		total += c.transport.Dropped()
	}
	return Stats{DroppedFrames: total}
}

// Entries returns the finalized transcript of the current session, or nil
// when no session is active.
func (c *Controller) Entries() []Entry {
	c.mu.Lock()
	transcript := c.transcript
	c.mu.Unlock()
	if transcript == nil {
		return nil
	}
	return transcript.Entries()
}

// Start acquires devices in order (microphone, then screen, then output),
// connects to the remote engine and begins streaming. It is a no-op when
// a session is already connecting or active. A permission denial releases
// everything acquired so far and returns to Idle; any other failure moves
// to Error. In both cases the error is returned.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateConnecting || c.state == StateActive {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.transport = NewTransport()
	c.transcript = NewAssembler()
	c.setStateLocked(StateConnecting)
	transport := c.transport
	transcript := c.transcript
	c.mu.Unlock()

	mic, err := c.cfg.OpenMic()
	if err != nil {
		return c.startFailed(gen, fmt.Errorf("open microphone: %w", err))
	}
	if !c.adopt(gen, func() { c.mic = mic }) {
		mic.Close()
		return nil
	}

	var screen FrameSource
	if c.cfg.OpenScreen != nil {
		screen, err = c.cfg.OpenScreen()
		if err != nil {
			return c.startFailed(gen, fmt.Errorf("open screen capture: %w", err))
		}
		if !c.adopt(gen, func() { c.screen = screen }) {
			screen.Close()
			return nil
		}
	}

	output, err := c.cfg.OpenOutput()
	if err != nil {
		return c.startFailed(gen, fmt.Errorf("open playback device: %w", err))
	}
	if !c.adopt(gen, func() { c.output = output }) {
		output.Close()
		return nil
	}

	sess, err := c.cfg.Connect(runCtx)
	if err != nil {
		return c.startFailed(gen, fmt.Errorf("connect: %w", err))
	}

	scheduler := NewScheduler(output)
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		sess.Close()
		return nil
	}
	c.sess = sess
	c.scheduler = scheduler
	c.setStateLocked(StateActive)
	c.mu.Unlock()

	// Frames captured while connecting flush to the session in order.
	transport.Resolve(sess)

	pipeline := &capturePipeline{
		src:     mic,
		send:    transport.SendAudio,
		onLevel: c.cfg.OnLevel,
	}
	go pipeline.run(runCtx)

	if screen != nil {
		sampler := NewFrameSampler(screen, transport.SendImage,
			c.cfg.FrameInterval, c.cfg.FrameMaxDimension, c.cfg.FrameQuality)
		go sampler.Run(runCtx)
	}

	go c.eventLoop(gen, sess, scheduler, transcript)

	c.logger.Info("session active")
	return nil
}

// Stop ends the current session and returns to Idle. Stopping an idle
// controller is a no-op, and Stop may be called repeatedly.
func (c *Controller) Stop() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	gen := c.gen
	c.mu.Unlock()

	if !c.cleanup(gen, StateIdle) {
		// A concurrent failure already tore the session down; Stop still
		// acknowledges the error state.
		c.mu.Lock()
		if c.state == StateError {
			c.setStateLocked(StateIdle)
		}
		c.mu.Unlock()
	}
}

// eventLoop applies downlink events for one session. It owns all playback
// scheduling and transcript mutation, so those never race between events.
func (c *Controller) eventLoop(gen uint64, sess geminilive.Session, scheduler *Scheduler, transcript *Assembler) {
	for ev, err := range sess.Events() {
		if err != nil {
			c.logger.Error("session stream failed", "error", err)
			c.cleanup(gen, StateError)
			return
		}
		switch ev.Type {
		case geminilive.EventAudioChunk:
			transcript.MarkResponding()
			if err := scheduler.OnAudioChunk(ev.Audio); err != nil {
				c.logger.Warn("dropping audio chunk", "error", err)
			}
		case geminilive.EventInputTranscriptDelta:
			transcript.AddInputDelta(ev.Text)
			c.notifyPartial(RoleUser, transcript.PendingInput())
		case geminilive.EventOutputTranscriptDelta:
			transcript.AddOutputDelta(ev.Text)
			c.notifyPartial(RoleModel, transcript.PendingOutput())
		case geminilive.EventInterrupted:
			scheduler.Interrupt()
		case geminilive.EventTurnComplete:
			for _, entry := range transcript.CompleteTurn(time.Now()) {
				c.notifyEntry(entry)
			}
		case geminilive.EventClosed:
			c.logger.Info("session closed by remote")
			c.cleanup(gen, StateIdle)
			return
		case geminilive.EventErrored:
			c.logger.Error("session errored", "reason", ev.Reason)
			c.cleanup(gen, StateError)
			return
		}
	}
	c.cleanup(gen, StateIdle)
}

// startFailed tears down a partially started session. Permission denials
// return to Idle; everything else is an Error.
func (c *Controller) startFailed(gen uint64, err error) error {
	final := StateError
	if errors.Is(err, ErrPermissionDenied) {
		final = StateIdle
		c.logger.Info("session start declined", "error", err)
	} else {
		c.logger.Error("session start failed", "error", err)
	}
	c.cleanup(gen, final)
	return err
}

// adopt records an acquired resource if the session generation is still
// current. A false return means Stop or a failure won the race; the
// caller releases the resource itself.
func (c *Controller) adopt(gen uint64, assign func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.gen != gen {
		return false
	}
	assign()
	return true
}

// cleanup releases everything owned by session generation gen and moves
// to the final state. It reports whether it performed the teardown; a
// false return means gen was already superseded and nothing was touched.
// Bumping the generation first makes late Start completions no-ops and
// repeated cleanups idempotent.
func (c *Controller) cleanup(gen uint64, final State) bool {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return false
	}
	c.gen++
	cancel := c.cancel
	mic := c.mic
	screen := c.screen
	output := c.output
	sess := c.sess
	transport := c.transport
	scheduler := c.scheduler
	c.cancel = nil
	c.mic = nil
	c.screen = nil
	c.output = nil
	c.sess = nil
	c.transport = nil
	c.scheduler = nil
	c.transcript = nil
	c.setStateLocked(final)
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if scheduler != nil {
		scheduler.Interrupt()
	}
	if transport != nil {
		transport.Discard()
		c.mu.Lock()
		c.droppedPrev += transport.Dropped()
		c.mu.Unlock()
	}
	if sess != nil {
		sess.Close()
	}
	if mic != nil {
		mic.Close()
	}
	if screen != nil {
		screen.Close()
	}
	if output != nil {
		output.Close()
	}
	return true
}

// setStateLocked records a state change and notifies the observer. The
// callback runs with c.mu held, so it must not call back into the
// controller.
func (c *Controller) setStateLocked(s State) {
	if c.state == s {
		return
	}
	c.state = s
	c.logger.Debug("state changed", "state", s)
	if c.cfg.OnState != nil {
		c.cfg.OnState(s)
	}
}

func (c *Controller) notifyPartial(role Role, text string) {
	if c.cfg.OnPartial != nil {
		c.cfg.OnPartial(role, text)
	}
}

func (c *Controller) notifyEntry(entry Entry) {
	if c.cfg.OnEntry != nil {
		c.cfg.OnEntry(entry)
	}
}
