package geminilive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"iter"
	"log/slog"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
)

// WebSocketSession is a websocket-based live session.
type WebSocketSession struct {
	conn      *websocket.Conn
	config    *ConnectConfig
	closeCh   chan struct{}
	eventsCh  chan eventOrError
	closeOnce sync.Once
	mu        sync.Mutex
}

type eventOrError struct {
	event *ServerEvent
	err   error
}

// connectWebSocket dials the endpoint, performs session setup and starts
// the background reader.
func (c *Client) connectWebSocket(ctx context.Context, config *ConnectConfig) (*WebSocketSession, error) {
	if config == nil {
		config = &ConnectConfig{}
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Voice == "" {
		config.Voice = DefaultVoice
	}

	url := c.config.wsURL + "?key=" + c.config.apiKey

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.handshakeTimeout,
	}
	conn, resp, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		if resp != nil {
			return nil, &Error{
				Message:    fmt.Sprintf("failed to connect: %v", err),
				HTTPStatus: resp.StatusCode,
			}
		}
		return nil, fmt.Errorf("geminilive: failed to connect: %w", err)
	}

	session := &WebSocketSession{
		conn:     conn,
		config:   config,
		closeCh:  make(chan struct{}),
		eventsCh: make(chan eventOrError, 100),
	}

	if err := session.setup(); err != nil {
		conn.Close()
		return nil, err
	}

	go session.readLoop()

	return session, nil
}

// setup sends the session configuration and waits for the server's
// acknowledgment. Response modality is audio and transcription is enabled
// on both directions.
func (s *WebSocketSession) setup() error {
	model := s.config.Model
	if !strings.HasPrefix(model, "models/") {
		model = "models/" + model
	}

	setup := &setupPayload{
		Model: model,
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: &voiceConfig{
					PrebuiltVoiceConfig: &prebuiltVoiceConfig{VoiceName: s.config.Voice},
				},
			},
		},
		InputAudioTranscription:  &transcriptionOpts{},
		OutputAudioTranscription: &transcriptionOpts{},
	}
	if s.config.SystemInstruction != "" {
		setup.SystemInstruction = &content{
			Parts: []part{{Text: s.config.SystemInstruction}},
		}
	}

	if err := s.sendJSON(setupMessage{Setup: setup}); err != nil {
		return fmt.Errorf("geminilive: setup send: %w", err)
	}

	_, message, err := s.conn.ReadMessage()
	if err != nil {
		return fmt.Errorf("geminilive: setup read: %w", err)
	}
	var msg serverMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return fmt.Errorf("geminilive: setup parse: %w", err)
	}
	if msg.Error != nil {
		return msg.Error.toError()
	}
	if msg.SetupComplete == nil {
		return &Error{Message: "setup was not acknowledged"}
	}
	return nil
}

// SendAudio sends one frame of 16 kHz PCM microphone audio.
func (s *WebSocketSession) SendAudio(audio []byte) error {
	return s.sendMediaChunk("audio/pcm;rate=16000", audio)
}

// SendImage sends one compressed video frame.
func (s *WebSocketSession) SendImage(mimeType string, data []byte) error {
	return s.sendMediaChunk(mimeType, data)
}

func (s *WebSocketSession) sendMediaChunk(mimeType string, data []byte) error {
	return s.sendJSON(realtimeInputMessage{
		RealtimeInput: &realtimeInput{
			MediaChunks: []mediaChunk{{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(data),
			}},
		},
	})
}

// Events returns an iterator over server events.
func (s *WebSocketSession) Events() iter.Seq2[*ServerEvent, error] {
	return func(yield func(*ServerEvent, error) bool) {
		for {
			select {
			case <-s.closeCh:
				return
			case item, ok := <-s.eventsCh:
				if !ok {
					return
				}
				if !yield(item.event, item.err) {
					return
				}
				if item.err != nil {
					return
				}
			}
		}
	}
}

// Close closes the session.
func (s *WebSocketSession) Close() error {
	var err error
	s.closeOnce.Do(func() {
		close(s.closeCh)
		err = s.conn.Close()
	})
	return err
}

// sendJSON writes one JSON message to the connection.
func (s *WebSocketSession) sendJSON(v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		if jsonBytes, err := json.Marshal(v); err == nil {
			str := string(jsonBytes)
			if len(str) > 500 {
				str = str[:500] + "..."
			}
			slog.Debug("sending message", "content", str)
		}
	}

	return s.conn.WriteJSON(v)
}

// readLoop reads messages from the websocket connection and splits them
// into ordered events.
func (s *WebSocketSession) readLoop() {
	defer close(s.eventsCh)

	for {
		select {
		case <-s.closeCh:
			return
		default:
		}

		_, message, err := s.conn.ReadMessage()
		if err != nil {
			var item eventOrError
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				item = eventOrError{event: &ServerEvent{Type: EventClosed, Reason: "connection closed"}}
			} else {
				item = eventOrError{err: fmt.Errorf("read error: %w", err)}
			}
			select {
			case <-s.closeCh:
			case s.eventsCh <- item:
			}
			return
		}

		if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
			msgStr := string(message)
			if len(msgStr) > 1000 {
				msgStr = msgStr[:1000] + "..."
			}
			slog.Debug("received message", "len", len(message), "content", msgStr)
		}

		var msg serverMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			select {
			case <-s.closeCh:
				return
			case s.eventsCh <- eventOrError{err: fmt.Errorf("parse error: %w", err)}:
			}
			continue
		}

		for _, event := range splitServerMessage(&msg) {
			select {
			case <-s.closeCh:
				return
			case s.eventsCh <- eventOrError{event: event}:
			}
		}
	}
}

// Ensure WebSocketSession implements Session interface.
var _ Session = (*WebSocketSession)(nil)
