package geminilive

import "encoding/base64"

// EventType identifies a server event variant.
type EventType int

const (
	// EventAudioChunk carries a chunk of 24 kHz 16-bit PCM model audio.
	EventAudioChunk EventType = iota
	// EventInputTranscriptDelta carries partial transcription of user audio.
	EventInputTranscriptDelta
	// EventOutputTranscriptDelta carries partial transcription of model audio.
	EventOutputTranscriptDelta
	// EventTurnComplete marks the end of one exchange unit.
	EventTurnComplete
	// EventInterrupted signals barge-in: the user started speaking over a
	// model response and all queued model audio must be discarded.
	EventInterrupted
	// EventClosed signals the server closed the session.
	EventClosed
	// EventErrored carries a server-reported error reason.
	EventErrored
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventAudioChunk:
		return "audio_chunk"
	case EventInputTranscriptDelta:
		return "input_transcript_delta"
	case EventOutputTranscriptDelta:
		return "output_transcript_delta"
	case EventTurnComplete:
		return "turn_complete"
	case EventInterrupted:
		return "interrupted"
	case EventClosed:
		return "closed"
	case EventErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// ServerEvent is a tagged downlink event delivered strictly in the order
// received from the server.
type ServerEvent struct {
	Type EventType

	// Audio is decoded PCM data (EventAudioChunk).
	Audio []byte

	// Text is the transcript delta (EventInputTranscriptDelta,
	// EventOutputTranscriptDelta).
	Text string

	// Reason describes the failure (EventErrored) or close cause
	// (EventClosed).
	Reason string
}

// splitServerMessage converts one raw downlink message into zero or more
// events, preserving the server's within-message ordering: transcripts,
// audio parts, then interrupted / turn completion.
func splitServerMessage(msg *serverMessage) []*ServerEvent {
	var events []*ServerEvent

	if msg.Error != nil {
		return append(events, &ServerEvent{Type: EventErrored, Reason: msg.Error.Message})
	}
	if msg.GoAway != nil {
		return append(events, &ServerEvent{Type: EventClosed, Reason: "server going away"})
	}

	sc := msg.ServerContent
	if sc == nil {
		return events
	}

	if sc.InputTranscription != nil && sc.InputTranscription.Text != "" {
		events = append(events, &ServerEvent{Type: EventInputTranscriptDelta, Text: sc.InputTranscription.Text})
	}
	if sc.OutputTranscription != nil && sc.OutputTranscription.Text != "" {
		events = append(events, &ServerEvent{Type: EventOutputTranscriptDelta, Text: sc.OutputTranscription.Text})
	}
	if sc.ModelTurn != nil {
		for _, p := range sc.ModelTurn.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			audio, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				// Undecodable chunks are dropped; the session continues.
				continue
			}
			events = append(events, &ServerEvent{Type: EventAudioChunk, Audio: audio})
		}
	}
	if sc.Interrupted {
		events = append(events, &ServerEvent{Type: EventInterrupted})
	}
	if sc.TurnComplete {
		events = append(events, &ServerEvent{Type: EventTurnComplete})
	}
	return events
}
