package geminilive

import (
	"encoding/base64"
	"encoding/json"
	"testing"
)

func parseMessage(t *testing.T, raw string) []*ServerEvent {
	t.Helper()
	var msg serverMessage
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		t.Fatal(err)
	}
	return splitServerMessage(&msg)
}

func TestSplitAudioChunk(t *testing.T) {
	audio := []byte{1, 2, 3, 4}
	raw := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"` +
		base64.StdEncoding.EncodeToString(audio) + `"}}]}}}`

	events := parseMessage(t, raw)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	if events[0].Type != EventAudioChunk {
		t.Errorf("type = %v, want audio_chunk", events[0].Type)
	}
	if string(events[0].Audio) != string(audio) {
		t.Errorf("audio = %v, want %v", events[0].Audio, audio)
	}
}

func TestSplitTranscriptions(t *testing.T) {
	raw := `{"serverContent":{"inputTranscription":{"text":"Hel"},"outputTranscription":{"text":"Hi "}}}`
	events := parseMessage(t, raw)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventInputTranscriptDelta || events[0].Text != "Hel" {
		t.Errorf("event 0 = %v %q", events[0].Type, events[0].Text)
	}
	if events[1].Type != EventOutputTranscriptDelta || events[1].Text != "Hi " {
		t.Errorf("event 1 = %v %q", events[1].Type, events[1].Text)
	}
}

func TestSplitTurnCompleteAfterAudio(t *testing.T) {
	raw := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"AAAA"}}]},"turnComplete":true}}`
	events := parseMessage(t, raw)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventAudioChunk || events[1].Type != EventTurnComplete {
		t.Errorf("order = %v, %v", events[0].Type, events[1].Type)
	}
}

func TestSplitInterrupted(t *testing.T) {
	events := parseMessage(t, `{"serverContent":{"interrupted":true}}`)
	if len(events) != 1 || events[0].Type != EventInterrupted {
		t.Fatalf("events = %v", events)
	}
}

func TestSplitDropsUndecodableAudio(t *testing.T) {
	raw := `{"serverContent":{"modelTurn":{"parts":[{"inlineData":{"mimeType":"audio/pcm;rate=24000","data":"!!!not base64!!!"}}]},"turnComplete":true}}`
	events := parseMessage(t, raw)
	// Bad chunk is dropped; turn completion still arrives.
	if len(events) != 1 || events[0].Type != EventTurnComplete {
		t.Fatalf("events = %v", events)
	}
}

func TestSplitError(t *testing.T) {
	events := parseMessage(t, `{"error":{"code":400,"status":"INVALID_ARGUMENT","message":"bad setup"}}`)
	if len(events) != 1 || events[0].Type != EventErrored || events[0].Reason != "bad setup" {
		t.Fatalf("events = %v", events)
	}
}

func TestSplitGoAway(t *testing.T) {
	events := parseMessage(t, `{"goAway":{"timeLeft":"10s"}}`)
	if len(events) != 1 || events[0].Type != EventClosed {
		t.Fatalf("events = %v", events)
	}
}

func TestSplitEmptyMessage(t *testing.T) {
	if events := parseMessage(t, `{}`); len(events) != 0 {
		t.Fatalf("events = %v, want none", events)
	}
}
