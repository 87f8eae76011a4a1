package geminilive

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// fakeLiveServer implements the server side of the live protocol for tests.
// The script function receives the raw setup message and the connection and
// drives the rest of the exchange.
func fakeLiveServer(t *testing.T, script func(t *testing.T, conn *websocket.Conn, setup []byte)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		_, setup, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read setup: %v", err)
			return
		}
		script(t, conn, setup)
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func connectForTest(t *testing.T, srv *httptest.Server, cfg *ConnectConfig) Session {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewClient("test-key", WithWebSocketURL(wsURL(srv)))
	session, err := client.Connect(ctx, cfg)
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func TestConnectSendsSetup(t *testing.T) {
	setupCh := make(chan []byte, 1)
	srv := fakeLiveServer(t, func(t *testing.T, conn *websocket.Conn, setup []byte) {
		setupCh <- setup
		conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
	})
	defer srv.Close()

	session := connectForTest(t, srv, &ConnectConfig{
		SystemInstruction: "Describe what you see.",
		Voice:             "Aoede",
	})
	defer session.Close()

	var msg setupMessage
	if err := json.Unmarshal(<-setupCh, &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Setup == nil {
		t.Fatal("no setup payload")
	}
	if msg.Setup.Model != "models/"+DefaultModel {
		t.Errorf("model = %q", msg.Setup.Model)
	}
	if got := msg.Setup.GenerationConfig.ResponseModalities; len(got) != 1 || got[0] != "AUDIO" {
		t.Errorf("modalities = %v, want [AUDIO]", got)
	}
	if msg.Setup.GenerationConfig.SpeechConfig.VoiceConfig.PrebuiltVoiceConfig.VoiceName != "Aoede" {
		t.Error("voice not propagated")
	}
	if msg.Setup.InputAudioTranscription == nil || msg.Setup.OutputAudioTranscription == nil {
		t.Error("transcription not enabled on both directions")
	}
	if msg.Setup.SystemInstruction == nil || msg.Setup.SystemInstruction.Parts[0].Text != "Describe what you see." {
		t.Error("system instruction not propagated")
	}
}

func TestConnectRejectedSetup(t *testing.T) {
	srv := fakeLiveServer(t, func(t *testing.T, conn *websocket.Conn, setup []byte) {
		conn.WriteJSON(map[string]any{"error": map[string]any{
			"code": 400, "status": "INVALID_ARGUMENT", "message": "unknown model",
		}})
	})
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := NewClient("test-key", WithWebSocketURL(wsURL(srv)))
	_, err := client.Connect(ctx, &ConnectConfig{Model: "bogus"})
	if err == nil {
		t.Fatal("expected connect error")
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Status != "INVALID_ARGUMENT" {
		t.Errorf("err = %v", err)
	}
}

func TestSendAudioEncodesMediaChunk(t *testing.T) {
	chunkCh := make(chan []byte, 1)
	srv := fakeLiveServer(t, func(t *testing.T, conn *websocket.Conn, setup []byte) {
		conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		_, raw, err := conn.ReadMessage()
		if err != nil {
			t.Errorf("read chunk: %v", err)
			return
		}
		chunkCh <- raw
	})
	defer srv.Close()

	session := connectForTest(t, srv, nil)
	defer session.Close()

	pcm := []byte{1, 0, 2, 0}
	if err := session.SendAudio(pcm); err != nil {
		t.Fatal(err)
	}

	var msg realtimeInputMessage
	if err := json.Unmarshal(<-chunkCh, &msg); err != nil {
		t.Fatal(err)
	}
	chunks := msg.RealtimeInput.MediaChunks
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].MimeType != "audio/pcm;rate=16000" {
		t.Errorf("mime = %q", chunks[0].MimeType)
	}
	if chunks[0].Data != base64.StdEncoding.EncodeToString(pcm) {
		t.Errorf("data = %q", chunks[0].Data)
	}
}

func TestEventsDeliveredInOrder(t *testing.T) {
	srv := fakeLiveServer(t, func(t *testing.T, conn *websocket.Conn, setup []byte) {
		conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		conn.WriteJSON(map[string]any{"serverContent": map[string]any{
			"inputTranscription": map[string]any{"text": "He"},
		}})
		conn.WriteJSON(map[string]any{"serverContent": map[string]any{
			"inputTranscription": map[string]any{"text": "llo"},
		}})
		conn.WriteJSON(map[string]any{"serverContent": map[string]any{
			"turnComplete": true,
		}})
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
	})
	defer srv.Close()

	session := connectForTest(t, srv, nil)
	defer session.Close()

	var types []EventType
	var texts []string
	for event, err := range session.Events() {
		if err != nil {
			t.Fatal(err)
		}
		types = append(types, event.Type)
		texts = append(texts, event.Text)
		if event.Type == EventClosed {
			break
		}
	}

	want := []EventType{EventInputTranscriptDelta, EventInputTranscriptDelta, EventTurnComplete, EventClosed}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("types = %v, want %v", types, want)
		}
	}
	if texts[0]+texts[1] != "Hello" {
		t.Errorf("transcript = %q", texts[0]+texts[1])
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := fakeLiveServer(t, func(t *testing.T, conn *websocket.Conn, setup []byte) {
		conn.WriteJSON(map[string]any{"setupComplete": map[string]any{}})
		// Hold the connection open until the client closes it.
		conn.ReadMessage()
	})
	defer srv.Close()

	session := connectForTest(t, srv, nil)
	if err := session.Close(); err != nil {
		t.Fatal(err)
	}
	if err := session.Close(); err != nil {
		t.Errorf("second close: %v", err)
	}
}
