// Package geminilive provides a websocket client for the Gemini Live API
// (BidiGenerateContent).
//
// The Live API enables low-latency bidirectional streaming: the client
// uplinks 16 kHz PCM audio and JPEG frames, and the server streams back
// 24 kHz PCM audio together with transcriptions of both directions.
//
// Connect and consume events:
//
//	client := geminilive.NewClient(apiKey)
//	session, err := client.Connect(ctx, &geminilive.ConnectConfig{
//	    Model:             geminilive.DefaultModel,
//	    SystemInstruction: "You are a helpful assistant.",
//	    Voice:             geminilive.DefaultVoice,
//	})
//	if err != nil {
//	    return err
//	}
//	defer session.Close()
//
//	for event, err := range session.Events() {
//	    if err != nil {
//	        return err
//	    }
//	    switch event.Type {
//	    case geminilive.EventAudioChunk:
//	        playAudio(event.Audio)
//	    case geminilive.EventOutputTranscriptDelta:
//	        fmt.Print(event.Text)
//	    }
//	}
package geminilive
