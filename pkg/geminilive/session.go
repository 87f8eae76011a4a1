package geminilive

import "iter"

// Session is a live bidirectional streaming session.
type Session interface {
	// SendAudio sends one frame of microphone audio.
	// Audio format requirements:
	//   - Sample rate: 16kHz
	//   - Bit depth: 16-bit signed integers
	//   - Channels: Mono (1 channel)
	//   - Encoding: Little-endian PCM
	// The audio is automatically base64 encoded before sending.
	SendAudio(audio []byte) error

	// SendImage sends one compressed video frame (e.g., image/jpeg).
	// The data is automatically base64 encoded before sending.
	SendImage(mimeType string, data []byte) error

	// Events returns an iterator over server events in arrival order.
	// The iterator yields events until the session is closed or an error
	// occurs. After an error is yielded, iteration stops.
	Events() iter.Seq2[*ServerEvent, error]

	// Close closes the session connection.
	Close() error
}
