// Package media provides the real capture and playback devices behind a
// live session: microphone input and scheduled playback via PortAudio,
// and screen frames via ffmpeg.
package media
