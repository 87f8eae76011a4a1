// Package livesession manages a realtime bidirectional multimodal
// streaming session: microphone audio and periodic screen frames go up,
// model audio and transcriptions come back down.
//
// The Controller owns the session state machine and all acquired
// resources. Downlink events arrive on a single ordered queue consumed by
// one owning goroutine, which is the only mutator of the playback cursor
// and the transcript buffers. Uplink sends are fire-and-forget so the
// capture path never blocks on network completion.
package livesession
