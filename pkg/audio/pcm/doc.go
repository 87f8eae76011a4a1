// Package pcm provides PCM audio format handling for the livedesk
// streaming pipeline.
//
// Two formats matter on the wire: L16Mono16K for uplink microphone audio
// and L16Mono24K for downlink model audio. L16Mono48K exists for local
// playback devices that run at 48 kHz.
//
// Example usage:
//
//	format := pcm.L16Mono16K
//	chunk := format.DataChunk(audioData)
//	dur := format.Duration(chunk.Len())
package pcm
