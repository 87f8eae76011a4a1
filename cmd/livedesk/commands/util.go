package commands

import (
	"encoding/binary"

	"github.com/glintlabs/livedesk/pkg/audio/pcm"
)

const wavHeaderSize = 44

// createWAV wraps raw PCM data in a WAV container for the given format.
func createWAV(pcmData []byte, format pcm.Format) []byte {
	dataSize := len(pcmData)
	sampleRate := format.SampleRate()
	channels := format.Channels()
	bitsPerSample := format.Depth()
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	wav := make([]byte, wavHeaderSize+dataSize)

	// RIFF header
	copy(wav[0:4], "RIFF")
	binary.LittleEndian.PutUint32(wav[4:8], uint32(36+dataSize))
	copy(wav[8:12], "WAVE")

	// fmt subchunk (16-byte PCM format)
	copy(wav[12:16], "fmt ")
	binary.LittleEndian.PutUint32(wav[16:20], 16)
	binary.LittleEndian.PutUint16(wav[20:22], 1)
	binary.LittleEndian.PutUint16(wav[22:24], uint16(channels))
	binary.LittleEndian.PutUint32(wav[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(wav[28:32], uint32(byteRate))
	binary.LittleEndian.PutUint16(wav[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(wav[34:36], uint16(bitsPerSample))

	// data subchunk
	copy(wav[36:40], "data")
	binary.LittleEndian.PutUint32(wav[40:44], uint32(dataSize))
	copy(wav[wavHeaderSize:], pcmData)

	return wav
}
