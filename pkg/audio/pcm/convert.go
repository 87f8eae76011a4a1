package pcm

import "encoding/binary"

// FloatToPCM16 converts floating-point samples in [-1, 1] to little-endian
// 16-bit signed PCM by scaling by 32768. Amplitudes exceeding unit range
// wrap rather than saturate.
func FloatToPCM16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		v := int16(int32(s * 32768))
		binary.LittleEndian.PutUint16(out[i*2:], uint16(v))
	}
	return out
}

// PCM16ToFloat converts little-endian 16-bit signed PCM to floating-point
// samples in [-1, 1). Trailing odd bytes are ignored.
func PCM16ToFloat(data []byte) []float32 {
	out := make([]float32, len(data)/2)
	for i := range out {
		v := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float32(v) / 32768
	}
	return out
}
