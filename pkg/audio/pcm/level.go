package pcm

import (
	"encoding/binary"
	"math"
)

// Level holds the measured amplitude of one audio frame.
type Level struct {
	// RMS is the root-mean-square amplitude in [0, 1].
	RMS float64
	// Peak is the largest absolute sample value in [0, 1].
	Peak float64
}

// MeasureFloat computes the RMS and peak amplitude of a frame of
// floating-point samples. It is decoupled from any playback routing so it
// can run without audio hardware.
func MeasureFloat(samples []float32) Level {
	if len(samples) == 0 {
		return Level{}
	}
	var sum, peak float64
	for _, s := range samples {
		v := float64(s)
		sum += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return Level{
		RMS:  math.Sqrt(sum / float64(len(samples))),
		Peak: peak,
	}
}

// MeasurePCM16 computes the RMS and peak amplitude of a little-endian
// 16-bit PCM frame.
func MeasurePCM16(data []byte) Level {
	n := len(data) / 2
	if n == 0 {
		return Level{}
	}
	var sum, peak float64
	for i := 0; i < n; i++ {
		v := float64(int16(binary.LittleEndian.Uint16(data[i*2:]))) / 32768
		sum += v * v
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	return Level{
		RMS:  math.Sqrt(sum / float64(n)),
		Peak: peak,
	}
}
