package resampler

// Format describes a 16-bit little-endian PCM stream on either side of a
// Stream. Sources in this repository are mono; Stereo only applies to the
// destination side.
type Format struct {
	// SampleRate in Hz, e.g. 24000 or 48000.
	SampleRate int

	// Stereo selects two interleaved channels instead of one.
	Stereo bool
}

func (f Format) channels() int {
	if f.Stereo {
		return 2
	}
	return 1
}

// sampleBytes is the byte width of one frame across all channels.
func (f Format) sampleBytes() int {
	return 2 * f.channels()
}
