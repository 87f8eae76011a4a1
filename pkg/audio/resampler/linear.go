package resampler

import "math"

// rateTolerance is the relative sample-rate difference below which no
// resampling is performed.
const rateTolerance = 1e-6

// Linear resamples samples from fromRate to toRate using linear
// interpolation between neighboring samples. If the rates match within
// tolerance the input is returned unchanged. The output length is
// round(len(samples) / (fromRate/toRate)). Interpolation is clamped at the
// final samples so it never reads past the input end.
func Linear(samples []float32, fromRate, toRate float64) []float32 {
	if len(samples) == 0 {
		return samples
	}
	if math.Abs(fromRate-toRate) <= rateTolerance*fromRate {
		return samples
	}

	ratio := fromRate / toRate
	outLen := int(math.Round(float64(len(samples)) / ratio))
	out := make([]float32, outLen)
	last := len(samples) - 1

	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= last {
			out[i] = samples[last]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = samples[idx]*(1-frac) + samples[idx+1]*frac
	}
	return out
}
