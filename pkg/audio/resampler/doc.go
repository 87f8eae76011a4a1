// Package resampler provides sample rate conversion for the capture and
// playback paths.
//
// Linear performs voice-bandwidth linear interpolation on float samples.
// It is used on the capture path to bring microphone audio to the 16 kHz
// wire rate. It is an approximation, not a band-limited resample.
//
// Stream wraps an io.Reader of 16-bit PCM and resamples it to a device
// format using a pure Go resampling library. It is used on the playback
// path when the output device does not run at the 24 kHz downlink rate.
package resampler
