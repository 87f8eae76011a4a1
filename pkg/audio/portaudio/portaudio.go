// Package portaudio is a minimal CGO binding over the PortAudio library,
// covering what livedesk needs: blocking 16-bit mono capture and playback
// on the default devices, plus device enumeration for diagnostics.
//
// Building requires the portaudio C library discoverable via pkg-config
// (e.g. brew install portaudio, apt install portaudio19-dev).
package portaudio

/*
#cgo pkg-config: portaudio-2.0

#include <portaudio.h>
#include <stdlib.h>
#include <string.h>

// void* wrappers avoid CGO type issues with the opaque PaStream.
static PaError pa_open_stream(void **stream,
                              const PaStreamParameters *inputParams,
                              const PaStreamParameters *outputParams,
                              double sampleRate,
                              unsigned long framesPerBuffer,
                              PaStreamFlags streamFlags) {
    return Pa_OpenStream((PaStream**)stream, inputParams, outputParams, sampleRate,
                         framesPerBuffer, streamFlags, NULL, NULL);
}

static PaError pa_start_stream(void *stream) {
    return Pa_StartStream((PaStream*)stream);
}

static PaError pa_stop_stream(void *stream) {
    return Pa_StopStream((PaStream*)stream);
}

static PaError pa_close_stream(void *stream) {
    return Pa_CloseStream((PaStream*)stream);
}

static PaError pa_read_stream(void *stream, void *buffer, unsigned long frames) {
    return Pa_ReadStream((PaStream*)stream, buffer, frames);
}

static PaError pa_write_stream(void *stream, const void *buffer, unsigned long frames) {
    return Pa_WriteStream((PaStream*)stream, buffer, frames);
}
*/
import "C"

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"
)

var (
	initOnce sync.Once
	initErr  error
)

func paError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return fmt.Errorf("portaudio: %s", C.GoString(C.Pa_GetErrorText(code)))
}

// Initialize initializes the PortAudio library. Safe to call repeatedly;
// the library is initialized at most once per process.
func Initialize() error {
	initOnce.Do(func() {
		initErr = paError(C.Pa_Initialize())
	})
	return initErr
}

// Terminate shuts the PortAudio library down.
func Terminate() error {
	return paError(C.Pa_Terminate())
}

// DeviceInfo describes one audio device.
type DeviceInfo struct {
	Index             int
	Name              string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	IsDefaultInput    bool
	IsDefaultOutput   bool
}

// Devices enumerates the available audio devices.
func Devices() ([]DeviceInfo, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return nil, paError(C.PaError(count))
	}

	defaultInput := int(C.Pa_GetDefaultInputDevice())
	defaultOutput := int(C.Pa_GetDefaultOutputDevice())

	devices := make([]DeviceInfo, 0, count)
	for i := 0; i < count; i++ {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(i))
		if info == nil {
			continue
		}
		devices = append(devices, DeviceInfo{
			Index:             i,
			Name:              C.GoString(info.name),
			MaxInputChannels:  int(info.maxInputChannels),
			MaxOutputChannels: int(info.maxOutputChannels),
			DefaultSampleRate: float64(info.defaultSampleRate),
			IsDefaultInput:    i == defaultInput,
			IsDefaultOutput:   i == defaultOutput,
		})
	}
	return devices, nil
}

// PrintDevices writes the device list to stdout.
func PrintDevices() error {
	devices, err := Devices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		marker := ""
		if d.IsDefaultInput {
			marker += " [default input]"
		}
		if d.IsDefaultOutput {
			marker += " [default output]"
		}
		fmt.Printf("%d: %s%s\n", d.Index, d.Name, marker)
		fmt.Printf("   in: %d ch, out: %d ch, default rate: %.0f Hz\n",
			d.MaxInputChannels, d.MaxOutputChannels, d.DefaultSampleRate)
	}
	return nil
}

// Stream is a blocking PortAudio stream with a single C-side sample
// buffer reused across Read/Write calls.
type Stream struct {
	stream     unsafe.Pointer
	buffer     unsafe.Pointer
	bufferSize int
	closed     bool
	mu         sync.Mutex
}

// defaultStreamParams builds stream parameters for the default device in
// the given direction. input selects the capture side.
func defaultStreamParams(input bool, channels int) (*C.PaStreamParameters, error) {
	var device C.PaDeviceIndex
	if input {
		device = C.Pa_GetDefaultInputDevice()
	} else {
		device = C.Pa_GetDefaultOutputDevice()
	}
	if device == C.paNoDevice {
		if input {
			return nil, errors.New("portaudio: no default input device")
		}
		return nil, errors.New("portaudio: no default output device")
	}
	info := C.Pa_GetDeviceInfo(device)
	if info == nil {
		return nil, errors.New("portaudio: device info unavailable")
	}
	latency := info.defaultLowOutputLatency
	if input {
		latency = info.defaultLowInputLatency
	}
	return &C.PaStreamParameters{
		device:                    device,
		channelCount:              C.int(channels),
		sampleFormat:              C.paInt16,
		suggestedLatency:          latency,
		hostApiSpecificStreamInfo: nil,
	}, nil
}

// openStream opens a blocking int16 stream on the default devices.
func openStream(inputChannels, outputChannels int, sampleRate float64, framesPerBuffer int) (*Stream, error) {
	if err := Initialize(); err != nil {
		return nil, err
	}

	var inputParams, outputParams *C.PaStreamParameters
	var err error
	if inputChannels > 0 {
		if inputParams, err = defaultStreamParams(true, inputChannels); err != nil {
			return nil, err
		}
	}
	if outputChannels > 0 {
		if outputParams, err = defaultStreamParams(false, outputChannels); err != nil {
			return nil, err
		}
	}

	var paStream unsafe.Pointer
	if err := paError(C.pa_open_stream(
		&paStream,
		inputParams,
		outputParams,
		C.double(sampleRate),
		C.ulong(framesPerBuffer),
		C.paClipOff,
	)); err != nil {
		return nil, err
	}

	channels := max(inputChannels, outputChannels)
	bufferSize := framesPerBuffer * channels * 2 // int16 samples

	return &Stream{
		stream:     paStream,
		buffer:     C.malloc(C.size_t(bufferSize)),
		bufferSize: bufferSize,
	}, nil
}

// Start starts the stream.
func (s *Stream) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("portaudio: stream closed")
	}
	return paError(C.pa_start_stream(s.stream))
}

// Stop stops the stream. Stopping a closed stream is a no-op.
func (s *Stream) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	return paError(C.pa_stop_stream(s.stream))
}

// Close stops and closes the stream and frees the sample buffer.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	C.pa_stop_stream(s.stream)
	err := paError(C.pa_close_stream(s.stream))
	C.free(s.buffer)
	return err
}

// Read blocks until framesPerBuffer samples have been captured and
// returns them as a fresh slice.
func (s *Stream) Read(framesPerBuffer int) ([]int16, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, errors.New("portaudio: stream closed")
	}

	if err := paError(C.pa_read_stream(s.stream, s.buffer, C.ulong(framesPerBuffer))); err != nil {
		return nil, err
	}

	samples := make([]int16, framesPerBuffer)
	C.memcpy(unsafe.Pointer(&samples[0]), s.buffer, C.size_t(framesPerBuffer*2))
	return samples, nil
}

// Write blocks until all samples have been handed to the device.
func (s *Stream) Write(samples []int16) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("portaudio: stream closed")
	}

	C.memcpy(s.buffer, unsafe.Pointer(&samples[0]), C.size_t(len(samples)*2))
	return paError(C.pa_write_stream(s.stream, s.buffer, C.ulong(len(samples))))
}
