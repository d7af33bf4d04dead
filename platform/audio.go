// platform/audio.go
// Copyright(c) 2025-2026 skydeck contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package platform

// typedef unsigned char uint8;
// void audioCallback(void *userdata, uint8 *stream, int len);
import "C"

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/avdeck/skydeck/log"
	"github.com/avdeck/skydeck/math"

	"github.com/tosone/minimp3"
	"github.com/veandco/go-sdl2/sdl"
)

const AudioSampleRate = 12000

type audioEngine struct {
	pinner  runtime.Pinner
	effects []audioEffect
	mu      sync.Mutex
	config  *Config
}

type audioEffect struct {
	pcm            []int16
	playOnceCount  int
	playContinuous bool
	playOffset     int
}

func (a *audioEngine) Initialize(config *Config, lg *log.Logger) {
	lg.Info("Starting to initialize audio")

	a.config = config
	a.pinner.Pin(a)

	spec := sdl.AudioSpec{
		Freq:     AudioSampleRate,
		Format:   sdl.AUDIO_S16SYS,
		Channels: 1,
		Samples:  512,
		Callback: sdl.AudioCallback(C.audioCallback),
		UserData: unsafe.Pointer(a),
	}
	if err := sdl.OpenAudio(&spec, nil); err != nil {
		lg.Errorf("SDL OpenAudio: %v", err)
	}
	sdl.PauseAudio(false)

	lg.Info("Finished initializing audio")
}

// AddPCM registers an audio effect given by pcm, which is expected to hold
// single-channel signed 16-bit samples at AudioSampleRate. The returned
// index identifies the effect in the PlayAudio* methods; the zero index is
// reserved and is ignored by them.
func (a *audioEngine) AddPCM(pcm []byte, rate int) (int, error) {
	if rate != AudioSampleRate {
		return 0, fmt.Errorf("%d: sample rate doesn't match audio engine's %d", rate, AudioSampleRate)
	}
	a.mu.Lock()
	defer a.mu.Unlock()

	a.effects = append(a.effects, audioEffect{pcm: unsafe.Slice((*int16)(unsafe.Pointer(&pcm[0])), len(pcm)/2)})
	return len(a.effects), nil
}

// AddMP3 decodes the provided MP3 and registers it as with AddPCM; the
// encoded audio must be single-channel at AudioSampleRate.
func (a *audioEngine) AddMP3(mp3 []byte) (int, error) {
	if dec, pcm, err := minimp3.DecodeFull(mp3); err != nil {
		return 0, fmt.Errorf("unable to decode mp3: %w", err)
	} else if dec.Channels != 1 {
		return 0, fmt.Errorf("expected 1 channel, got %d", dec.Channels)
	} else {
		return a.AddPCM(pcm, dec.SampleRate)
	}
}

func (a *audioEngine) PlayAudioOnce(index int) {
	if !a.config.AudioEnabled || index == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.effects[index-1].playOnceCount++
}

func (a *audioEngine) StartPlayAudioContinuous(index int) {
	if !a.config.AudioEnabled || index == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.effects[index-1].playContinuous = true
}

func (a *audioEngine) StopPlayAudioContinuous(index int) {
	if index == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't check config.AudioEnabled since if audio was disabled in the
	// settings while an effect was playing, we still want to stop it.
	a.effects[index-1].playContinuous = false
	a.effects[index-1].playOffset = 0
}

//export audioCallback
func audioCallback(user unsafe.Pointer, ptr *C.uint8, size C.int) {
	n := int(size)
	out := unsafe.Slice((*int16)(unsafe.Pointer(ptr)), n/2)
	a := (*audioEngine)(user)

	a.mu.Lock()
	defer a.mu.Unlock()

	accum := make([]int, n/2)
	for i := range a.effects {
		e := &a.effects[i]

		buf := make([]int16, n/2)
		bread := buf
		for len(bread) > 0 && (e.playContinuous || e.playOnceCount > 0) {
			nc := copy(bread, e.pcm[e.playOffset:])
			e.playOffset += nc
			bread = bread[nc:]

			if e.playOffset == len(e.pcm) {
				e.playOffset = 0
				if e.playOnceCount > 0 {
					e.playOnceCount--
				}
			}
		}

		for i := 0; i < len(buf); i++ {
			accum[i] += int(buf[i]) / 2
		}
	}

	for i := 0; i < len(accum); i++ {
		out[i] = int16(math.Clamp(accum[i], -32768, 32767))
	}
}
