package main

import (
	"sync"

	"github.com/ebitengine/oto/v3"
)

const defaultSampleRate = 44100

var (
	audioOnce       sync.Once
	audioCtx        *oto.Context
	audioSampleRate int
	audioErr        error
)

// initAudioContext opens the single oto context for the process. When a music
// file is configured its sample rate wins so the mp3 plays at the right pitch.
func initAudioContext(musicPath string) (*oto.Context, int, error) {
	audioOnce.Do(func() {
		sampleRate := defaultSampleRate
		if musicPath != "" {
			if dec, err := newSafeDecoder(musicPath); err == nil {
				sampleRate = dec.SampleRate()
			} else {
				DebugLogf("audio sample rate fallback: %v", err)
			}
		}
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
		})
		if err != nil {
			audioErr = err
			return
		}
		<-ready
		audioCtx = ctx
		audioSampleRate = sampleRate
	})
	return audioCtx, audioSampleRate, audioErr
}
