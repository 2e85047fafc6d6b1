package main

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/go-mp3"
)

// MusicPlayer loops one mp3 file while the game tab is visible.
type MusicPlayer struct {
	ctx     *oto.Context
	path    string
	mu      sync.Mutex
	playing bool
	player  *oto.Player
	stop    chan struct{}
	volume  float64
}

func NewMusicPlayer(ctx *oto.Context, path string, volume float64) *MusicPlayer {
	if ctx == nil || path == "" {
		return nil
	}
	return &MusicPlayer{
		ctx:    ctx,
		path:   path,
		volume: clampVolume(volume),
	}
}

func (m *MusicPlayer) SetVolume(volume float64) {
	m.mu.Lock()
	m.volume = clampVolume(volume)
	m.mu.Unlock()
}

func (m *MusicPlayer) Start() {
	m.mu.Lock()
	if m.playing && m.player != nil {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	dec, err := newSafeDecoder(m.path)
	if err != nil {
		m.mu.Unlock()
		DebugLogf("music decode %s: %v", m.path, err)
		return
	}
	vr := &volumeReader{
		reader:    dec,
		getVolume: m.volumeValue,
	}
	player := m.ctx.NewPlayer(vr)
	player.Play()
	m.player = player
	m.stop = make(chan struct{})
	m.playing = true
	stop := m.stop
	m.mu.Unlock()

	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !player.IsPlaying() {
					if err := dec.Rewind(); err != nil {
						DebugLogf("music rewind: %v", err)
						return
					}
					player.Play()
				}
			}
		}
	}()
}

func (m *MusicPlayer) Stop() {
	m.mu.Lock()
	m.stopLocked()
	m.playing = false
	m.mu.Unlock()
}

func (m *MusicPlayer) stopLocked() {
	if m.stop != nil {
		close(m.stop)
		m.stop = nil
	}
	if m.player != nil {
		_ = m.player.Close()
		m.player = nil
	}
}

func (m *MusicPlayer) volumeValue() float64 {
	m.mu.Lock()
	volume := m.volume
	m.mu.Unlock()
	return volume
}

// safeDecoder serializes access to the mp3 decoder, which is read by the oto
// player goroutine and rewound by the loop goroutine.
type safeDecoder struct {
	mu  sync.Mutex
	dec *mp3.Decoder
}

func newSafeDecoder(path string) (*safeDecoder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read music: %w", err)
	}
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode music: %w", err)
	}
	return &safeDecoder{dec: dec}, nil
}

func (s *safeDecoder) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dec.Read(p)
}

func (s *safeDecoder) Rewind() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.dec.Seek(0, io.SeekStart)
	return err
}

func (s *safeDecoder) SampleRate() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dec.SampleRate()
}

type volumeReader struct {
	reader    io.Reader
	getVolume func() float64
}

func (v *volumeReader) Read(p []byte) (int, error) {
	n, err := v.reader.Read(p)
	volume := clampVolume(v.getVolume())
	if volume >= 0.999 {
		return n, err
	}
	for i := 0; i+1 < n; i += 2 {
		sample := int16(binary.LittleEndian.Uint16(p[i:]))
		scaled := int16(float64(sample) * volume)
		binary.LittleEndian.PutUint16(p[i:], uint16(scaled))
	}
	return n, err
}
