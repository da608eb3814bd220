package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/tui-tetris/internal/config"
	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager plays cues through the system speaker. A manager that is
// disabled or failed to initialize accepts cues and drops them.
type SoundManager struct {
	mu          sync.Mutex
	cfg         config.AudioConfig
	mixer       *beep.Mixer
	initialized bool
}

// NewSoundManager creates a manager for the given settings.
func NewSoundManager(cfg config.AudioConfig) *SoundManager {
	return &SoundManager{
		cfg:   cfg,
		mixer: &beep.Mixer{},
	}
}

// Initialize opens the speaker. It is a no-op when audio is disabled.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized || !sm.cfg.Enabled {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("audio: cannot open speaker: %w", err)
	}
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Enabled reports whether cues will be heard.
func (sm *SoundManager) Enabled() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.initialized
}

// Play queues the sounds for the given cues.
func (sm *SoundManager) Play(cues ...tetris.Cue) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	streamers := make([]beep.Streamer, 0, len(cues))
	for _, c := range cues {
		if s := Synthesize(c, sm.cfg.MasterVolume, sampleRate); s != nil {
			streamers = append(streamers, s)
		}
	}
	if len(streamers) == 0 {
		return
	}

	speaker.Lock()
	sm.mixer.Add(streamers...)
	speaker.Unlock()
}

// Close silences all playing sounds.
func (sm *SoundManager) Close() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.mixer.Clear()
	speaker.Unlock()

	// beep has no way to release the speaker; clearing the mixer stops output.
	sm.initialized = false
}
