// Package audio synthesizes the game's feedback cues. Every sound is built
// from oscillators at play time; there are no sample files.
package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/vovakirdan/tui-tetris/internal/games/tetris"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a fixed-length raw wave.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a wave of the given frequency and length.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			val = -1
			if o.phase < 0.5 {
				val = 1
			}
		case WaveSaw:
			val = 2 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope shapes a stream with a linear attack and release.
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	totalSamples   int
}

// NewEnvelope wraps s with an attack/release envelope over duration.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := min(rate.N(attack), total)
	rel := min(rate.N(release), total-att)
	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := range n {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		if releaseStart := e.totalSamples - e.releaseSamples; e.position >= releaseStart && e.releaseSamples > 0 {
			vol = math.Max(0, float64(e.totalSamples-e.position)/float64(e.releaseSamples))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly. Zero or negative volume is silent,
// since effects.Volume works in log space.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one step of a cue.
type note struct {
	freq     float64
	duration time.Duration
	wave     WaveType
}

// voice is the recipe for one cue: a note sequence, an optional noise
// layer and a relative gain.
type voice struct {
	notes []note
	noise time.Duration
	gain  float64
}

// Note frequencies, equal temperament.
const (
	noteG3 = 196.00
	noteA3 = 220.00
	noteE4 = 329.63
	noteC5 = 523.25
	noteE5 = 659.25
	noteG5 = 783.99
	noteC6 = 1046.50
)

var voices = map[tetris.Cue]voice{
	tetris.CueMove:     {notes: []note{{noteA3, 25 * time.Millisecond, WaveSquare}}, gain: 0.15},
	tetris.CueRotate:   {notes: []note{{noteE4, 35 * time.Millisecond, WaveSquare}}, gain: 0.2},
	tetris.CueSoftDrop: {notes: []note{{noteG3, 20 * time.Millisecond, WaveSine}}, gain: 0.15},
	tetris.CueHardDrop: {notes: []note{{110, 90 * time.Millisecond, WaveSaw}}, noise: 60 * time.Millisecond, gain: 0.4},
	tetris.CueHold:     {notes: []note{{noteE5, 40 * time.Millisecond, WaveSine}, {noteG5, 40 * time.Millisecond, WaveSine}}, gain: 0.3},
	tetris.CueLineClear: {notes: []note{
		{noteC5, 60 * time.Millisecond, WaveSine},
		{noteE5, 60 * time.Millisecond, WaveSine},
		{noteG5, 90 * time.Millisecond, WaveSine},
	}, gain: 0.4},
	tetris.CueTetris: {notes: []note{
		{noteC5, 70 * time.Millisecond, WaveSquare},
		{noteE5, 70 * time.Millisecond, WaveSquare},
		{noteG5, 70 * time.Millisecond, WaveSquare},
		{noteC6, 160 * time.Millisecond, WaveSquare},
	}, gain: 0.35},
	tetris.CueGameOver: {notes: []note{
		{392.00, 150 * time.Millisecond, WaveSaw},
		{311.13, 150 * time.Millisecond, WaveSaw},
		{261.63, 150 * time.Millisecond, WaveSaw},
		{noteG3, 300 * time.Millisecond, WaveSaw},
	}, gain: 0.35},
}

// CueDuration returns how long a cue's sound lasts, or 0 for an unknown cue.
func CueDuration(c tetris.Cue) time.Duration {
	v, ok := voices[c]
	if !ok {
		return 0
	}
	var d time.Duration
	for _, n := range v.notes {
		d += n.duration
	}
	return max(d, v.noise)
}

// Synthesize builds the streamer for a cue at the given master volume.
// Returns nil for a cue without a voice.
func Synthesize(c tetris.Cue, master float64, rate beep.SampleRate) beep.Streamer {
	v, ok := voices[c]
	if !ok {
		return nil
	}

	parts := make([]beep.Streamer, 0, len(v.notes))
	for _, n := range v.notes {
		var osc beep.Streamer
		if n.wave == WaveSine {
			// Pure tones come straight from beep's generator.
			tone, err := generators.SineTone(rate, n.freq)
			if err != nil {
				continue
			}
			osc = beep.Take(rate.N(n.duration), tone)
		} else {
			osc = NewOscillator(n.freq, n.duration, n.wave, rate)
		}
		release := n.duration / 3
		parts = append(parts, NewEnvelope(osc, n.duration, 2*time.Millisecond, release, rate))
	}
	if len(parts) == 0 {
		return nil
	}
	out := beep.Seq(parts...)

	if v.noise > 0 {
		noise := NewEnvelope(NewOscillator(0, v.noise, WaveNoise, rate), v.noise, time.Millisecond, v.noise/2, rate)
		out = beep.Mix(out, newVolume(noise, 0.5))
	}
	return newVolume(out, v.gain*master)
}
