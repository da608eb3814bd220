package tetris

import (
	"fmt"
	"math"
	"time"

	"github.com/vovakirdan/tui-tetris/internal/core"
)

// frames converts a lifetime in 60 Hz display frames, the rate the effect
// timings were tuned for, to a duration.
func frames(n int) time.Duration {
	return time.Duration(n) * time.Second / 60
}

// EffectKind selects how the presentation layer draws an effect.
type EffectKind int

const (
	// EffectText is a banner (DOUBLE, TRIPLE, TETRIS, combo) that grows
	// and fades.
	EffectText EffectKind = iota
	// EffectBorderFlash flashes the board border in and out.
	EffectBorderFlash
	// EffectLineFlash highlights one cleared row and fades.
	EffectLineFlash
)

// String returns the kind name.
func (k EffectKind) String() string {
	switch k {
	case EffectText:
		return "text"
	case EffectBorderFlash:
		return "border_flash"
	case EffectLineFlash:
		return "line_flash"
	default:
		return "unknown"
	}
}

// Effect is a cosmetic event descriptor. The engine only creates and ages
// effects; drawing them is up to the caller.
type Effect struct {
	Kind     EffectKind
	Text     string
	Size     int      // Nominal text size in pixels at scale 1
	Line     int      // Board row the effect is anchored to
	Color    core.RGB // Text color; flashes are white
	Duration time.Duration
	Elapsed  time.Duration
}

// Progress returns how far the effect is through its lifetime, 0 to 1.
func (e Effect) Progress() float64 {
	if e.Duration <= 0 {
		return 1
	}
	return core.ClampF(float64(e.Elapsed)/float64(e.Duration), 0, 1)
}

// Alpha returns the effect opacity for the current progress.
func (e Effect) Alpha() float64 {
	p := e.Progress()
	switch e.Kind {
	case EffectBorderFlash:
		return math.Sin(p * math.Pi)
	default:
		return 1 - p
	}
}

// Scale returns the text size multiplier; banners grow to 1.5x.
func (e Effect) Scale() float64 {
	if e.Kind != EffectText {
		return 1
	}
	return 1 + e.Progress()*0.5
}

// Done reports whether the effect has run its full duration.
func (e Effect) Done() bool {
	return e.Elapsed >= e.Duration
}

// Banner anchors, in board rows.
const (
	bannerLine = 6
	comboLine  = 8
)

var (
	colorDouble = core.RGB{R: 97, G: 218, B: 251}
	colorTriple = core.RGB{R: 240, G: 173, B: 78}
	colorTetris = core.RGB{R: 217, G: 83, B: 79}
	colorCombo  = core.RGB{R: 255, G: 215, B: 0}
)

// Trigger returns the effects fired by one lock. Two, three and four row
// clears get a banner (four also flashes the border); a combo of two or
// more adds a combo banner that grows with the counter.
func Trigger(cleared, combo int) []Effect {
	var out []Effect
	switch cleared {
	case 2:
		out = append(out, Effect{Kind: EffectText, Text: "DOUBLE", Size: 30, Line: bannerLine, Color: colorDouble, Duration: frames(60)})
	case 3:
		out = append(out, Effect{Kind: EffectText, Text: "TRIPLE", Size: 35, Line: bannerLine, Color: colorTriple, Duration: frames(75)})
	case 4:
		out = append(out,
			Effect{Kind: EffectText, Text: "TETRIS", Size: 40, Line: bannerLine, Color: colorTetris, Duration: frames(90)},
			Effect{Kind: EffectBorderFlash, Color: core.White, Duration: frames(30)},
		)
	}

	if combo >= 2 {
		out = append(out, Effect{
			Kind:     EffectText,
			Text:     fmt.Sprintf("%d COMBO!", combo),
			Size:     25 + combo,
			Line:     comboLine,
			Color:    colorCombo,
			Duration: frames(60),
		})
	}
	return out
}

// lineFlashes returns one fading highlight per cleared row.
func lineFlashes(rows []int) []Effect {
	out := make([]Effect, 0, len(rows))
	for _, r := range rows {
		out = append(out, Effect{Kind: EffectLineFlash, Line: r, Color: core.White, Duration: frames(20)})
	}
	return out
}

// ageEffects advances every effect by dt and drops the finished ones.
func ageEffects(effects []Effect, dt time.Duration) []Effect {
	kept := effects[:0]
	for _, e := range effects {
		e.Elapsed += dt
		if !e.Done() {
			kept = append(kept, e)
		}
	}
	return kept
}
