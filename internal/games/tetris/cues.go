package tetris

// Cue is a feedback event for the audio layer. The engine queues cues as
// operations succeed; the platform drains and plays them.
type Cue int

const (
	CueMove Cue = iota
	CueRotate
	CueSoftDrop
	CueHardDrop
	CueHold
	CueLineClear
	CueTetris
	CueGameOver
)

// String returns the cue name.
func (c Cue) String() string {
	switch c {
	case CueMove:
		return "move"
	case CueRotate:
		return "rotate"
	case CueSoftDrop:
		return "soft_drop"
	case CueHardDrop:
		return "hard_drop"
	case CueHold:
		return "hold"
	case CueLineClear:
		return "line_clear"
	case CueTetris:
		return "tetris"
	case CueGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// maxQueuedCues bounds the queue when nobody drains it (headless replays).
const maxQueuedCues = 64
