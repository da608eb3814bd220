package tetris

import "time"

// Drop speed curve.
const (
	BaseDropInterval = 1000 * time.Millisecond
	MinDropInterval  = 150 * time.Millisecond
	DropIntervalStep = 75 * time.Millisecond

	// LevelThreshold is the score per level needed to advance:
	// reaching level*LevelThreshold moves from level to level+1.
	LevelThreshold = 1000
)

// linePoints are the base points for clearing 1 to 4 rows in one lock.
var linePoints = [...]int{0, 100, 300, 500, 800}

// LinePoints returns the points for clearing the given number of rows at
// level. Counts outside 1-4 score nothing.
func LinePoints(cleared, level int) int {
	if cleared < 1 || cleared >= len(linePoints) {
		return 0
	}
	return linePoints[cleared] * level
}

// DropIntervalFor returns the gravity period for a level.
func DropIntervalFor(level int) time.Duration {
	return max(MinDropInterval, BaseDropInterval-time.Duration(level-1)*DropIntervalStep)
}

// Progress is the score/level state of a game.
type Progress struct {
	Score        int
	Level        int
	Lines        int // Total rows cleared, display only
	Combo        int // Consecutive locks that cleared at least one row
	DropInterval time.Duration
}

// newProgress returns the state at game start.
func newProgress() Progress {
	return Progress{
		Level:        1,
		DropInterval: BaseDropInterval,
	}
}

// Award adds the points for a lock that cleared the given number of rows,
// then levels up at most once if the score reached the threshold. A single
// large clear never skips more than one level. Returns whether the level
// changed.
func (p *Progress) Award(cleared int) bool {
	points := LinePoints(cleared, p.Level)
	if points == 0 {
		return false
	}
	p.Score += points
	if p.Score >= p.Level*LevelThreshold {
		p.Level++
		p.DropInterval = DropIntervalFor(p.Level)
		return true
	}
	return false
}

// registerLock applies one lock's outcome: points, level, line total and
// the combo counter.
func (p *Progress) registerLock(cleared int) (leveledUp bool) {
	leveledUp = p.Award(cleared)
	p.Lines += max(0, cleared)
	if cleared > 0 {
		p.Combo++
	} else {
		p.Combo = 0
	}
	return leveledUp
}
