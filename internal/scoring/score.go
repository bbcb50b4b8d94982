package scoring

import (
	"math"
	"time"
)

const (
	baseScore        = 40
	pointsPerCorrect = 20
	pointsPerStar    = 10

	// The time bonus decays by timeBonusRate per second and reaches zero
	// at timeBonusWindow.
	timeBonusWindow = 300
	timeBonusRate   = 0.1

	MaxScore = 100
)

// FinalScore computes the session score, clamped to [0, MaxScore] and
// rounded to the nearest integer.
func FinalScore(correct, stars int, elapsed time.Duration) int {
	secs := int(elapsed / time.Second)
	bonus := math.Max(0, float64(timeBonusWindow-secs)) * timeBonusRate

	raw := float64(baseScore+correct*pointsPerCorrect+stars*pointsPerStar) + bonus
	raw = math.Min(MaxScore, raw)
	raw = math.Max(0, raw)
	return int(math.Round(raw))
}
