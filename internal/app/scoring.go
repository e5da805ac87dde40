package app

import "math"

const (
	// MaxPoints is awarded for an instantaneous correct answer.
	MaxPoints = 1000
	// ScoringWindowMs is the latency at which a correct answer stops earning points.
	ScoringWindowMs = 10000
)

// ScoreAnswer returns the points for one answer. Incorrect answers earn nothing;
// correct answers decay linearly from MaxPoints to zero over the scoring window.
func ScoreAnswer(correct bool, elapsedMs int64) int {
	if !correct {
		return 0
	}
	elapsed := min(max(elapsedMs, 0), ScoringWindowMs)
	return int(math.Round(MaxPoints * (1 - float64(elapsed)/ScoringWindowMs)))
}
