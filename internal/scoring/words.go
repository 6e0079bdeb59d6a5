// Package scoring compares typed text with a sample passage.
package scoring

import (
	"math"
	"strings"

	"github.com/verte-zerg/speedtype/internal/model"
)

// CountCorrectWords counts words of typed that match sample at the same
// position. Comparison is exact and case-sensitive; extra or missing words
// are ignored.
func CountCorrectWords(sample, typed string) int {
	sampleWords := strings.Fields(sample)
	typedWords := strings.Fields(typed)
	if len(sampleWords) == 0 || len(typedWords) == 0 {
		return 0
	}
	n := min(len(sampleWords), len(typedWords))
	correct := 0
	for i := 0; i < n; i++ {
		if typedWords[i] == sampleWords[i] {
			correct++
		}
	}
	return correct
}

// ComputeWPM converts correct words over elapsed seconds to a whole WPM.
func ComputeWPM(correctWords int, elapsedSeconds float64) int {
	if elapsedSeconds <= 0 {
		return 0
	}
	return int(math.Round(float64(correctWords) / (elapsedSeconds / 60)))
}

// Score computes the result of a finished test.
func Score(sample, typed string, elapsedSeconds float64) model.ScoreResult {
	sample = strings.TrimSpace(sample)
	typed = strings.TrimSpace(typed)
	correct := CountCorrectWords(sample, typed)
	return model.ScoreResult{
		ElapsedSeconds: elapsedSeconds,
		CorrectWords:   correct,
		WPM:            ComputeWPM(correct, elapsedSeconds),
		Accuracy:       Accuracy(typed, sample),
	}
}
