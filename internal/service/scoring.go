package service

import (
	"math"

	"github.com/haduong/smartmcq/internal/model"
)

// PassThresholdPercent is a presentation-time policy constant; it is applied
// when a result is shown, never stored with the attempt.
const PassThresholdPercent = 60

// ScoreSummary is the final outcome of a submitted attempt. Unanswered
// questions count against the denominator: no credit, never excluded.
type ScoreSummary struct {
	CorrectCount    int
	AnsweredCount   int
	TotalQuestions  int
	ScorePercentage int
	Passed          bool
}

// Summarize scores a set of answers against the test's question count.
func Summarize(answers []model.StudentAnswer, totalQuestions int) ScoreSummary {
	correct := 0
	for _, a := range answers {
		if a.IsCorrect {
			correct++
		}
	}
	pct := ScorePercentage(correct, totalQuestions)
	return ScoreSummary{
		CorrectCount:    correct,
		AnsweredCount:   len(answers),
		TotalQuestions:  totalQuestions,
		ScorePercentage: pct,
		Passed:          pct >= PassThresholdPercent,
	}
}

// ScorePercentage is round(100 * correct / total), 0 when the test has no
// questions.
func ScorePercentage(correctCount, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correctCount) / float64(totalQuestions)))
}

// ProgressPercentage is round(100 * answered / total), 0 when the test has no
// questions.
func ProgressPercentage(answeredCount, totalQuestions int) int {
	if totalQuestions <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(answeredCount) / float64(totalQuestions)))
}
