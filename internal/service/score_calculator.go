package service

import (
	"iaprender_backend/internal/model"
)

const (
	PointsPerCorrectAnswer = 10
	PassingPercentage      = 70.0
)

// ScoreQuiz scores one attempt. answers[i] is the chosen option index for
// questions[i]; a nil entry, a missing trailing entry or an index outside the
// options counts as incorrect. Answers beyond the last question are ignored.
func ScoreQuiz(questions []model.Question, answers []*int) model.ScoreResult {
	res := model.ScoreResult{TotalQuestions: len(questions)}
	if len(questions) == 0 {
		return res
	}

	for i, q := range questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		a := *answers[i]
		if a < 0 || a >= len(q.Options) {
			continue
		}
		if a == q.Correct {
			res.CorrectCount++
		}
	}

	res.Points = res.CorrectCount * PointsPerCorrectAnswer
	res.Percentage = float64(res.Points) / float64(len(questions)*PointsPerCorrectAnswer) * 100
	res.Passed = res.Percentage >= PassingPercentage
	return res
}
