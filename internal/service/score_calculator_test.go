package service

import (
	"testing"

	"iaprender_backend/internal/content"
	"iaprender_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ans(v ...int) []*int {
	out := make([]*int, len(v))
	for i := range v {
		out[i] = &v[i]
	}
	return out
}

func threeQuestions() []model.Question {
	opts := []string{"a", "b", "c", "d"}
	return []model.Question{
		{Prompt: "1", Options: opts, Correct: 1},
		{Prompt: "2", Options: opts, Correct: 1},
		{Prompt: "3", Options: opts, Correct: 2},
	}
}

func TestScoreQuiz_MathQuizTwoOfThree(t *testing.T) {
	c, err := content.Load()
	require.NoError(t, err)

	res := ScoreQuiz(c.Quizzes[0].Questions, ans(1, 1, 0))
	assert.Equal(t, 20, res.Points)
	assert.Equal(t, 2, res.CorrectCount)
	assert.Equal(t, 3, res.TotalQuestions)
	assert.Equal(t, 66.67, res.DisplayPercentage())
	assert.False(t, res.Passed)
}

func TestScoreQuiz_PassThresholdInclusive(t *testing.T) {
	opts := []string{"a", "b"}
	qs := make([]model.Question, 10)
	for i := range qs {
		qs[i] = model.Question{Prompt: "q", Options: opts, Correct: 0}
	}

	res := ScoreQuiz(qs, ans(0, 0, 0, 0, 0, 0, 0, 1, 1, 1))
	assert.Equal(t, 70.0, res.Percentage)
	assert.True(t, res.Passed)

	res = ScoreQuiz(qs, ans(0, 0, 0, 0, 0, 0, 1, 1, 1, 1))
	assert.False(t, res.Passed)
}

func TestScoreQuiz_Bounds(t *testing.T) {
	qs := threeQuestions()

	perfect := ScoreQuiz(qs, ans(1, 1, 2))
	assert.Equal(t, 30, perfect.Points)
	assert.Equal(t, 100.0, perfect.Percentage)
	assert.True(t, perfect.Passed)

	none := ScoreQuiz(qs, ans(0, 0, 0))
	assert.Zero(t, none.Points)
	assert.Zero(t, none.Percentage)
	assert.False(t, none.Passed)
}

func TestScoreQuiz_MissingAndInvalidAnswersAreIncorrect(t *testing.T) {
	qs := threeQuestions()
	one := 1

	res := ScoreQuiz(qs, []*int{&one, nil})
	assert.Equal(t, 1, res.CorrectCount)

	res = ScoreQuiz(qs, ans(1, 7, -1))
	assert.Equal(t, 1, res.CorrectCount)

	res = ScoreQuiz(qs, nil)
	assert.Zero(t, res.Points)
	assert.Equal(t, 3, res.TotalQuestions)
}

func TestScoreQuiz_ExtraAnswersIgnored(t *testing.T) {
	res := ScoreQuiz(threeQuestions(), ans(1, 1, 2, 0, 3))
	assert.Equal(t, 30, res.Points)
	assert.Equal(t, 3, res.CorrectCount)
}

func TestScoreQuiz_NoQuestions(t *testing.T) {
	res := ScoreQuiz(nil, ans(1))
	assert.Equal(t, model.ScoreResult{}, res)
}

func TestScoreQuiz_Deterministic(t *testing.T) {
	qs := threeQuestions()
	assert.Equal(t, ScoreQuiz(qs, ans(1, 0, 2)), ScoreQuiz(qs, ans(1, 0, 2)))
}
