package services

import (
	"encoding/json"
	"testing"

	"github.com/nird-lab/nird_api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quizExercise(correctIndex int) *model.Exercise {
	data, _ := json.Marshal(map[string]interface{}{
		"subtype":      "multiple-choice",
		"options":      []string{"A", "B", "C"},
		"correctIndex": correctIndex,
	})
	return &model.Exercise{Type: "quiz", Data: data, XPReward: 10}
}

func matchingExercise(pairs []map[string]string) *model.Exercise {
	data, _ := json.Marshal(map[string]interface{}{"pairs": pairs})
	return &model.Exercise{Type: "matching", Data: data, XPReward: 10}
}

func typingExercise(expected string, variations ...string) *model.Exercise {
	data, _ := json.Marshal(map[string]interface{}{
		"expected":           expected,
		"acceptedVariations": variations,
	})
	return &model.Exercise{Type: "typing", Data: data, XPReward: 10}
}

func estimationExercise(correct float64) *model.Exercise {
	data, _ := json.Marshal(map[string]interface{}{"correct": correct, "unit": "km"})
	return &model.Exercise{Type: "estimation", Data: data, XPReward: 10}
}

func TestEvaluateQuiz(t *testing.T) {
	svc := &ScoringService{}

	verdict, err := svc.Evaluate(quizExercise(1), json.RawMessage(`1`), 10, 1)
	require.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.Nil(t, verdict.RevealedAnswer)

	verdict, err = svc.Evaluate(quizExercise(1), json.RawMessage(`2`), 10, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Correct)
	assert.Equal(t, 0, verdict.XPEarned)
	assert.Equal(t, 1, verdict.RevealedAnswer)
}

func TestEvaluateMatchingOrderIndependent(t *testing.T) {
	svc := &ScoringService{}
	exercise := matchingExercise([]map[string]string{
		{"left": "chat", "right": "cat"},
		{"left": "chien", "right": "dog"},
	})

	// Reversed order is still a full match
	answer := json.RawMessage(`[{"left":"chien","right":"dog"},{"left":"chat","right":"cat"}]`)
	verdict, err := svc.Evaluate(exercise, answer, 10, 1)
	require.NoError(t, err)
	assert.True(t, verdict.Correct)

	// A missing pair fails outright, no partial credit
	answer = json.RawMessage(`[{"left":"chat","right":"cat"}]`)
	verdict, err = svc.Evaluate(exercise, answer, 10, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Correct)

	// A wrong association fails even with the right count
	answer = json.RawMessage(`[{"left":"chat","right":"dog"},{"left":"chien","right":"cat"}]`)
	verdict, err = svc.Evaluate(exercise, answer, 10, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Correct)
}

func TestEvaluateTypingNormalization(t *testing.T) {
	svc := &ScoringService{}
	exercise := typingExercise("Paris", "la ville de paris")

	for _, answer := range []string{`"Paris"`, `"  paris  "`, `"PARIS"`, `"La Ville De Paris"`} {
		verdict, err := svc.Evaluate(exercise, json.RawMessage(answer), 10, 1)
		require.NoError(t, err)
		assert.True(t, verdict.Correct, "answer %s", answer)
	}

	verdict, err := svc.Evaluate(exercise, json.RawMessage(`"Lyon"`), 10, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Correct)
	assert.Equal(t, "Paris", verdict.RevealedAnswer)
}

func TestEvaluateEstimationToleranceBand(t *testing.T) {
	svc := &ScoringService{}
	exercise := estimationExercise(100)

	cases := []struct {
		answer  string
		correct bool
	}{
		{`80`, true},   // lower boundary, inclusive
		{`120`, true},  // upper boundary, inclusive
		{`79.9`, false},
		{`120.1`, false},
		{`100`, true},
		{`"110"`, true}, // numeric string accepted
		{`"abc"`, false},
		{`true`, false},
	}

	for _, tc := range cases {
		verdict, err := svc.Evaluate(exercise, json.RawMessage(tc.answer), 10, 1)
		require.NoError(t, err)
		assert.Equal(t, tc.correct, verdict.Correct, "answer %s", tc.answer)
	}
}

func TestEvaluateEstimationRevealsCanonicalValue(t *testing.T) {
	svc := &ScoringService{}
	exercise := estimationExercise(100)

	verdict, err := svc.Evaluate(exercise, json.RawMessage(`500`), 10, 1)
	require.NoError(t, err)
	assert.False(t, verdict.Correct)
	assert.Contains(t, verdict.Feedback, "100 km")
	// Revealed through feedback only, never as a structured field
	assert.Nil(t, verdict.RevealedAnswer)

	verdict, err = svc.Evaluate(exercise, json.RawMessage(`100`), 10, 1)
	require.NoError(t, err)
	assert.True(t, verdict.Correct)
	assert.NotContains(t, verdict.Feedback, "100")
}

func TestEvaluateXPBonuses(t *testing.T) {
	svc := &ScoringService{}
	exercise := quizExercise(0)

	// Fast first attempt stacks both bonuses
	verdict, err := svc.Evaluate(exercise, json.RawMessage(`0`), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, verdict.XPEarned)

	// Fast retry keeps only the speed bonus
	verdict, err = svc.Evaluate(exercise, json.RawMessage(`0`), 3, 2)
	require.NoError(t, err)
	assert.Equal(t, 15, verdict.XPEarned)

	// Slow retry earns the base reward
	verdict, err = svc.Evaluate(exercise, json.RawMessage(`0`), 30, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, verdict.XPEarned)

	// Threshold is strict: exactly 5 seconds is not fast
	verdict, err = svc.Evaluate(exercise, json.RawMessage(`0`), 5, 2)
	require.NoError(t, err)
	assert.Equal(t, 10, verdict.XPEarned)

	// Incorrect earns nothing, bonuses included
	verdict, err = svc.Evaluate(exercise, json.RawMessage(`2`), 3, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, verdict.XPEarned)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	svc := &ScoringService{}
	exercise := estimationExercise(100)

	first, err := svc.Evaluate(exercise, json.RawMessage(`85`), 3, 0)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := svc.Evaluate(exercise, json.RawMessage(`85`), 3, 0)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestEvaluateUnsupportedType(t *testing.T) {
	svc := &ScoringService{}
	exercise := &model.Exercise{Type: "puzzle", Data: json.RawMessage(`{}`), XPReward: 10}

	_, err := svc.Evaluate(exercise, json.RawMessage(`1`), 10, 0)
	assert.ErrorIs(t, err, ErrUnsupportedExerciseType)
}

func TestEvaluateMalformedKeys(t *testing.T) {
	svc := &ScoringService{}

	cases := []*model.Exercise{
		{Type: "quiz", Data: json.RawMessage(`{"options":["A","B"]}`)},
		{Type: "matching", Data: json.RawMessage(`{"pairs":[]}`)},
		{Type: "typing", Data: json.RawMessage(`{"expected":""}`)},
		{Type: "estimation", Data: json.RawMessage(`{"unit":"km"}`)},
	}
	for _, exercise := range cases {
		_, err := svc.Evaluate(exercise, json.RawMessage(`1`), 10, 0)
		assert.ErrorIs(t, err, ErrMalformedExercise, "type %s", exercise.Type)
	}
}

func TestComputeStars(t *testing.T) {
	cases := map[int]int{
		100: 3, 90: 3,
		89: 2, 70: 2,
		69: 1, 50: 1,
		49: 0, 0: 0,
	}
	for score, want := range cases {
		assert.Equal(t, want, ComputeStars(score), "score %d", score)
	}
}
