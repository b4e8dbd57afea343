package services

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/alphabatem/common/context"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
)

// Raised for a type tag outside the four supported exercise kinds. The caller
// must not record an attempt in that case.
var ErrUnsupportedExerciseType = errors.New("unsupported exercise type")

// Raised when the stored answer key is missing fields required by its type
var ErrMalformedExercise = errors.New("malformed exercise payload")

const (
	speedBonusXP        = 5
	speedBonusThreshold = 5 // seconds
	firstAttemptBonusXP = 5
	estimationTolerance = 0.2
)

type ScoringService struct {
	context.DefaultService
}

const SCORING_SVC = "scoring_svc"

func (svc ScoringService) Id() string {
	return SCORING_SVC
}

func (svc *ScoringService) Start() error {
	return nil
}

type quizKey struct {
	Subtype      string   `json:"subtype"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
}

type matchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

type matchingKey struct {
	Pairs []matchPair `json:"pairs"`
}

type typingKey struct {
	Expected           string   `json:"expected"`
	AcceptedVariations []string `json:"acceptedVariations"`
}

type estimationKey struct {
	Correct *float64 `json:"correct"`
	Unit    string   `json:"unit"`
}

// Evaluate grades one submission. Pure: persistence of the attempt and the XP
// award is the caller's job. priorAttempts counts earlier rows for the same
// (user, exercise) pair only.
func (svc *ScoringService) Evaluate(exercise *model.Exercise, answer json.RawMessage, timeSpent, priorAttempts int) (*dto.Verdict, error) {
	var verdict *dto.Verdict
	var err error

	switch exercise.Type {
	case shared.ExerciseTypeQuiz:
		verdict, err = svc.evaluateQuiz(exercise.Data, answer)
	case shared.ExerciseTypeMatching:
		verdict, err = svc.evaluateMatching(exercise.Data, answer)
	case shared.ExerciseTypeTyping:
		verdict, err = svc.evaluateTyping(exercise.Data, answer)
	case shared.ExerciseTypeEstimation:
		verdict, err = svc.evaluateEstimation(exercise.Data, answer)
	default:
		return nil, ErrUnsupportedExerciseType
	}

	if err != nil {
		return nil, err
	}

	if verdict.Correct {
		verdict.XPEarned = exercise.XPReward
		if timeSpent < speedBonusThreshold {
			verdict.XPEarned += speedBonusXP
		}
		if priorAttempts == 0 {
			verdict.XPEarned += firstAttemptBonusXP
		}
	}

	return verdict, nil
}

func (svc *ScoringService) evaluateQuiz(data, answer json.RawMessage) (*dto.Verdict, error) {
	var key quizKey
	if err := shared.JSONUnmarshal(data, &key); err != nil || key.CorrectIndex == nil {
		return nil, ErrMalformedExercise
	}

	var submitted int
	if err := shared.JSONUnmarshal(answer, &submitted); err != nil {
		return &dto.Verdict{Correct: false, Feedback: "Mauvaise réponse"}, nil
	}

	if submitted == *key.CorrectIndex {
		return &dto.Verdict{Correct: true, Feedback: "Bonne réponse !"}, nil
	}

	return &dto.Verdict{
		Correct:        false,
		Feedback:       "Mauvaise réponse",
		RevealedAnswer: *key.CorrectIndex,
	}, nil
}

func (svc *ScoringService) evaluateMatching(data, answer json.RawMessage) (*dto.Verdict, error) {
	var key matchingKey
	if err := shared.JSONUnmarshal(data, &key); err != nil || len(key.Pairs) == 0 {
		return nil, ErrMalformedExercise
	}

	var submitted []matchPair
	if err := shared.JSONUnmarshal(answer, &submitted); err != nil {
		return &dto.Verdict{Correct: false, Feedback: "Associations incorrectes"}, nil
	}

	if pairMultiset(submitted).equals(pairMultiset(key.Pairs)) {
		return &dto.Verdict{Correct: true, Feedback: "Bonne réponse !"}, nil
	}

	return &dto.Verdict{Correct: false, Feedback: "Associations incorrectes"}, nil
}

type pairCounts map[string]int

// Order-independent: the submission must contain exactly the canonical pairs,
// duplicates included. All-or-nothing, no partial credit.
func pairMultiset(pairs []matchPair) pairCounts {
	counts := make(pairCounts, len(pairs))
	for _, p := range pairs {
		counts[p.Left+"\x00"+p.Right]++
	}
	return counts
}

func (a pairCounts) equals(b pairCounts) bool {
	if len(a) != len(b) {
		return false
	}
	for k, n := range a {
		if b[k] != n {
			return false
		}
	}
	return true
}

func (svc *ScoringService) evaluateTyping(data, answer json.RawMessage) (*dto.Verdict, error) {
	var key typingKey
	if err := shared.JSONUnmarshal(data, &key); err != nil || key.Expected == "" {
		return nil, ErrMalformedExercise
	}

	var submitted string
	if err := shared.JSONUnmarshal(answer, &submitted); err != nil {
		return &dto.Verdict{Correct: false, Feedback: "Mauvaise réponse", RevealedAnswer: key.Expected}, nil
	}

	normalized := strings.ToLower(strings.TrimSpace(submitted))
	if normalized == strings.ToLower(key.Expected) {
		return &dto.Verdict{Correct: true, Feedback: "Bonne réponse !"}, nil
	}
	for _, variation := range key.AcceptedVariations {
		if normalized == strings.ToLower(variation) {
			return &dto.Verdict{Correct: true, Feedback: "Bonne réponse !"}, nil
		}
	}

	return &dto.Verdict{
		Correct:        false,
		Feedback:       "Mauvaise réponse",
		RevealedAnswer: key.Expected,
	}, nil
}

func (svc *ScoringService) evaluateEstimation(data, answer json.RawMessage) (*dto.Verdict, error) {
	var key estimationKey
	if err := shared.JSONUnmarshal(data, &key); err != nil || key.Correct == nil {
		return nil, ErrMalformedExercise
	}

	submitted, ok := parseNumericAnswer(answer)
	if !ok {
		return &dto.Verdict{Correct: false, Feedback: "Valeur non numérique"}, nil
	}

	// Tolerance band is computed from the canonical value, boundary inclusive
	tolerance := math.Abs(*key.Correct) * estimationTolerance
	if math.Abs(submitted-*key.Correct) <= tolerance {
		return &dto.Verdict{Correct: true, Feedback: "Bonne estimation !"}, nil
	}

	// The canonical value is revealed through the feedback, never as a
	// structured answer the client could replay.
	return &dto.Verdict{
		Correct:  false,
		Feedback: "Trop loin de la bonne valeur. La valeur correcte était " + formatEstimationValue(*key.Correct, key.Unit),
	}, nil
}

func formatEstimationValue(value float64, unit string) string {
	formatted := strconv.FormatFloat(value, 'f', -1, 64)
	if unit != "" {
		return formatted + " " + unit
	}
	return formatted
}

func parseNumericAnswer(answer json.RawMessage) (float64, bool) {
	var raw interface{}
	if err := shared.JSONUnmarshal(answer, &raw); err != nil {
		return 0, false
	}

	switch v := raw.(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// ComputeStars maps a 0-100 percentage to the 0-3 star banding
func ComputeStars(score int) int {
	switch {
	case score >= 90:
		return 3
	case score >= 70:
		return 2
	case score >= 50:
		return 1
	default:
		return 0
	}
}
