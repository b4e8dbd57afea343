package dto

import (
	"encoding/json"
	"time"
)

type LessonProgressResponse struct {
	LessonID    string     `json:"lessonId"`
	IsCompleted bool       `json:"isCompleted"`
	Score       int        `json:"score"`
	Stars       int        `json:"stars"`
	CompletedAt *time.Time `json:"completedAt"`
}

type LessonResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OrderIndex  int    `json:"orderIndex"`
	RequiredXP  int    `json:"requiredXP"`

	ExerciseCount int                     `json:"exerciseCount"`
	Exercises     []ExerciseResponse      `json:"exercises,omitempty"`
	Progress      *LessonProgressResponse `json:"progress,omitempty"`
}

// ExerciseResponse strips the answer key; only prompt material crosses the wire
type ExerciseResponse struct {
	ID         string          `json:"id"`
	LessonID   string          `json:"lessonId"`
	Type       string          `json:"type"`
	Prompt     string          `json:"prompt"`
	Content    json.RawMessage `json:"content,omitempty"`
	XPReward   int             `json:"xpReward"`
	OrderIndex int             `json:"orderIndex"`
}

type SubmitAnswerRequest struct {
	Answer    json.RawMessage `json:"answer" validate:"required"`
	TimeSpent int             `json:"timeSpent" validate:"gte=0"`
}

func (r SubmitAnswerRequest) Validate() error {
	return GetValidator().Struct(r)
}

// Verdict is the evaluation outcome for one submission
type Verdict struct {
	Correct        bool        `json:"correct"`
	Feedback       string      `json:"feedback"`
	XPEarned       int         `json:"xpEarned"`
	RevealedAnswer interface{} `json:"correctAnswer,omitempty"`
}

type SubmitAnswerResponse struct {
	Verdict
	TotalXP int `json:"totalXP"`
}

type CompleteLessonRequest struct {
	Score int `json:"score" validate:"gte=0,max=100"`
	Stars int `json:"stars" validate:"gte=0,max=3"`
}

func (r CompleteLessonRequest) Validate() error {
	return GetValidator().Struct(r)
}

type ExerciseStatsResponse struct {
	ExerciseID string `json:"exerciseId"`
	Attempts   int    `json:"attempts"`
	Correct    int    `json:"correct"`
	// Rounded 0-100 percentage
	SuccessRate   int        `json:"successRate"`
	XPEarned      int        `json:"xpEarned"`
	LastAttemptAt *time.Time `json:"lastAttemptAt"`
}
