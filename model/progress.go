package model

import (
	"encoding/json"
	"time"
)

// ExerciseAttempt is append-only; one row per submission
type ExerciseAttempt struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	UserID     string          `json:"user_id" gorm:"index:idx_attempt_user_exercise;not null"`
	ExerciseID string          `json:"exercise_id" gorm:"index:idx_attempt_user_exercise;not null"`
	Answer     json.RawMessage `json:"answer" gorm:"type:text"`
	IsCorrect  bool            `json:"is_correct"`
	TimeSpent  int             `json:"time_spent"` // seconds
	XPEarned   int             `json:"xp_earned"`
	CreatedAt  time.Time       `json:"created_at"`
}

// LessonProgress tracks one user's best result for one lesson
type LessonProgress struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	UserID      string     `json:"user_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	LessonID    string     `json:"lesson_id" gorm:"uniqueIndex:idx_progress_user_lesson;not null"`
	IsCompleted bool       `json:"is_completed" gorm:"default:false"`
	Score       int        `json:"score" gorm:"default:0"` // 0-100, monotone
	Stars       int        `json:"stars" gorm:"default:0"` // 0-3
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// HighScore keeps the single best arcade score per user and game
type HighScore struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex:idx_score_user_game;not null"`
	GameID    string    `json:"game_id" gorm:"uniqueIndex:idx_score_user_game;not null"`
	Score     int       `json:"score" gorm:"default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAchievement records an unlock; the unique index makes unlocks idempotent
type UserAchievement struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	UserID        string    `json:"user_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	AchievementID string    `json:"achievement_id" gorm:"uniqueIndex:idx_user_achievement;not null"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	CreatedAt     time.Time `json:"created_at"`

	// Relationship
	Achievement Achievement `json:"achievement" gorm:"foreignKey:AchievementID"`
}
