package model

import (
	"encoding/json"
	"time"
)

// Lesson groups an ordered set of exercises behind an XP gate
type Lesson struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"not null"`
	Description string    `json:"description" gorm:"type:text"`
	OrderIndex  int       `json:"order_index" gorm:"default:0"`
	RequiredXP  int       `json:"required_xp" gorm:"default:0"`
	IsActive    bool      `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationship
	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:LessonID"`
}

// Exercise holds the prompt plus a type-specific payload. Data carries the
// answer key and must never reach a client before submission.
type Exercise struct {
	ID         string          `json:"id" gorm:"primaryKey"`
	LessonID   string          `json:"lesson_id" gorm:"index;not null"`
	Type       string          `json:"type" gorm:"not null"` // quiz, matching, typing, estimation
	Prompt     string          `json:"prompt" gorm:"type:text"`
	Data       json.RawMessage `json:"-" gorm:"type:text"`
	XPReward   int             `json:"xp_reward" gorm:"default:10"`
	OrderIndex int             `json:"order_index" gorm:"default:0"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// Game is an arcade mini-game with a per-user best score
type Game struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Achievement is an unlockable badge with a threshold requirement
type Achievement struct {
	ID               string    `json:"id" gorm:"primaryKey"`
	Code             string    `json:"code" gorm:"unique;not null"`
	Name             string    `json:"name" gorm:"not null"`
	Description      string    `json:"description"`
	Icon             string    `json:"icon"`
	Tier             string    `json:"tier"` // bronze, silver, gold
	RequirementType  string    `json:"requirement_type"`
	RequirementValue int       `json:"requirement_value"`
	XPBonus          int       `json:"xp_bonus" gorm:"default:0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
