package model

import "time"

type User struct {
	ID            string `json:"id" gorm:"primaryKey"`
	Username      string `json:"username" gorm:"unique;not null"`
	Password      string `json:"-"`
	DisplayName   string `json:"display_name"`
	Avatar        string `json:"avatar"`
	TotalXP       int    `json:"total_xp" gorm:"default:0"`
	CurrentStreak int    `json:"current_streak" gorm:"default:0"`
	LongestStreak int    `json:"longest_streak" gorm:"default:0"`
	// Calendar day of the last scoring activity, stored at midnight UTC
	LastActiveDate *time.Time `json:"last_active_date"`
	IsAnonymous    bool       `json:"is_anonymous" gorm:"default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
