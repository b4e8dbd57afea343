package dto

import (
	"time"

	"github.com/nird-lab/nird_api/model"
)

type UserResponse struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	DisplayName    string     `json:"displayName"`
	Avatar         string     `json:"avatar"`
	TotalXP        int        `json:"totalXP"`
	CurrentStreak  int        `json:"currentStreak"`
	LongestStreak  int        `json:"longestStreak"`
	LastActiveDate *time.Time `json:"lastActiveDate"`
	IsAnonymous    bool       `json:"isAnonymous"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func NewUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:             user.ID,
		Username:       user.Username,
		DisplayName:    user.DisplayName,
		Avatar:         user.Avatar,
		TotalXP:        user.TotalXP,
		CurrentStreak:  user.CurrentStreak,
		LongestStreak:  user.LongestStreak,
		LastActiveDate: user.LastActiveDate,
		IsAnonymous:    user.IsAnonymous,
		CreatedAt:      user.CreatedAt,
	}
}

type UserStats struct {
	CompletedLessons int `json:"completedLessons"`
	TotalLessons     int `json:"totalLessons"`
	TotalStars       int `json:"totalStars"`
	TotalAttempts    int `json:"totalAttempts"`
	CorrectAttempts  int `json:"correctAttempts"`
	// Rounded 0-100 percentage
	SuccessRate int `json:"successRate"`
}

type AchievementResponse struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Tier        string    `json:"tier"`
	XPBonus     int       `json:"xpBonus"`
	UnlockedAt  time.Time `json:"unlockedAt"`
}

type ProfileResponse struct {
	User         UserResponse          `json:"user"`
	Stats        UserStats             `json:"stats"`
	Achievements []AchievementResponse `json:"achievements"`
}

type PublicProfileStats struct {
	CompletedLessons int `json:"completedLessons"`
}

type PublicProfileResponse struct {
	ID            string                `json:"id"`
	Username      string                `json:"username"`
	DisplayName   string                `json:"displayName"`
	Avatar        string                `json:"avatar"`
	TotalXP       int                   `json:"totalXP"`
	CurrentStreak int                   `json:"currentStreak"`
	LongestStreak int                   `json:"longestStreak"`
	CreatedAt     time.Time             `json:"createdAt"`
	Stats         PublicProfileStats    `json:"stats"`
	Achievements  []AchievementResponse `json:"achievements"`
}

type StreakResponse struct {
	CurrentStreak        int                   `json:"currentStreak"`
	LongestStreak        int                   `json:"longestStreak"`
	LastActiveDate       *time.Time            `json:"lastActiveDate"`
	IsNewRecord          bool                  `json:"isNewRecord"`
	UnlockedAchievements []AchievementResponse `json:"unlockedAchievements"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        string `json:"userId"`
	Username      string `json:"username"`
	DisplayName   string `json:"displayName"`
	Avatar        string `json:"avatar"`
	TotalXP       int    `json:"totalXP"`
	CurrentStreak int    `json:"currentStreak"`
}

type LeaderboardResponse struct {
	Timeframe string             `json:"timeframe"`
	Entries   []LeaderboardEntry `json:"entries"`
}
