package dto

import "time"

type GameResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

type SubmitScoreRequest struct {
	Score int `json:"score" validate:"gte=0"`
}

func (r SubmitScoreRequest) Validate() error {
	return GetValidator().Struct(r)
}

type SubmitScoreResponse struct {
	Message        string `json:"message"`
	HighScore      int    `json:"highScore"`
	IsNewHighscore bool   `json:"isNewHighscore"`
}

type GameLeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Score       int    `json:"score"`
}

type GameLeaderboardResponse struct {
	GameID  string                 `json:"gameId"`
	Entries []GameLeaderboardEntry `json:"entries"`
}

type UserScoreResponse struct {
	GameID    string    `json:"gameId"`
	GameName  string    `json:"gameName"`
	Score     int       `json:"score"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type MyScoreResponse struct {
	GameID string `json:"gameId"`
	Score  *int   `json:"score"`
}
