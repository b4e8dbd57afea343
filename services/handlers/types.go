package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
)

type AuthServiceInterface interface {
	Register(req dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(req dto.LoginRequest) (*dto.AuthResponse, error)
	CreateAnonymous() (*dto.AuthResponse, error)
	ConvertAnonymous(userID string, req dto.ConvertAnonymousRequest) (*dto.AuthResponse, error)
	GetMe(userID string) (*dto.UserResponse, error)
	RequiredAuth() fiber.Handler
	OptionalAuth() fiber.Handler
}

type ContentServiceInterface interface {
	ListLessons(userID string) ([]dto.LessonResponse, error)
	GetLessonDetail(lessonID, userID string) (*dto.LessonResponse, error)
	GetExercise(exerciseID string) (*dto.ExerciseResponse, error)
}

type ProgressionServiceInterface interface {
	StartLesson(userID, lessonID string) (*dto.LessonProgressResponse, error)
	CompleteLesson(userID, lessonID string, req dto.CompleteLessonRequest) (*dto.LessonProgressResponse, error)
	SubmitExercise(userID, exerciseID string, req dto.SubmitAnswerRequest) (*dto.SubmitAnswerResponse, error)
	ExerciseStats(userID, exerciseID string) (*dto.ExerciseStatsResponse, error)
	ListGames() ([]dto.GameResponse, error)
	GetGame(gameID string) (*dto.GameResponse, error)
	RecordGameScore(userID, gameID string, score int) (*dto.SubmitScoreResponse, error)
	GetMyScore(userID, gameID string) (*dto.MyScoreResponse, error)
	GetUserScores(userID string) ([]dto.UserScoreResponse, error)
}

type UserServiceInterface interface {
	GetProfile(userID string) (*dto.ProfileResponse, error)
	GetPublicProfile(userID string) (*dto.PublicProfileResponse, error)
}

type StreakServiceInterface interface {
	Touch(userID string) (*dto.StreakResponse, error)
}

type CalculatorServiceInterface interface {
	Compute(req dto.CalculateRequest) *dto.CalculateResponse
}

type LeaderboardServiceInterface interface {
	GetLeaderboard(timeframe string, limit int) (*dto.LeaderboardResponse, error)
	GetGameLeaderboard(gameID string, limit int) (*dto.GameLeaderboardResponse, error)
}
