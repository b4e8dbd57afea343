package services

import (
	"math"

	"github.com/alphabatem/common/context"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
)

type UserService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const USER_SVC = "user_svc"

func (svc UserService) Id() string {
	return USER_SVC
}

func (svc *UserService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

func (svc *UserService) GetProfile(userID string) (*dto.ProfileResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	stats, err := svc.buildStats(userID)
	if err != nil {
		return nil, err
	}

	unlocks, err := svc.sqlSvc.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	return &dto.ProfileResponse{
		User:         dto.NewUserResponse(user),
		Stats:        *stats,
		Achievements: mapAchievements(unlocks),
	}, nil
}

func (svc *UserService) GetPublicProfile(userID string) (*dto.PublicProfileResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	progress, err := svc.sqlSvc.GetUserLessonProgress(userID)
	if err != nil {
		return nil, err
	}
	completed := 0
	for i := range progress {
		if progress[i].IsCompleted {
			completed++
		}
	}

	unlocks, err := svc.sqlSvc.GetUserAchievements(userID)
	if err != nil {
		return nil, err
	}

	return &dto.PublicProfileResponse{
		ID:            user.ID,
		Username:      user.Username,
		DisplayName:   user.DisplayName,
		Avatar:        user.Avatar,
		TotalXP:       user.TotalXP,
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		CreatedAt:     user.CreatedAt,
		Stats:         dto.PublicProfileStats{CompletedLessons: completed},
		Achievements:  mapAchievements(unlocks),
	}, nil
}

func (svc *UserService) buildStats(userID string) (*dto.UserStats, error) {
	progress, err := svc.sqlSvc.GetUserLessonProgress(userID)
	if err != nil {
		return nil, err
	}

	totalLessons, err := svc.sqlSvc.CountActiveLessons()
	if err != nil {
		return nil, err
	}

	stats := dto.UserStats{TotalLessons: int(totalLessons)}
	for i := range progress {
		if progress[i].IsCompleted {
			stats.CompletedLessons++
		}
		stats.TotalStars += progress[i].Stars
	}

	total, correct, err := svc.sqlSvc.GetUserAttemptTotals(userID)
	if err != nil {
		return nil, err
	}
	stats.TotalAttempts = int(total)
	stats.CorrectAttempts = int(correct)
	if total > 0 {
		stats.SuccessRate = int(math.Round(float64(correct) / float64(total) * 100))
	}

	return &stats, nil
}

func mapAchievements(unlocks []model.UserAchievement) []dto.AchievementResponse {
	responses := make([]dto.AchievementResponse, 0, len(unlocks))
	for i := range unlocks {
		responses = append(responses, dto.AchievementResponse{
			Code:        unlocks[i].Achievement.Code,
			Name:        unlocks[i].Achievement.Name,
			Description: unlocks[i].Achievement.Description,
			Icon:        unlocks[i].Achievement.Icon,
			Tier:        unlocks[i].Achievement.Tier,
			XPBonus:     unlocks[i].Achievement.XPBonus,
			UnlockedAt:  unlocks[i].UnlockedAt,
		})
	}
	return responses
}
