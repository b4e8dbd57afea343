package services

import (
	"errors"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/google/uuid"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type StreakService struct {
	context.DefaultService

	sqlSvc *PostgresService
}

const STREAK_SVC = "streak_svc"

func (svc StreakService) Id() string {
	return STREAK_SVC
}

func (svc *StreakService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	return nil
}

// Touch advances the daily streak for today's calendar date (UTC). Same-day
// repeats are no-ops; a one-day gap continues the streak; anything longer
// resets it to 1. Threshold achievements unlock in the same transaction as
// the streak update so the bonus XP cannot be applied twice.
func (svc *StreakService) Touch(userID string) (*dto.StreakResponse, error) {
	return svc.touch(userID, time.Now().UTC())
}

func (svc *StreakService) touch(userID string, now time.Time) (*dto.StreakResponse, error) {
	today := dateOnly(now)
	var resp dto.StreakResponse

	err := svc.sqlSvc.Db().Transaction(func(tx *gorm.DB) error {
		var user model.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.NewNotFoundError(err, "Utilisateur non trouvé")
			}
			return err
		}

		daysDiff := daysSinceLastActive(user.LastActiveDate, today)

		switch daysDiff {
		case 0:
			// Already counted today
			resp = dto.StreakResponse{
				CurrentStreak:        user.CurrentStreak,
				LongestStreak:        user.LongestStreak,
				LastActiveDate:       user.LastActiveDate,
				UnlockedAchievements: []dto.AchievementResponse{},
			}
			return nil
		case 1:
			user.CurrentStreak++
		default:
			user.CurrentStreak = 1
		}

		isNewRecord := false
		if user.CurrentStreak > user.LongestStreak {
			user.LongestStreak = user.CurrentStreak
			isNewRecord = true
		}
		user.LastActiveDate = &today
		user.UpdatedAt = time.Now()

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		unlocked, err := unlockThresholdAchievements(tx, user.ID, shared.RequirementStreak, user.CurrentStreak)
		if err != nil {
			return err
		}

		resp = dto.StreakResponse{
			CurrentStreak:        user.CurrentStreak,
			LongestStreak:        user.LongestStreak,
			LastActiveDate:       user.LastActiveDate,
			IsNewRecord:          isNewRecord,
			UnlockedAchievements: unlocked,
		}
		return nil
	})
	if err != nil {
		if _, ok := shared.GetAppError(err); ok {
			return nil, err
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	return &resp, nil
}

// unlockThresholdAchievements creates unlock rows for every achievement of the
// given requirement type the user now qualifies for but does not hold yet,
// crediting the bonus XP. Shared between the streak and XP paths.
func unlockThresholdAchievements(tx *gorm.DB, userID, requirementType string, value int) ([]dto.AchievementResponse, error) {
	var achievements []model.Achievement
	if err := tx.Where("requirement_type = ? AND requirement_value <= ?",
		requirementType, value).
		Order("requirement_value ASC").Find(&achievements).Error; err != nil {
		return nil, err
	}

	unlocked := []dto.AchievementResponse{}
	now := time.Now()

	for i := range achievements {
		var count int64
		if err := tx.Model(&model.UserAchievement{}).
			Where("user_id = ? AND achievement_id = ?", userID, achievements[i].ID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			continue
		}

		id, _ := uuid.NewV7()
		unlock := model.UserAchievement{
			ID:            id.String(),
			UserID:        userID,
			AchievementID: achievements[i].ID,
			UnlockedAt:    now,
			CreatedAt:     now,
		}
		if err := tx.Create(&unlock).Error; err != nil {
			return nil, err
		}

		if achievements[i].XPBonus > 0 {
			err := tx.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
				"total_xp":   gorm.Expr("total_xp + ?", achievements[i].XPBonus),
				"updated_at": now,
			}).Error
			if err != nil {
				return nil, err
			}
		}

		log.WithFields(log.Fields{
			"user_id":     userID,
			"achievement": achievements[i].Code,
		}).Info("Achievement unlocked")

		unlocked = append(unlocked, dto.AchievementResponse{
			Code:        achievements[i].Code,
			Name:        achievements[i].Name,
			Description: achievements[i].Description,
			Icon:        achievements[i].Icon,
			Tier:        achievements[i].Tier,
			XPBonus:     achievements[i].XPBonus,
			UnlockedAt:  now,
		})
	}

	return unlocked, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysSinceLastActive compares calendar dates, ignoring time of day.
// Returns a large value when there is no prior activity.
func daysSinceLastActive(lastActive *time.Time, today time.Time) int {
	if lastActive == nil {
		return 1 << 30
	}
	return int(today.Sub(dateOnly(lastActive.UTC())).Hours() / 24)
}
