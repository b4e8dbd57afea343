package seeders

import (
	"log"
	"time"

	"github.com/nird-lab/nird_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementSeeder struct {
	db *gorm.DB
}

func NewAchievementSeeder(db *gorm.DB) *AchievementSeeder {
	return &AchievementSeeder{db: db}
}

func (s *AchievementSeeder) SeedAchievements() error {
	now := time.Now()

	achievements := []model.Achievement{
		{
			ID: "ach_streak_3", Code: "streak_3",
			Name: "Bonne habitude", Description: "3 jours d'activité d'affilée",
			Icon: "🔥", Tier: "bronze",
			RequirementType: "streak", RequirementValue: 3, XPBonus: 15,
		},
		{
			ID: "ach_streak_7", Code: "streak_7",
			Name: "Une semaine complète", Description: "7 jours d'activité d'affilée",
			Icon: "🔥", Tier: "silver",
			RequirementType: "streak", RequirementValue: 7, XPBonus: 50,
		},
		{
			ID: "ach_streak_30", Code: "streak_30",
			Name: "Marathonien", Description: "30 jours d'activité d'affilée",
			Icon: "🏆", Tier: "gold",
			RequirementType: "streak", RequirementValue: 30, XPBonus: 200,
		},
		{
			ID: "ach_xp_100", Code: "xp_100",
			Name: "Apprenti", Description: "Atteindre 100 XP",
			Icon: "⭐", Tier: "bronze",
			RequirementType: "xp", RequirementValue: 100, XPBonus: 10,
		},
		{
			ID: "ach_xp_500", Code: "xp_500",
			Name: "Expert", Description: "Atteindre 500 XP",
			Icon: "🌟", Tier: "silver",
			RequirementType: "xp", RequirementValue: 500, XPBonus: 50,
		},
	}

	for i := range achievements {
		achievements[i].CreatedAt = now
		achievements[i].UpdatedAt = now
	}

	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&achievements).Error
	if err != nil {
		return err
	}

	log.Printf("Seeded %d achievements", len(achievements))
	return nil
}
