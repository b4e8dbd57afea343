package seeders

import (
	"log"
	"time"

	"github.com/nird-lab/nird_api/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserSeeder struct {
	db *gorm.DB
}

func NewUserSeeder(db *gorm.DB) *UserSeeder {
	return &UserSeeder{db: db}
}

// SeedDemoUser creates the demo/demo123 account with a few sample scores
func (s *UserSeeder) SeedDemoUser() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	now := time.Now()
	demo := model.User{
		ID:          "user_demo",
		Username:    "demo",
		Password:    string(hashed),
		DisplayName: "Démo",
		TotalXP:     120,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&demo).Error; err != nil {
		return err
	}

	scores := []model.HighScore{
		{ID: "score_demo_dino", UserID: demo.ID, GameID: "game_dino", Score: 22, CreatedAt: now, UpdatedAt: now},
		{ID: "score_demo_fruit", UserID: demo.ID, GameID: "game_fruit_ninja", Score: 80, CreatedAt: now, UpdatedAt: now},
		{ID: "score_demo_guitar", UserID: demo.ID, GameID: "game_guitar_hero", Score: 134000, CreatedAt: now, UpdatedAt: now},
	}

	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&scores).Error; err != nil {
		return err
	}

	log.Println("Seeded demo user (demo/demo123) with sample scores")
	return nil
}
