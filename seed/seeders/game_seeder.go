package seeders

import (
	"log"
	"time"

	"github.com/nird-lab/nird_api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GameSeeder struct {
	db *gorm.DB
}

func NewGameSeeder(db *gorm.DB) *GameSeeder {
	return &GameSeeder{db: db}
}

// SeedGames creates the arcade catalogue. Fixed IDs keep reruns idempotent.
func (s *GameSeeder) SeedGames() error {
	now := time.Now()

	games := []model.Game{
		{ID: "game_dino", Name: "Dino", Description: "Saute par-dessus les obstacles", Icon: "🦖"},
		{ID: "game_fruit_ninja", Name: "Fruit Ninja", Description: "Tranche les fruits au vol", Icon: "🍉"},
		{ID: "game_guitar_hero", Name: "Guitar Hero", Description: "Joue les notes en rythme", Icon: "🎸"},
		{ID: "game_taupe", Name: "Taupe Taupe", Description: "Tape sur les taupes", Icon: "🔨"},
		{ID: "game_laser", Name: "Laser Game", Description: "Esquive les lasers", Icon: "🔫"},
	}

	for i := range games {
		games[i].CreatedAt = now
		games[i].UpdatedAt = now
	}

	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&games).Error
	if err != nil {
		return err
	}

	log.Printf("Seeded %d games", len(games))
	return nil
}
