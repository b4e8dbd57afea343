package seeders

import (
	"log"

	"github.com/nird-lab/nird_api/model"
	"gorm.io/gorm"
)

// MainSeeder coordinates all seeding operations
type MainSeeder struct {
	db *gorm.DB
}

func NewMainSeeder(db *gorm.DB) *MainSeeder {
	return &MainSeeder{db: db}
}

// SeedAll runs migration plus all seeders in dependency order
func (s *MainSeeder) SeedAll() error {
	log.Println("Starting database seeding...")

	if err := s.migrate(); err != nil {
		log.Printf("Migration failed: %v", err)
		return err
	}

	if err := NewGameSeeder(s.db).SeedGames(); err != nil {
		log.Printf("Game seeding failed: %v", err)
		return err
	}

	if err := NewLessonSeeder(s.db).SeedLessons(); err != nil {
		log.Printf("Lesson seeding failed: %v", err)
		return err
	}

	if err := NewAchievementSeeder(s.db).SeedAchievements(); err != nil {
		log.Printf("Achievement seeding failed: %v", err)
		return err
	}

	// Demo user last: its sample scores reference the games
	if err := NewUserSeeder(s.db).SeedDemoUser(); err != nil {
		log.Printf("Demo user seeding failed: %v", err)
		return err
	}

	log.Println("Database seeding completed successfully!")
	return nil
}

func (s *MainSeeder) migrate() error {
	return s.db.AutoMigrate(
		&model.User{},
		&model.Lesson{},
		&model.Exercise{},
		&model.ExerciseAttempt{},
		&model.LessonProgress{},
		&model.Game{},
		&model.HighScore{},
		&model.Achievement{},
		&model.UserAchievement{},
	)
}

func (s *MainSeeder) SeedGamesOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	return NewGameSeeder(s.db).SeedGames()
}

func (s *MainSeeder) SeedLessonsOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	return NewLessonSeeder(s.db).SeedLessons()
}

func (s *MainSeeder) SeedAchievementsOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	return NewAchievementSeeder(s.db).SeedAchievements()
}

func (s *MainSeeder) SeedDemoOnly() error {
	if err := s.migrate(); err != nil {
		return err
	}
	return NewUserSeeder(s.db).SeedDemoUser()
}
