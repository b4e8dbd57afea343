package main

import (
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/nird-lab/nird_api/seed/seeders"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	var (
		seedType   = flag.String("type", "all", "Type of seeding: all, games, lessons, achievements, demo")
		sqlitePath = flag.String("sqlite", "", "Seed into a local sqlite file instead of postgres")
		help       = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	db, err := connect(*sqlitePath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	mainSeeder := seeders.NewMainSeeder(db)

	switch *seedType {
	case "all":
		log.Println("Running complete database seeding...")
		err = mainSeeder.SeedAll()
	case "games":
		log.Println("Seeding games only...")
		err = mainSeeder.SeedGamesOnly()
	case "lessons":
		log.Println("Seeding lessons only...")
		err = mainSeeder.SeedLessonsOnly()
	case "achievements":
		log.Println("Seeding achievements only...")
		err = mainSeeder.SeedAchievementsOnly()
	case "demo":
		log.Println("Seeding demo user only...")
		err = mainSeeder.SeedDemoOnly()
	default:
		log.Fatalf("Unknown seed type: %s. Use 'all', 'games', 'lessons', 'achievements' or 'demo'", *seedType)
	}

	if err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	log.Println("Seeding operation completed successfully!")
}

func connect(sqlitePath string) (*gorm.DB, error) {
	config := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Info),
		TranslateError: true,
	}

	if sqlitePath != "" {
		log.Printf("Connecting to sqlite database: %s", sqlitePath)
		return gorm.Open(sqlite.Open(sqlitePath), config)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Println("DATABASE_URL not set, falling back to sqlite app.db")
		return gorm.Open(sqlite.Open("app.db"), config)
	}

	return gorm.Open(postgres.Open(dsn), config)
}

func showHelp() {
	log.Println(`
Database Seeding Tool

Usage: go run seed/main.go [flags]

Flags:
  -type string
        Type of seeding to perform (default "all")
        Options: all, games, lessons, achievements, demo
  -sqlite string
        Seed into a local sqlite file instead of postgres
  -help
        Show this help message

Environment Variables:
  DATABASE_URL - Postgres DSN (sqlite app.db when unset)`)
}
