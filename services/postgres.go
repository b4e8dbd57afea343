package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"

	"github.com/alphabatem/common/context"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type PostgresService struct {
	context.DefaultService
	db *gorm.DB

	database string
}

const POSTGRES_SVC = "postgres_svc"

func (ds PostgresService) Id() string {
	return POSTGRES_SVC
}

func (ds *PostgresService) Db() *gorm.DB {
	return ds.db
}

func (ds *PostgresService) Configure(ctx *context.Context) error {
	ds.database = os.Getenv("DATABASE_URL")
	if ds.database == "" {
		// Fallback to individual environment variables
		host := os.Getenv("DB_HOST")
		if host == "" {
			host = "localhost"
		}
		port := os.Getenv("DB_PORT")
		if port == "" {
			port = "5432"
		}
		user := os.Getenv("DB_USER")
		if user == "" {
			user = "postgres"
		}
		password := os.Getenv("DB_PASSWORD")
		if password == "" {
			password = "postgres"
		}
		dbname := os.Getenv("DB_NAME")
		if dbname == "" {
			dbname = "nird_api"
		}
		sslmode := os.Getenv("DB_SSLMODE")
		if sslmode == "" {
			sslmode = "disable"
		}

		ds.database = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			host, user, password, dbname, port, sslmode)
	}

	return ds.DefaultService.Configure(ctx)
}

func (ds *PostgresService) Start() (err error) {
	maxRetries := 10
	retryDelay := time.Second

	for attempt := 1; attempt <= maxRetries; attempt++ {
		log.Printf("Attempting to connect to database (attempt %d/%d)...", attempt, maxRetries)

		ds.db, err = gorm.Open(postgres.Open(ds.database), &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Error),
			TranslateError: true,
		})

		if err == nil {
			sqlDB, dbErr := ds.db.DB()
			if dbErr == nil {
				pingErr := sqlDB.Ping()
				if pingErr == nil {
					log.Println("Successfully connected to database")
					break
				}
				err = pingErr
			} else {
				err = dbErr
			}
		}

		if attempt == maxRetries {
			log.Printf("Failed to connect to database after %d attempts: %v", maxRetries, err)
			return err
		}

		log.Printf("Database connection failed: %v. Retrying in %v...", err, retryDelay)
		time.Sleep(retryDelay)

		retryDelay *= 2
		if retryDelay > 10*time.Second {
			retryDelay = 10 * time.Second
		}
	}

	if err := ds.Migrate(); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		return err
	}

	log.Println("Database connected and migrated successfully")
	return nil
}

// Migrate is shared with the seeder, which connects on its own
func (ds *PostgresService) Migrate() error {
	return ds.db.AutoMigrate(
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

func (ds *PostgresService) Shutdown() {
	sqlDB, err := ds.db.DB()
	if err == nil {
		sqlDB.Close()
	}
}

func (ds *PostgresService) HandleError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(err, "Ressource non trouvée")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewConflictError(err, "Ressource déjà existante")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewBadRequestError(err, "Référence invalide")
	default:
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return shared.NewConflictError(err, "Ressource déjà existante")
		}

		log.WithError(err).Error("Database error occurred")
		return shared.NewInternalError(err, "Erreur interne")
	}
}

// ==================== USER METHODS ====================

func (ds *PostgresService) CreateUser(user *model.User) (*model.User, error) {
	if user.ID == "" {
		id, _ := uuid.NewV7()
		user.ID = id.String()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	if err := ds.db.Create(user).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return user, nil
}

func (ds *PostgresService) GetUser(userID string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(err, "Utilisateur non trouvé")
		}
		return nil, ds.HandleError(err)
	}
	return &user, nil
}

func (ds *PostgresService) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	if err := ds.db.Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (ds *PostgresService) UsernameExists(username string) (bool, error) {
	var count int64
	if err := ds.db.Model(&model.User{}).Where("LOWER(username) = LOWER(?)", username).Count(&count).Error; err != nil {
		return false, ds.HandleError(err)
	}
	return count > 0, nil
}

func (ds *PostgresService) UpdateUser(user *model.User) error {
	user.UpdatedAt = time.Now()
	if err := ds.db.Save(user).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// AddUserXP increments totals in-store so concurrent awards never lose updates
func (ds *PostgresService) AddUserXP(userID string, amount int) error {
	if amount <= 0 {
		return nil
	}

	err := ds.db.Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"total_xp":   gorm.Expr("total_xp + ?", amount),
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return ds.HandleError(err)
	}
	return nil
}

// ==================== LESSON METHODS ====================

func (ds *PostgresService) GetActiveLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	if err := ds.db.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("is_active = ?", true).
		Order("order_index ASC").Find(&lessons).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return lessons, nil
}

func (ds *PostgresService) GetLesson(id string) (*model.Lesson, error) {
	var lesson model.Lesson
	if err := ds.db.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index ASC")
	}).Where("id = ? AND is_active = ?", id, true).First(&lesson).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (ds *PostgresService) CountActiveLessons() (int64, error) {
	var count int64
	if err := ds.db.Model(&model.Lesson{}).Where("is_active = ?", true).Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return count, nil
}

func (ds *PostgresService) GetExercise(id string) (*model.Exercise, error) {
	var exercise model.Exercise
	if err := ds.db.Where("id = ?", id).First(&exercise).Error; err != nil {
		return nil, err
	}
	return &exercise, nil
}

// ==================== LESSON PROGRESS METHODS ====================

func (ds *PostgresService) GetLessonProgress(userID, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	if err := ds.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (ds *PostgresService) GetUserLessonProgress(userID string) ([]model.LessonProgress, error) {
	var progress []model.LessonProgress
	if err := ds.db.Where("user_id = ?", userID).Find(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return progress, nil
}

// EnsureLessonProgress creates the (user, lesson) row if absent and returns the
// current row either way. The conflict clause makes concurrent starts converge
// on a single row instead of racing on the unique index.
func (ds *PostgresService) EnsureLessonProgress(userID, lessonID string) (*model.LessonProgress, error) {
	id, _ := uuid.NewV7()
	now := time.Now()
	row := model.LessonProgress{
		ID:        id.String(),
		UserID:    userID,
		LessonID:  lessonID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&row).Error
	if err != nil {
		return nil, ds.HandleError(err)
	}

	return ds.getProgressRow(userID, lessonID)
}

func (ds *PostgresService) getProgressRow(userID, lessonID string) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	if err := ds.db.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return &progress, nil
}

// CompleteLessonProgress marks completion and keeps the best score and stars.
// The max is taken inside one UPDATE so concurrent completions cannot regress
// each other. Returns gorm.ErrRecordNotFound when the lesson was never started.
func (ds *PostgresService) CompleteLessonProgress(userID, lessonID string, score, stars int) (*model.LessonProgress, error) {
	now := time.Now()

	res := ds.db.Model(&model.LessonProgress{}).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Updates(map[string]interface{}{
			"is_completed": true,
			"score":        gorm.Expr("CASE WHEN score > ? THEN score ELSE ? END", score, score),
			"stars":        gorm.Expr("CASE WHEN stars > ? THEN stars ELSE ? END", stars, stars),
			"completed_at": now,
			"updated_at":   now,
		})
	if res.Error != nil {
		return nil, ds.HandleError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return ds.getProgressRow(userID, lessonID)
}

// ==================== ATTEMPT METHODS ====================

func (ds *PostgresService) CreateAttempt(attempt *model.ExerciseAttempt) error {
	id, _ := uuid.NewV7()
	attempt.ID = id.String()
	attempt.CreatedAt = time.Now()

	if err := ds.db.Create(attempt).Error; err != nil {
		return ds.HandleError(err)
	}
	return nil
}

func (ds *PostgresService) CountAttempts(userID, exerciseID string) (int, error) {
	var count int64
	if err := ds.db.Model(&model.ExerciseAttempt{}).
		Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Count(&count).Error; err != nil {
		return 0, ds.HandleError(err)
	}
	return int(count), nil
}

func (ds *PostgresService) GetAttempts(userID, exerciseID string) ([]model.ExerciseAttempt, error) {
	var attempts []model.ExerciseAttempt
	if err := ds.db.Where("user_id = ? AND exercise_id = ?", userID, exerciseID).
		Order("created_at ASC").Find(&attempts).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return attempts, nil
}

func (ds *PostgresService) GetUserAttemptTotals(userID string) (total int64, correct int64, err error) {
	if err = ds.db.Model(&model.ExerciseAttempt{}).
		Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return 0, 0, ds.HandleError(err)
	}
	if err = ds.db.Model(&model.ExerciseAttempt{}).
		Where("user_id = ? AND is_correct = ?", userID, true).Count(&correct).Error; err != nil {
		return 0, 0, ds.HandleError(err)
	}
	return total, correct, nil
}

// ==================== GAME METHODS ====================

func (ds *PostgresService) GetGames() ([]model.Game, error) {
	var games []model.Game
	if err := ds.db.Order("name ASC").Find(&games).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return games, nil
}

func (ds *PostgresService) GetGame(id string) (*model.Game, error) {
	var game model.Game
	if err := ds.db.Where("id = ?", id).First(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// UpsertHighScore keeps the maximum score for the (user, game) pair without
// read-modify-write races: first an insert that yields to an existing row,
// then a strictly-greater conditional update.
func (ds *PostgresService) UpsertHighScore(userID, gameID string, score int) (stored int, isNew bool, err error) {
	id, _ := uuid.NewV7()
	now := time.Now()
	row := model.HighScore{
		ID:        id.String(),
		UserID:    userID,
		GameID:    gameID,
		Score:     score,
		CreatedAt: now,
		UpdatedAt: now,
	}

	res := ds.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "game_id"}},
		DoNothing: true,
	}).Create(&row)
	if res.Error != nil {
		return 0, false, ds.HandleError(res.Error)
	}
	if res.RowsAffected > 0 {
		return score, true, nil
	}

	res = ds.db.Model(&model.HighScore{}).
		Where("user_id = ? AND game_id = ? AND score < ?", userID, gameID, score).
		Updates(map[string]interface{}{"score": score, "updated_at": now})
	if res.Error != nil {
		return 0, false, ds.HandleError(res.Error)
	}
	if res.RowsAffected > 0 {
		return score, true, nil
	}

	var existing model.HighScore
	if err := ds.db.Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&existing).Error; err != nil {
		return 0, false, ds.HandleError(err)
	}
	return existing.Score, false, nil
}

func (ds *PostgresService) GetHighScore(userID, gameID string) (*model.HighScore, error) {
	var score model.HighScore
	if err := ds.db.Where("user_id = ? AND game_id = ?", userID, gameID).
		First(&score).Error; err != nil {
		return nil, err
	}
	return &score, nil
}

type UserGameScore struct {
	GameID    string
	GameName  string
	Score     int
	UpdatedAt time.Time
}

func (ds *PostgresService) GetUserHighScores(userID string) ([]UserGameScore, error) {
	var scores []UserGameScore
	if err := ds.db.Table("high_scores").
		Select("high_scores.game_id, games.name AS game_name, high_scores.score, high_scores.updated_at").
		Joins("JOIN games ON games.id = high_scores.game_id").
		Where("high_scores.user_id = ?", userID).
		Order("high_scores.score DESC").
		Scan(&scores).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return scores, nil
}

type GameScoreRow struct {
	UserID      string
	Username    string
	DisplayName string
	Score       int
}

func (ds *PostgresService) GetGameLeaderboard(gameID string, limit int) ([]GameScoreRow, error) {
	var rows []GameScoreRow
	if err := ds.db.Table("high_scores").
		Select("high_scores.user_id, users.username, users.display_name, high_scores.score").
		Joins("JOIN users ON users.id = high_scores.user_id").
		Where("high_scores.game_id = ?", gameID).
		Order("high_scores.score DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return rows, nil
}

// ==================== LEADERBOARD METHODS ====================

func (ds *PostgresService) GetLeaderboardUsers(activeSince *time.Time, limit int) ([]model.User, error) {
	query := ds.db.Where("is_anonymous = ?", false)
	if activeSince != nil {
		query = query.Where("last_active_date >= ?", *activeSince)
	}

	var users []model.User
	if err := query.Order("total_xp DESC").Limit(limit).Find(&users).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return users, nil
}

// ==================== ACHIEVEMENT METHODS ====================

func (ds *PostgresService) GetAchievementsByType(requirementType string) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := ds.db.Where("requirement_type = ?", requirementType).
		Order("requirement_value ASC").Find(&achievements).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return achievements, nil
}

func (ds *PostgresService) GetUserAchievements(userID string) ([]model.UserAchievement, error) {
	var unlocks []model.UserAchievement
	if err := ds.db.Preload("Achievement").Where("user_id = ?", userID).
		Order("unlocked_at ASC").Find(&unlocks).Error; err != nil {
		return nil, ds.HandleError(err)
	}
	return unlocks, nil
}
