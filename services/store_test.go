package services

import (
	"testing"
	"time"

	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestStore opens a throwaway in-memory database. Connections must stay at
// one so the memory database is not duplicated per connection.
func newTestStore(t *testing.T) *PostgresService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := &PostgresService{db: db}
	require.NoError(t, store.Migrate())
	return store
}

func createTestUser(t *testing.T, store *PostgresService, id string, totalXP int) *model.User {
	t.Helper()

	user := &model.User{
		ID:       id,
		Username: id,
		TotalXP:  totalXP,
	}
	_, err := store.CreateUser(user)
	require.NoError(t, err)
	return user
}

func createTestLesson(t *testing.T, store *PostgresService, id string, requiredXP int) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		ID:         id,
		Title:      "Leçon " + id,
		RequiredXP: requiredXP,
		IsActive:   true,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	require.NoError(t, store.Db().Create(lesson).Error)
	return lesson
}

func createTestExercise(t *testing.T, store *PostgresService, id, lessonID, exType string, data []byte) *model.Exercise {
	t.Helper()

	exercise := &model.Exercise{
		ID:        id,
		LessonID:  lessonID,
		Type:      exType,
		Prompt:    "Question " + id,
		Data:      data,
		XPReward:  10,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Db().Create(exercise).Error)
	return exercise
}

func createTestGame(t *testing.T, store *PostgresService, id string) *model.Game {
	t.Helper()

	game := &model.Game{
		ID:        id,
		Name:      "Jeu " + id,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	require.NoError(t, store.Db().Create(game).Error)
	return game
}

func TestUsernameExistsIsCaseInsensitive(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "Marie", 0)

	exists, err := store.UsernameExists("marie")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = store.UsernameExists("paul")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestAddUserXPAccumulates(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "u1", 10)

	require.NoError(t, store.AddUserXP("u1", 15))
	require.NoError(t, store.AddUserXP("u1", 0)) // no-op

	user, err := store.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 25, user.TotalXP)
}

func TestGetUserNotFound(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetUser("missing")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "Utilisateur non trouvé", appErr.Message)
}
