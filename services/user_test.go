package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfileRoundsSuccessRatePercentage(t *testing.T) {
	store := newTestStore(t)
	svc := &UserService{sqlSvc: store}
	progSvc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)
	createTestExercise(t, store, "e1", "l1", "quiz",
		json.RawMessage(`{"subtype":"multiple-choice","options":["A","B"],"correctIndex":0}`))

	// Two correct, one wrong: 2/3 rounds to 67
	for _, answer := range []string{`0`, `0`, `1`} {
		_, err := progSvc.SubmitExercise("u1", "e1", dto.SubmitAnswerRequest{
			Answer: json.RawMessage(answer), TimeSpent: 10,
		})
		require.NoError(t, err)
	}

	profile, err := svc.GetProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, 3, profile.Stats.TotalAttempts)
	assert.Equal(t, 2, profile.Stats.CorrectAttempts)
	assert.Equal(t, 67, profile.Stats.SuccessRate)
	assert.Equal(t, 1, profile.Stats.TotalLessons)

	stats, err := progSvc.ExerciseStats("u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, 67, stats.SuccessRate)
}

func TestGetPublicProfileIncludesProgressAndBadges(t *testing.T) {
	store := newTestStore(t)
	svc := &UserService{sqlSvc: store}
	progSvc := newProgressionService(store)
	createTestUser(t, store, "u1", 0)
	createTestLesson(t, store, "l1", 0)
	createTestLesson(t, store, "l2", 0)

	_, err := progSvc.StartLesson("u1", "l1")
	require.NoError(t, err)
	_, err = progSvc.CompleteLesson("u1", "l1", dto.CompleteLessonRequest{Score: 80, Stars: 2})
	require.NoError(t, err)
	// Started but never finished, must not count
	_, err = progSvc.StartLesson("u1", "l2")
	require.NoError(t, err)

	require.NoError(t, store.Db().Create(&model.Achievement{
		ID: "ach_streak_3", Code: "streak_3", Name: "Bonne habitude",
		RequirementType: "streak", RequirementValue: 3, XPBonus: 15,
	}).Error)
	require.NoError(t, store.Db().Create(&model.UserAchievement{
		ID: "ua1", UserID: "u1", AchievementID: "ach_streak_3",
		UnlockedAt: time.Now(), CreatedAt: time.Now(),
	}).Error)

	profile, err := svc.GetPublicProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", profile.Username)
	assert.Equal(t, 1, profile.Stats.CompletedLessons)
	require.Len(t, profile.Achievements, 1)
	assert.Equal(t, "streak_3", profile.Achievements[0].Code)
}
