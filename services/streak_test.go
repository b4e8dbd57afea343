package services

import (
	"testing"
	"time"

	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStreakService(store *PostgresService) *StreakService {
	return &StreakService{sqlSvc: store}
}

func setLastActive(t *testing.T, store *PostgresService, userID string, daysAgo int, streak int) {
	t.Helper()

	date := dateOnly(time.Now().UTC().AddDate(0, 0, -daysAgo))
	err := store.Db().Model(&model.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"last_active_date": date,
		"current_streak":   streak,
		"longest_streak":   streak,
	}).Error
	require.NoError(t, err)
}

func TestTouchContinuesStreakAfterOneDay(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "u1", 0)
	setLastActive(t, store, "u1", 1, 3)

	resp, err := newStreakService(store).Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 4, resp.CurrentStreak)
	assert.Equal(t, 4, resp.LongestStreak)
	assert.True(t, resp.IsNewRecord)
}

func TestTouchResetsStreakAfterGap(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "u1", 0)
	setLastActive(t, store, "u1", 3, 3)

	resp, err := newStreakService(store).Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.Equal(t, 3, resp.LongestStreak)
	assert.False(t, resp.IsNewRecord)
}

func TestTouchSameDayIsNoOp(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "u1", 0)
	svc := newStreakService(store)
	setLastActive(t, store, "u1", 1, 3)

	first, err := svc.Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 4, first.CurrentStreak)

	second, err := svc.Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 4, second.CurrentStreak)
	assert.False(t, second.IsNewRecord)
	assert.Empty(t, second.UnlockedAchievements)
}

func TestTouchFirstActivityStartsAtOne(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "u1", 0)

	resp, err := newStreakService(store).Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 1, resp.CurrentStreak)
	assert.True(t, resp.IsNewRecord)
	require.NotNil(t, resp.LastActiveDate)
}

func TestTouchUnknownUser(t *testing.T) {
	store := newTestStore(t)

	_, err := newStreakService(store).Touch("ghost")
	require.Error(t, err)

	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}

func TestTouchUnlocksStreakAchievementOnce(t *testing.T) {
	store := newTestStore(t)
	createTestUser(t, store, "u1", 100)
	require.NoError(t, store.Db().Create(&model.Achievement{
		ID: "ach_streak_3", Code: "streak_3", Name: "Bonne habitude",
		RequirementType: shared.RequirementStreak, RequirementValue: 3, XPBonus: 15,
	}).Error)

	svc := newStreakService(store)
	setLastActive(t, store, "u1", 1, 2)

	resp, err := svc.Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.CurrentStreak)
	require.Len(t, resp.UnlockedAchievements, 1)
	assert.Equal(t, "streak_3", resp.UnlockedAchievements[0].Code)

	user, err := store.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 115, user.TotalXP)

	// Advancing another day does not grant the same badge or bonus again
	yesterday := dateOnly(time.Now().UTC().AddDate(0, 0, -1))
	require.NoError(t, store.Db().Model(&model.User{}).Where("id = ?", "u1").
		Update("last_active_date", yesterday).Error)

	resp, err = svc.Touch("u1")
	require.NoError(t, err)
	assert.Equal(t, 4, resp.CurrentStreak)
	assert.Empty(t, resp.UnlockedAchievements)

	user, err = store.GetUser("u1")
	require.NoError(t, err)
	assert.Equal(t, 115, user.TotalXP)
}

func TestDaysSinceLastActiveIgnoresTimeOfDay(t *testing.T) {
	today := dateOnly(time.Now().UTC())

	lateYesterday := today.Add(-time.Minute) // 23:59 the previous day
	assert.Equal(t, 1, daysSinceLastActive(&lateYesterday, today))

	earlyToday := today.Add(time.Minute)
	assert.Equal(t, 0, daysSinceLastActive(&earlyToday, today))

	assert.Greater(t, daysSinceLastActive(nil, today), 365)
}
