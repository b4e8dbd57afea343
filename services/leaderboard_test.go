package services

import (
	"testing"
	"time"

	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The cache layer degrades to direct reads when redis is absent, so the
// service runs here without one.
func newLeaderboardService(store *PostgresService) *LeaderboardService {
	return &LeaderboardService{sqlSvc: store}
}

func seedRankedUsers(t *testing.T, store *PostgresService) {
	t.Helper()

	now := time.Now().UTC()
	lastWeek := now.AddDate(0, 0, -3)
	lastQuarter := now.AddDate(0, 0, -60)

	users := []model.User{
		{ID: "alice", Username: "alice", TotalXP: 300, CurrentStreak: 5, LastActiveDate: &lastWeek},
		{ID: "bob", Username: "bob", TotalXP: 500, LastActiveDate: &lastQuarter},
		{ID: "chloe", Username: "chloe", TotalXP: 100, LastActiveDate: &lastWeek},
		{ID: "invite_a1b2c3d4", Username: "invite_a1b2c3d4", TotalXP: 900, IsAnonymous: true, LastActiveDate: &lastWeek},
	}
	require.NoError(t, store.Db().Create(&users).Error)
}

func TestLeaderboardRanksByTotalXP(t *testing.T) {
	store := newTestStore(t)
	seedRankedUsers(t, store)

	resp, err := newLeaderboardService(store).GetLeaderboard(shared.TimeframeAllTime, 0)
	require.NoError(t, err)
	assert.Equal(t, shared.TimeframeAllTime, resp.Timeframe)
	require.Len(t, resp.Entries, 3) // anonymous users never rank

	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, "bob", resp.Entries[0].Username)
	assert.Equal(t, 500, resp.Entries[0].TotalXP)
	assert.Equal(t, 2, resp.Entries[1].Rank)
	assert.Equal(t, "alice", resp.Entries[1].Username)
	assert.Equal(t, 3, resp.Entries[2].Rank)
	assert.Equal(t, "chloe", resp.Entries[2].Username)
}

func TestLeaderboardLimitTruncates(t *testing.T) {
	store := newTestStore(t)
	seedRankedUsers(t, store)

	resp, err := newLeaderboardService(store).GetLeaderboard(shared.TimeframeAllTime, 1)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "bob", resp.Entries[0].Username)
}

func TestLeaderboardWeekFiltersInactiveUsers(t *testing.T) {
	store := newTestStore(t)
	seedRankedUsers(t, store)

	resp, err := newLeaderboardService(store).GetLeaderboard(shared.TimeframeWeek, 0)
	require.NoError(t, err)
	assert.Equal(t, shared.TimeframeWeek, resp.Timeframe)
	require.Len(t, resp.Entries, 2) // bob last played two months ago
	assert.Equal(t, "alice", resp.Entries[0].Username)
	assert.Equal(t, "chloe", resp.Entries[1].Username)
}

func TestLeaderboardUnknownTimeframeFallsBack(t *testing.T) {
	store := newTestStore(t)
	seedRankedUsers(t, store)

	resp, err := newLeaderboardService(store).GetLeaderboard("decade", 0)
	require.NoError(t, err)
	assert.Equal(t, shared.TimeframeAllTime, resp.Timeframe)
	assert.Len(t, resp.Entries, 3)
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, defaultLeaderboardLimit, clampLimit(0))
	assert.Equal(t, defaultLeaderboardLimit, clampLimit(-5))
	assert.Equal(t, 10, clampLimit(10))
	assert.Equal(t, maxLeaderboardLimit, clampLimit(1000))
}

func TestGameLeaderboardRanksByScore(t *testing.T) {
	store := newTestStore(t)
	seedRankedUsers(t, store)
	createTestGame(t, store, "g1")

	scores := []model.HighScore{
		{ID: "s1", UserID: "alice", GameID: "g1", Score: 70},
		{ID: "s2", UserID: "bob", GameID: "g1", Score: 120},
		{ID: "s3", UserID: "chloe", GameID: "g1", Score: 30},
	}
	require.NoError(t, store.Db().Create(&scores).Error)

	resp, err := newLeaderboardService(store).GetGameLeaderboard("g1", 2)
	require.NoError(t, err)
	assert.Equal(t, "g1", resp.GameID)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, 1, resp.Entries[0].Rank)
	assert.Equal(t, "bob", resp.Entries[0].Username)
	assert.Equal(t, 120, resp.Entries[0].Score)
	assert.Equal(t, 2, resp.Entries[1].Rank)
	assert.Equal(t, "alice", resp.Entries[1].Username)
}

func TestGameLeaderboardUnknownGame(t *testing.T) {
	store := newTestStore(t)

	_, err := newLeaderboardService(store).GetGameLeaderboard("nope", 10)
	appErr, ok := shared.GetAppError(err)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
	assert.Equal(t, "Jeu non trouvé", appErr.Message)
}
