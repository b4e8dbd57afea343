package services

import (
	stdcontext "context"
	"errors"
	"fmt"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/shared"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	defaultLeaderboardLimit = 50
	maxLeaderboardLimit     = 100
	leaderboardCacheTTL     = 30 * time.Second
)

type LeaderboardService struct {
	context.DefaultService

	sqlSvc   *PostgresService
	redisSvc *RedisService
}

const LEADERBOARD_SVC = "leaderboard_svc"

func (svc LeaderboardService) Id() string {
	return LEADERBOARD_SVC
}

func (svc *LeaderboardService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	return nil
}

// GetLeaderboard ranks non-anonymous users by total XP. The timeframe filter
// keeps users whose last activity falls inside the window. Ranks are 1-based
// in stable sort order; ties keep their relative position.
func (svc *LeaderboardService) GetLeaderboard(timeframe string, limit int) (*dto.LeaderboardResponse, error) {
	limit = clampLimit(limit)

	var activeSince *time.Time
	switch timeframe {
	case shared.TimeframeWeek:
		since := time.Now().AddDate(0, 0, -7)
		activeSince = &since
	case shared.TimeframeMonth:
		since := time.Now().AddDate(0, 0, -30)
		activeSince = &since
	default:
		timeframe = shared.TimeframeAllTime
	}

	cacheKey := fmt.Sprintf("leaderboard:global:%s:%d", timeframe, limit)
	var cached dto.LeaderboardResponse
	if svc.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	users, err := svc.sqlSvc.GetLeaderboardUsers(activeSince, limit)
	if err != nil {
		return nil, err
	}

	resp := dto.LeaderboardResponse{
		Timeframe: timeframe,
		Entries:   make([]dto.LeaderboardEntry, 0, len(users)),
	}
	for i := range users {
		resp.Entries = append(resp.Entries, dto.LeaderboardEntry{
			Rank:          i + 1,
			UserID:        users[i].ID,
			Username:      users[i].Username,
			DisplayName:   users[i].DisplayName,
			Avatar:        users[i].Avatar,
			TotalXP:       users[i].TotalXP,
			CurrentStreak: users[i].CurrentStreak,
		})
	}

	svc.cacheSet(cacheKey, &resp)
	return &resp, nil
}

func (svc *LeaderboardService) GetGameLeaderboard(gameID string, limit int) (*dto.GameLeaderboardResponse, error) {
	limit = clampLimit(limit)

	if _, err := svc.sqlSvc.GetGame(gameID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewNotFoundError(nil, "Jeu non trouvé")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	cacheKey := fmt.Sprintf("leaderboard:game:%s:%d", gameID, limit)
	var cached dto.GameLeaderboardResponse
	if svc.cacheGet(cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := svc.sqlSvc.GetGameLeaderboard(gameID, limit)
	if err != nil {
		return nil, err
	}

	resp := dto.GameLeaderboardResponse{
		GameID:  gameID,
		Entries: make([]dto.GameLeaderboardEntry, 0, len(rows)),
	}
	for i, row := range rows {
		resp.Entries = append(resp.Entries, dto.GameLeaderboardEntry{
			Rank:        i + 1,
			UserID:      row.UserID,
			Username:    row.Username,
			DisplayName: row.DisplayName,
			Score:       row.Score,
		})
	}

	svc.cacheSet(cacheKey, &resp)
	return &resp, nil
}

// Cache misses and redis failures both fall through to a direct read
func (svc *LeaderboardService) cacheGet(key string, dest interface{}) bool {
	if svc.redisSvc == nil {
		return false
	}

	ctx, cancel := stdcontext.WithTimeout(stdcontext.Background(), time.Second)
	defer cancel()

	found, err := svc.redisSvc.GetJSON(ctx, key, dest)
	if err != nil {
		log.WithError(err).Debug("Leaderboard cache read failed")
		return false
	}
	return found
}

func (svc *LeaderboardService) cacheSet(key string, value interface{}) {
	if svc.redisSvc == nil {
		return
	}

	ctx, cancel := stdcontext.WithTimeout(stdcontext.Background(), time.Second)
	defer cancel()

	if err := svc.redisSvc.Set(ctx, key, value, leaderboardCacheTTL); err != nil {
		log.WithError(err).Debug("Leaderboard cache write failed")
	}
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		return maxLeaderboardLimit
	}
	return limit
}
