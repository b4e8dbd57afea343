package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/shared"
)

type UserHandler struct {
	userSvc        UserServiceInterface
	streakSvc      StreakServiceInterface
	leaderboardSvc LeaderboardServiceInterface
	progressionSvc ProgressionServiceInterface
}

func NewUserHandler(userSvc UserServiceInterface, streakSvc StreakServiceInterface, leaderboardSvc LeaderboardServiceInterface, progressionSvc ProgressionServiceInterface) *UserHandler {
	return &UserHandler{
		userSvc:        userSvc,
		streakSvc:      streakSvc,
		leaderboardSvc: leaderboardSvc,
		progressionSvc: progressionSvc,
	}
}

// @Summary Full profile
// @Description Profile of the authenticated user with stats and achievements
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.ProfileResponse
// @Router /users/profile [get]
func (h *UserHandler) Profile(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.userSvc.GetProfile(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Update daily streak
// @Description Advance the daily streak for today and unlock earned achievements
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.StreakResponse
// @Router /users/update-streak [post]
func (h *UserHandler) UpdateStreak(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.streakSvc.Touch(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Global leaderboard
// @Description Rank non-anonymous users by total XP
// @Tags users
// @Produce json
// @Param limit query int false "Result cap, default 50, max 100"
// @Param timeframe query string false "week, month or all-time"
// @Success 200 {object} dto.LeaderboardResponse
// @Router /users/leaderboard [get]
func (h *UserHandler) Leaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))
	timeframe := c.Query("timeframe", shared.TimeframeAllTime)

	resp, err := h.leaderboardSvc.GetLeaderboard(timeframe, limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Public profile
// @Description Public view of any user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.PublicProfileResponse
// @Router /users/{id}/public [get]
func (h *UserHandler) PublicProfile(c *fiber.Ctx) error {
	resp, err := h.userSvc.GetPublicProfile(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary User high scores
// @Description All arcade high scores for one user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} dto.UserScoreResponse
// @Router /users/{id}/scores [get]
func (h *UserHandler) UserScores(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.GetUserScores(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Own high scores
// @Tags users
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.UserScoreResponse
// @Router /users/me/scores [get]
func (h *UserHandler) MyScores(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressionSvc.GetUserScores(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}
