package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/shared"
)

type GameHandler struct {
	progressionSvc ProgressionServiceInterface
	leaderboardSvc LeaderboardServiceInterface
}

func NewGameHandler(progressionSvc ProgressionServiceInterface, leaderboardSvc LeaderboardServiceInterface) *GameHandler {
	return &GameHandler{
		progressionSvc: progressionSvc,
		leaderboardSvc: leaderboardSvc,
	}
}

// @Summary List games
// @Tags games
// @Produce json
// @Success 200 {array} dto.GameResponse
// @Router /games [get]
func (h *GameHandler) List(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.ListGames()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Game detail
// @Tags games
// @Produce json
// @Param id path string true "Game ID"
// @Success 200 {object} dto.GameResponse
// @Router /games/{id} [get]
func (h *GameHandler) Get(c *fiber.Ctx) error {
	resp, err := h.progressionSvc.GetGame(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Submit a score
// @Description Record an arcade run; only a strictly better score becomes the new record
// @Tags games
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Game ID"
// @Param scoreRequest body dto.SubmitScoreRequest true "Run score"
// @Success 200 {object} dto.SubmitScoreResponse
// @Router /games/{id}/score [post]
func (h *GameHandler) SubmitScore(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SubmitScoreRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Score invalide")
	}

	resp, err := h.progressionSvc.RecordGameScore(userID, c.Params("id"), req.Score)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Game leaderboard
// @Tags games
// @Produce json
// @Param id path string true "Game ID"
// @Param limit query int false "Result cap, default 50, max 100"
// @Success 200 {object} dto.GameLeaderboardResponse
// @Router /games/{id}/leaderboard [get]
func (h *GameHandler) Leaderboard(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit"))

	resp, err := h.leaderboardSvc.GetGameLeaderboard(c.Params("id"), limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Own score for a game
// @Tags games
// @Produce json
// @Security Bearer
// @Param id path string true "Game ID"
// @Success 200 {object} dto.MyScoreResponse
// @Router /games/{id}/my-score [get]
func (h *GameHandler) MyScore(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressionSvc.GetMyScore(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}
