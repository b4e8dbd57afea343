package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/shared"
)

type ExerciseHandler struct {
	contentSvc     ContentServiceInterface
	progressionSvc ProgressionServiceInterface
}

func NewExerciseHandler(contentSvc ContentServiceInterface, progressionSvc ProgressionServiceInterface) *ExerciseHandler {
	return &ExerciseHandler{
		contentSvc:     contentSvc,
		progressionSvc: progressionSvc,
	}
}

// @Summary Exercise detail
// @Description Return one exercise with the answer key stripped
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param id path string true "Exercise ID"
// @Success 200 {object} dto.ExerciseResponse
// @Router /exercises/{id} [get]
func (h *ExerciseHandler) Get(c *fiber.Ctx) error {
	resp, err := h.contentSvc.GetExercise(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Submit an answer
// @Description Grade a submission, record the attempt and award XP
// @Tags exercises
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Exercise ID"
// @Param submitRequest body dto.SubmitAnswerRequest true "Answer payload"
// @Success 200 {object} dto.SubmitAnswerResponse
// @Router /exercises/{id}/submit [post]
func (h *ExerciseHandler) Submit(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Réponse requise")
	}

	if len(req.Answer) == 0 {
		return shared.NewBadRequestError(nil, "Réponse requise")
	}

	resp, err := h.progressionSvc.SubmitExercise(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Exercise stats
// @Description Per-user attempt aggregates for one exercise
// @Tags exercises
// @Produce json
// @Security Bearer
// @Param id path string true "Exercise ID"
// @Success 200 {object} dto.ExerciseStatsResponse
// @Router /exercises/{id}/stats [get]
func (h *ExerciseHandler) Stats(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressionSvc.ExerciseStats(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}
