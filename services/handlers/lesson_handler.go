package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/shared"
)

type LessonHandler struct {
	contentSvc     ContentServiceInterface
	progressionSvc ProgressionServiceInterface
}

func NewLessonHandler(contentSvc ContentServiceInterface, progressionSvc ProgressionServiceInterface) *LessonHandler {
	return &LessonHandler{
		contentSvc:     contentSvc,
		progressionSvc: progressionSvc,
	}
}

// @Summary List lessons
// @Description List the active lesson catalogue, with per-user progress when authenticated
// @Tags lessons
// @Produce json
// @Success 200 {array} dto.LessonResponse
// @Router /lessons [get]
func (h *LessonHandler) List(c *fiber.Ctx) error {
	userID := optionalUserID(c)

	resp, err := h.contentSvc.ListLessons(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Lesson detail
// @Description Return one lesson with its exercises, answer keys stripped
// @Tags lessons
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {object} dto.LessonResponse
// @Router /lessons/{id} [get]
func (h *LessonHandler) Get(c *fiber.Ctx) error {
	userID := optionalUserID(c)

	resp, err := h.contentSvc.GetLessonDetail(c.Params("id"), userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Start a lesson
// @Description Create or return the progress row, gated by required XP
// @Tags lessons
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Success 200 {object} dto.LessonProgressResponse
// @Router /lessons/{id}/start [post]
func (h *LessonHandler) Start(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.progressionSvc.StartLesson(userID, c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Complete a lesson
// @Description Record a finished run; score and stars keep their personal best
// @Tags lessons
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Lesson ID"
// @Param completeRequest body dto.CompleteLessonRequest true "Run result"
// @Success 200 {object} dto.LessonProgressResponse
// @Router /lessons/{id}/complete [post]
func (h *LessonHandler) Complete(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Score invalide")
	}

	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Score invalide").
			WithData(map[string]interface{}{"details": dto.FormatValidationErrors(err)})
	}

	resp, err := h.progressionSvc.CompleteLesson(userID, c.Params("id"), req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

func optionalUserID(c *fiber.Ctx) string {
	if v, ok := c.Locals(shared.UserID).(string); ok {
		return v
	}
	return ""
}
