package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/shared"
)

type CalculatorHandler struct {
	calculatorSvc CalculatorServiceInterface
}

func NewCalculatorHandler(calculatorSvc CalculatorServiceInterface) *CalculatorHandler {
	return &CalculatorHandler{calculatorSvc: calculatorSvc}
}

// @Summary Migration projection
// @Description Project savings, carbon impact and autonomy score for a school setup
// @Tags calculator
// @Accept json
// @Produce json
// @Param calculateRequest body dto.CalculateRequest true "Current setup"
// @Success 200 {object} dto.CalculateResponse
// @Router /calculate [post]
func (h *CalculatorHandler) Calculate(c *fiber.Ctx) error {
	var req dto.CalculateRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Données invalides")
	}

	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Données invalides").
			WithData(map[string]interface{}{"details": dto.FormatValidationErrors(err)})
	}

	return shared.ResponseJSON(c, http.StatusOK, h.calculatorSvc.Compute(req))
}
