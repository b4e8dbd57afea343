package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/shared"
)

type AuthHandler struct {
	authSvc AuthServiceInterface
}

func NewAuthHandler(authSvc AuthServiceInterface) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// @Summary Register a new user
// @Description Create a new account and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param registerRequest body dto.RegisterRequest true "Registration details"
// @Success 201 {object} dto.AuthResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Username et password requis")
	}

	if req.Username == "" || req.Password == "" {
		return shared.NewBadRequestError(nil, "Username et password requis")
	}

	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Username et password requis").
			WithData(map[string]interface{}{"details": dto.FormatValidationErrors(err)})
	}

	resp, err := h.authSvc.Register(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusCreated, resp)
}

// @Summary Login
// @Description Authenticate a user and return an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param loginRequest body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.AuthResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Identifiants requis")
	}

	if req.Username == "" || req.Password == "" {
		return shared.NewBadRequestError(nil, "Identifiants requis")
	}

	resp, err := h.authSvc.Login(req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Create anonymous session
// @Description Create a throwaway invite account with a long-lived token
// @Tags auth
// @Produce json
// @Success 200 {object} dto.AuthResponse
// @Router /auth/anonymous [post]
func (h *AuthHandler) Anonymous(c *fiber.Ctx) error {
	resp, err := h.authSvc.CreateAnonymous()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Current user
// @Description Return the profile of the authenticated user
// @Tags auth
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.UserResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	resp, err := h.authSvc.GetMe(userID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}

// @Summary Convert anonymous account
// @Description Upgrade an anonymous account to a registered one
// @Tags auth
// @Accept json
// @Produce json
// @Security Bearer
// @Param convertRequest body dto.ConvertAnonymousRequest true "New credentials"
// @Success 200 {object} dto.AuthResponse
// @Router /auth/convert-anonymous [post]
func (h *AuthHandler) ConvertAnonymous(c *fiber.Ctx) error {
	userID := c.Locals(shared.UserID).(string)

	var req dto.ConvertAnonymousRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Username et password requis")
	}

	if req.Username == "" || req.Password == "" {
		return shared.NewBadRequestError(nil, "Username et password requis")
	}

	if err := req.Validate(); err != nil {
		return shared.NewBadRequestError(err, "Username et password requis").
			WithData(map[string]interface{}{"details": dto.FormatValidationErrors(err)})
	}

	resp, err := h.authSvc.ConvertAnonymous(userID, req)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, http.StatusOK, resp)
}
