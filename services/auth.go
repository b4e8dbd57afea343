package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/nird-lab/nird_api/dto"
	"github.com/nird-lab/nird_api/model"
	"github.com/nird-lab/nird_api/shared"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	context.DefaultService

	sqlSvc *PostgresService
	jwtSvc *JWTService
}

const AUTH_SVC = "auth_svc"

func (svc AuthService) Id() string {
	return AUTH_SVC
}

func (svc *AuthService) Configure(ctx *context.Context) error {
	return svc.DefaultService.Configure(ctx)
}

func (svc *AuthService) Start() error {
	svc.sqlSvc = svc.Service(POSTGRES_SVC).(*PostgresService)
	svc.jwtSvc = svc.Service(JWT_SVC).(*JWTService)
	return nil
}

func (svc *AuthService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	taken, err := svc.sqlSvc.UsernameExists(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Ce nom d'utilisateur existe déjà")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Erreur interne")
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user, err := svc.sqlSvc.CreateUser(&model.User{
		Username:    req.Username,
		Password:    string(hashed),
		DisplayName: displayName,
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("User registered")

	return svc.buildAuthResponse(user, svc.jwtSvc.AccessTokenDuration)
}

func (svc *AuthService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := svc.sqlSvc.GetUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.NewUnauthorizedError(nil, "Identifiants incorrects")
		}
		return nil, svc.sqlSvc.HandleError(err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, shared.NewUnauthorizedError(nil, "Identifiants incorrects")
	}

	return svc.buildAuthResponse(user, svc.jwtSvc.AccessTokenDuration)
}

// CreateAnonymous provisions a throwaway invite account. The generated
// username keeps the invite_ prefix the clients recognize.
func (svc *AuthService) CreateAnonymous() (*dto.AuthResponse, error) {
	username, err := generateInviteUsername()
	if err != nil {
		return nil, shared.NewInternalError(err, "Erreur interne")
	}

	user, err := svc.sqlSvc.CreateUser(&model.User{
		Username:    username,
		DisplayName: "Visiteur",
		IsAnonymous: true,
	})
	if err != nil {
		return nil, err
	}

	log.WithField("user_id", user.ID).Info("Anonymous session created")

	return svc.buildAuthResponse(user, svc.jwtSvc.AnonymousTokenDuration)
}

func (svc *AuthService) ConvertAnonymous(userID string, req dto.ConvertAnonymousRequest) (*dto.AuthResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if !user.IsAnonymous {
		return nil, shared.NewBadRequestError(nil, "Ce compte n'est pas anonyme")
	}

	taken, err := svc.sqlSvc.UsernameExists(req.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewConflictError(nil, "Ce nom d'utilisateur existe déjà")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, shared.NewInternalError(err, "Erreur interne")
	}

	user.Username = req.Username
	user.Password = string(hashed)
	user.DisplayName = req.Username
	user.IsAnonymous = false

	if err := svc.sqlSvc.UpdateUser(user); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"user_id": user.ID, "username": user.Username}).Info("Anonymous account converted")

	return svc.buildAuthResponse(user, svc.jwtSvc.AccessTokenDuration)
}

func (svc *AuthService) GetMe(userID string) (*dto.UserResponse, error) {
	user, err := svc.sqlSvc.GetUser(userID)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserResponse(user)
	return &resp, nil
}

func (svc *AuthService) buildAuthResponse(user *model.User, duration time.Duration) (*dto.AuthResponse, error) {
	token, err := svc.jwtSvc.ToJWT(user.ID, duration)
	if err != nil {
		return nil, shared.NewInternalError(err, "Erreur interne")
	}

	return &dto.AuthResponse{
		Token: token,
		User:  dto.NewUserResponse(user),
	}, nil
}

// RequiredAuth rejects requests without a valid bearer token. A missing token
// is 401, a bad or expired one is 403, matching what the clients expect.
func (svc *AuthService) RequiredAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
		if err != nil {
			return shared.ResponseError(c, http.StatusUnauthorized, "Token manquant", nil)
		}

		userID, err := svc.jwtSvc.VerifyJWTToken(token)
		if err != nil || userID == "" {
			return shared.ResponseError(c, http.StatusForbidden, "Token invalide", nil)
		}

		c.Locals(shared.UserID, userID)
		return c.Next()
	}
}

// OptionalAuth resolves the user when a valid token is present and stays
// silent otherwise; a bad token is ignored rather than rejected.
func (svc *AuthService) OptionalAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.jwtSvc.ExtractTokenFromHeader(c.Get("Authorization"))
		if err == nil {
			if userID, err := svc.jwtSvc.VerifyJWTToken(token); err == nil && userID != "" {
				c.Locals(shared.UserID, userID)
			}
		}
		return c.Next()
	}
}

func generateInviteUsername() (string, error) {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "invite_" + hex.EncodeToString(buf), nil
}
