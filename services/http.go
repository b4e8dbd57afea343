package services

import (
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/nird-lab/nird_api/services/handlers"
	"github.com/nird-lab/nird_api/shared"
)

type HttpService struct {
	context.DefaultService

	authSvc        *AuthService
	contentSvc     *ContentService
	progressionSvc *ProgressionService
	userSvc        *UserService
	streakSvc      *StreakService
	calculatorSvc  *CalculatorService
	leaderboardSvc *LeaderboardService
	rateLimitSvc   *RateLimitService
	monitoringSvc  *MonitoringService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.authSvc = svc.Service(AUTH_SVC).(*AuthService)
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.progressionSvc = svc.Service(PROGRESSION_SVC).(*ProgressionService)
	svc.userSvc = svc.Service(USER_SVC).(*UserService)
	svc.streakSvc = svc.Service(STREAK_SVC).(*StreakService)
	svc.calculatorSvc = svc.Service(CALCULATOR_SVC).(*CalculatorService)
	svc.leaderboardSvc = svc.Service(LEADERBOARD_SVC).(*LeaderboardService)
	svc.rateLimitSvc = svc.Service(RATE_LIMIT_SVC).(*RateLimitService)
	svc.monitoringSvc = svc.Service(MONITORING_SVC).(*MonitoringService)

	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		JSONEncoder:  shared.JSONMarshal,
		JSONDecoder:  shared.JSONUnmarshal,
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(MonitoringMiddleware(svc.monitoringSvc))

	app.Get("/ping", svc.ping)

	svc.registerRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Page non trouvée")
	})

	svc.server = app

	log.Infof("HTTP server listening on :%d", svc.port)
	return app.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

func (svc *HttpService) registerRoutes(app *fiber.App) {
	authHandler := handlers.NewAuthHandler(svc.authSvc)
	lessonHandler := handlers.NewLessonHandler(svc.contentSvc, svc.progressionSvc)
	exerciseHandler := handlers.NewExerciseHandler(svc.contentSvc, svc.progressionSvc)
	userHandler := handlers.NewUserHandler(svc.userSvc, svc.streakSvc, svc.leaderboardSvc, svc.progressionSvc)
	gameHandler := handlers.NewGameHandler(svc.progressionSvc, svc.leaderboardSvc)
	calculatorHandler := handlers.NewCalculatorHandler(svc.calculatorSvc)

	required := svc.authSvc.RequiredAuth()
	optional := svc.authSvc.OptionalAuth()

	auth := app.Group("/auth")
	auth.Post("/register", svc.rateLimitSvc.Middleware("register"), authHandler.Register)
	auth.Post("/login", svc.rateLimitSvc.Middleware("login"), authHandler.Login)
	auth.Post("/anonymous", svc.rateLimitSvc.Middleware("anonymous"), authHandler.Anonymous)
	auth.Get("/me", required, authHandler.Me)
	auth.Post("/convert-anonymous", required, authHandler.ConvertAnonymous)

	lessons := app.Group("/lessons")
	lessons.Get("/", optional, lessonHandler.List)
	lessons.Get("/:id", optional, lessonHandler.Get)
	lessons.Post("/:id/start", required, lessonHandler.Start)
	lessons.Post("/:id/complete", required, lessonHandler.Complete)

	exercises := app.Group("/exercises", required)
	exercises.Get("/:id", exerciseHandler.Get)
	exercises.Post("/:id/submit", svc.rateLimitSvc.Middleware("submit"), exerciseHandler.Submit)
	exercises.Get("/:id/stats", exerciseHandler.Stats)

	users := app.Group("/users")
	users.Get("/profile", required, userHandler.Profile)
	users.Post("/update-streak", required, userHandler.UpdateStreak)
	users.Get("/leaderboard", userHandler.Leaderboard)
	// fixed segments before the :id wildcard so /me is never captured
	users.Get("/me/scores", required, userHandler.MyScores)
	users.Get("/:id/public", userHandler.PublicProfile)
	users.Get("/:id/scores", userHandler.UserScores)

	app.Post("/calculate", calculatorHandler.Calculate)

	games := app.Group("/games")
	games.Get("/", gameHandler.List)
	games.Get("/:id", gameHandler.Get)
	games.Post("/:id/score", required, gameHandler.SubmitScore)
	games.Get("/:id/leaderboard", gameHandler.Leaderboard)
	games.Get("/:id/my-score", required, gameHandler.MyScore)
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")
	return shared.ResponseJSON(c, http.StatusOK, fiber.Map{"message": "pong"})
}

// handleError maps domain failures onto their status and French message.
// Anything unrecognized is logged and becomes an opaque 500.
func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		if appErr.StatusCode >= http.StatusInternalServerError {
			log.WithError(err).Error("Request failed")
		}
		return shared.ResponseError(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return shared.ResponseError(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled error")
	return shared.ResponseError(c, http.StatusInternalServerError, "Erreur interne", nil)
}
